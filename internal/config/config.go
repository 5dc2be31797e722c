// Package config holds the runtime settings shared by every collaborator.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/edh5623/Songtiment-Analysis/internal/adapters/genius"
	"github.com/edh5623/Songtiment-Analysis/internal/adapters/spotify"
	"github.com/edh5623/Songtiment-Analysis/internal/retry"
	"github.com/edh5623/Songtiment-Analysis/internal/textenc"
)

// ErrMissingCredentials is returned by Validate when an API credential is empty.
var ErrMissingCredentials = errors.New("config: missing credentials")

const (
	DefaultModelURL = "http://localhost:8501"
	DefaultVocabDir = "models"
	DefaultTimeout  = 30 * time.Second
)

type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyBaseURL      string
	SpotifyTokenURL     string

	GeniusToken   string
	GeniusBaseURL string

	ModelURL    string
	IMDBModel   string
	YelpModel   string
	VocabDir    string
	PadLength   int
	ModelLogits bool

	SynthesizeFeatures bool

	Lexicon      string
	EmojiLexicon string

	DB string

	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration
	Debug        bool
}

// RegisterFlags binds every setting to fs with its default.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.SpotifyClientID, "spotify-client-id", "", "Spotify client ID")
	fs.StringVar(&c.SpotifyClientSecret, "spotify-client-secret", "", "Spotify client secret")
	fs.StringVar(&c.SpotifyBaseURL, "spotify-base-url", spotify.DefaultBaseURL, "Spotify Web API base URL")
	fs.StringVar(&c.SpotifyTokenURL, "spotify-token-url", spotify.DefaultTokenURL, "Spotify OAuth token URL")

	fs.StringVar(&c.GeniusToken, "genius-token", "", "Genius API access token")
	fs.StringVar(&c.GeniusBaseURL, "genius-base-url", genius.DefaultBaseURL, "Genius API base URL")

	fs.StringVar(&c.ModelURL, "model-url", DefaultModelURL, "TensorFlow Serving REST endpoint")
	fs.StringVar(&c.IMDBModel, "imdb-model", "imdb", "name of the movie review model")
	fs.StringVar(&c.YelpModel, "yelp-model", "yelp", "name of the restaurant review model")
	fs.StringVar(&c.VocabDir, "vocab-dir", DefaultVocabDir, "directory holding <model>.subwords vocabularies")
	fs.IntVar(&c.PadLength, "pad-length", textenc.DefaultPadLength, "sequence length lyrics are padded to")
	fs.BoolVar(&c.ModelLogits, "model-logits", false, "models emit logits instead of probabilities")

	fs.BoolVar(&c.SynthesizeFeatures, "synthesize-features", false, "generate audio features when Spotify withholds them (results are marked)")

	fs.StringVar(&c.Lexicon, "lexicon", "", "VADER word lexicon file (default: lexicon compiled into the binary)")
	fs.StringVar(&c.EmojiLexicon, "emoji-lexicon", "", "VADER emoji lexicon file (default: lexicon compiled into the binary)")

	fs.StringVar(&c.DB, "db", "", "SQLite file for analysis history and lyrics cache (optional)")

	fs.IntVar(&c.MaxRetries, "max-retries", retry.DefaultMaxRetries, "retries for transient HTTP failures")
	fs.DurationVar(&c.RetryBackoff, "retry-backoff", retry.DefaultBackoff, "base retry backoff")
	fs.DurationVar(&c.Timeout, "timeout", DefaultTimeout, "HTTP client timeout")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
}

// Validate reports every missing credential at once, then any bad numeric setting.
func (c *Config) Validate() error {
	var missing []string
	if c.SpotifyClientID == "" {
		missing = append(missing, "spotify-client-id")
	}
	if c.SpotifyClientSecret == "" {
		missing = append(missing, "spotify-client-secret")
	}
	if c.GeniusToken == "" {
		missing = append(missing, "genius-token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.PadLength <= 0 {
		return fmt.Errorf("config: pad-length must be positive, got %d", c.PadLength)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max-retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
