package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/edh5623/Songtiment-Analysis/internal/adapters/genius"
	"github.com/edh5623/Songtiment-Analysis/internal/adapters/spotify"
	"github.com/edh5623/Songtiment-Analysis/internal/adapters/sqlite"
	"github.com/edh5623/Songtiment-Analysis/internal/adapters/tfserving"
	"github.com/edh5623/Songtiment-Analysis/internal/adapters/vader"
	"github.com/edh5623/Songtiment-Analysis/internal/config"
	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
	"github.com/edh5623/Songtiment-Analysis/internal/core/services"
	"github.com/edh5623/Songtiment-Analysis/internal/nn"
	"github.com/edh5623/Songtiment-Analysis/internal/retry"
)

func build(ctx context.Context, cfg *config.Config, out io.Writer) (*pipeline, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	// -- Spotify
	spotifyHTTP := spotify.CredentialsClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyTokenURL, cfg.Timeout)
	features := spotify.NewClient(spotifyHTTP, cfg.SpotifyBaseURL)
	features.SetRetry(cfg.MaxRetries, cfg.RetryBackoff)
	features.SetDebug(cfg.Debug)
	features.SetSynthesize(cfg.SynthesizeFeatures)

	// -- Genius
	lyrics := genius.NewClient(retry.New("genius adapter", httpClient, cfg.MaxRetries, cfg.RetryBackoff), cfg.GeniusBaseURL, cfg.GeniusToken)
	lyrics.SetDebug(cfg.Debug)

	// -- VADER
	lexicon, err := vader.New(cfg.Lexicon, cfg.EmojiLexicon)
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}

	// -- Models
	serving := tfserving.NewClient(cfg.ModelURL, retry.New("tfserving adapter", httpClient, cfg.MaxRetries, cfg.RetryBackoff))
	newModel := func(name string) *nn.Model {
		return nn.NewModel(name, serving, nn.VocabLoader(cfg.VocabDir, name, cfg.PadLength),
			nn.WithLogits(cfg.ModelLogits), nn.WithDebug(cfg.Debug))
	}

	// -- Storage
	p := &pipeline{}
	var repo ports.AnalysisRepository
	if cfg.DB != "" {
		db, err := sqlite.NewAdapter(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		repo = db
		p.store = db
		p.close = db.Close
	}

	p.analyzer = services.NewAnalyzer(lyrics, features, lexicon, newModel(cfg.IMDBModel), newModel(cfg.YelpModel), domain.NewBlendScorer(), repo, out)
	return p, nil
}
