package spotify

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
	"github.com/edh5623/Songtiment-Analysis/internal/retry"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify Web API.
type Client struct {
	doer            *retry.Doer
	baseURL         string
	debug           bool
	synthesize      bool
	measureLoudness func(ctx context.Context, previewURL string) (float64, error)
}

// compile-time interface assertion
var _ ports.FeatureProvider = (*Client)(nil)

// NewClient constructs a new Spotify client. httpClient must add
// authorization; see CredentialsClient.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		doer:            retry.New("spotify adapter", httpClient, 0, 0),
		baseURL:         strings.TrimRight(baseURL, "/"),
		measureLoudness: previewLoudness,
	}
}

// CredentialsClient returns an HTTP client that authenticates with the
// client-credentials flow and refreshes its token as needed.
func CredentialsClient(ctx context.Context, clientID, clientSecret, tokenURL string, timeout time.Duration) *http.Client {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	client := cfg.Client(ctx)
	client.Timeout = timeout
	return client
}

// SetRetry overrides the retry policy. Non-positive values keep the defaults.
func (c *Client) SetRetry(maxRetries int, baseBackoff time.Duration) {
	c.doer.MaxRetries = maxRetries
	c.doer.BaseBackoff = baseBackoff
}

// SetSynthesize makes TrackFeatures generate a vector, marked as synthesized,
// for tracks whose audio features Spotify withholds.
func (c *Client) SetSynthesize(synthesize bool) {
	c.synthesize = synthesize
}

// SetDebug toggles DEBUG log lines.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) logf(format string, args ...any) {
	if c.debug {
		log.Printf("DEBUG spotify adapter: "+format, args...)
	}
}
