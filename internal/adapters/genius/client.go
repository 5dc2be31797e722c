// Package genius implements the lyrics port on top of the Genius search API
// and the public song pages, which carry the lyric text.
package genius

import (
	"log"
	"net/http"
	"strings"

	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
	"github.com/edh5623/Songtiment-Analysis/internal/retry"
)

const DefaultBaseURL = "https://api.genius.com"

// Client talks to the Genius API.
type Client struct {
	doer    *retry.Doer
	baseURL string
	token   string
	debug   bool
}

// compile-time interface assertion
var _ ports.LyricsProvider = (*Client)(nil)

// NewClient constructs a Genius client. A nil doer uses http.DefaultClient with default retries.
func NewClient(doer *retry.Doer, baseURL, token string) *Client {
	if doer == nil {
		doer = retry.New("genius adapter", http.DefaultClient, 0, 0)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// SetDebug toggles DEBUG log lines.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) logf(format string, args ...any) {
	if c.debug {
		log.Printf("DEBUG genius adapter: "+format, args...)
	}
}
