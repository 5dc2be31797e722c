package genius

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

const (
	lyricsSelector  = `div[data-lyrics-container="true"]`
	excludeSelector = `[data-exclude-from-selection="true"]`
)

// Lyrics downloads the song page and extracts the lyric text, one line per
// line break on the page.
func (c *Client) Lyrics(ctx context.Context, song domain.Song) (string, error) {
	if song.URL == "" {
		return "", fmt.Errorf("genius adapter: song %s has no page url", song.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, song.URL, nil)
	if err != nil {
		return "", fmt.Errorf("genius adapter: failed to create lyrics request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("genius adapter: lyrics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius adapter: lyrics status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("genius adapter: parse lyrics page: %w", err)
	}

	lyrics := extractLyrics(doc)
	if lyrics == "" {
		return "", fmt.Errorf("genius adapter: no lyrics on page %s", song.URL)
	}

	c.logf("read %d bytes of lyrics for song %s", len(lyrics), song.ID)
	return lyrics, nil
}

func extractLyrics(doc *goquery.Document) string {
	var blocks []string
	doc.Find(lyricsSelector).Each(func(_ int, s *goquery.Selection) {
		s.Find(excludeSelector).Remove()
		s.Find("br").ReplaceWithHtml("\n")
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.TrimSpace(strings.Join(blocks, "\n"))
}
