package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/match"
)

// hits scoring below this are treated as a different song
const searchMatchThreshold = 0.6

// lyricsComplete is the only lyrics_state whose page carries full lyrics.
// Unreleased and in-progress transcriptions report "unreleased" or "incomplete".
const lyricsComplete = "complete"

type searchResponse struct {
	Meta struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"meta"`
	Response struct {
		Hits []searchHit `json:"hits"`
	} `json:"response"`
}

type searchHit struct {
	Type   string     `json:"type"`
	Result geniusSong `json:"result"`
}

type geniusSong struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	LyricsState   string `json:"lyrics_state"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}

// FindSong searches Genius for title and artist and returns the best scoring
// song hit, or domain.ErrSongNotFound.
func (c *Client) FindSong(ctx context.Context, title, artist string) (domain.Song, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return domain.Song{}, fmt.Errorf("genius adapter: invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", match.QueryOrRaw(title)+" "+match.QueryOrRaw(artist))
	searchURL.RawQuery = query.Encode()

	c.logf("search request URL: %s", searchURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return domain.Song{}, fmt.Errorf("genius adapter: failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return domain.Song{}, fmt.Errorf("genius adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Song{}, fmt.Errorf("genius adapter: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Song{}, fmt.Errorf("genius adapter: search decode error: %w", err)
	}

	bestScore := 0.0
	bestIndex := -1
	for i, hit := range body.Response.Hits {
		if hit.Type != "song" || hit.Result.URL == "" {
			continue
		}
		if state := hit.Result.LyricsState; state != "" && state != lyricsComplete {
			c.logf("skipping %s - %s: lyrics %s", hit.Result.PrimaryArtist.Name, hit.Result.Title, state)
			continue
		}
		score := match.ScoreResult(artist, title, hit.Result.PrimaryArtist.Name, hit.Result.Title)
		c.logf("candidate: %s - %s (Score: %.2f)", hit.Result.PrimaryArtist.Name, hit.Result.Title, score)
		if score >= searchMatchThreshold && score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex == -1 {
		return domain.Song{}, fmt.Errorf("genius adapter: no song for title %q artist %q: %w", title, artist, domain.ErrSongNotFound)
	}

	best := body.Response.Hits[bestIndex].Result
	return domain.Song{
		ID:     strconv.Itoa(best.ID),
		Title:  best.Title,
		Artist: best.PrimaryArtist.Name,
		URL:    best.URL,
	}, nil
}
