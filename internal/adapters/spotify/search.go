package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
	"github.com/edh5623/Songtiment-Analysis/internal/match"
)

const (
	searchLimit          = 5
	searchMatchThreshold = 0.8
)

func (c *Client) searchTrack(ctx context.Context, title string, artist string) (spotify.FullTrack, error) {
	searchURL, err := url.Parse(fmt.Sprintf("%s/search", c.baseURL))
	if err != nil {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", fmt.Sprintf("track:%s artist:%s", match.QueryOrRaw(title), match.QueryOrRaw(artist)))
	query.Set("type", "track")
	query.Set("limit", fmt.Sprint(searchLimit))
	searchURL.RawQuery = query.Encode()

	c.logf("search request URL: %s", searchURL.String())

	searchReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}

	searchResp, err := c.doer.Do(searchReq)
	if err != nil {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer searchResp.Body.Close()

	if searchResp.StatusCode != http.StatusOK {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: search status %d", searchResp.StatusCode)
	}

	var result spotify.SearchResult
	if err := json.NewDecoder(searchResp.Body).Decode(&result); err != nil {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}

	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: %w", ports.NoConfidentMatchError{Title: title, Artist: artist})
	}

	items := result.Tracks.Tracks
	if len(items) > searchLimit {
		items = items[:searchLimit]
	}

	bestScore := 0.0
	bestIndex := -1
	for i, candidate := range items {
		candidateArtist := joinArtistNames(candidate)
		score := match.ScoreResult(artist, title, candidateArtist, candidate.Name)
		c.logf("Spotify Match: %s - %s (Score: %.2f)", candidateArtist, candidate.Name, score)
		if score < searchMatchThreshold {
			// fall back to the field-weighted score for long titles with extra words
			if fieldScore, ok := match.TrackScore(title, artist, candidate.Name, candidateArtist); ok {
				score = fieldScore
			}
		}
		if score >= searchMatchThreshold && score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex == -1 {
		return spotify.FullTrack{}, fmt.Errorf("spotify adapter: %w", ports.NoConfidentMatchError{Title: title, Artist: artist})
	}

	return items[bestIndex], nil
}

func joinArtistNames(track spotify.FullTrack) string {
	parts := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		parts = append(parts, artist.Name)
	}
	return strings.Join(parts, " ")
}
