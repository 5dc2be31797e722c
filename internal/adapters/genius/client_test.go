package genius_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edh5623/Songtiment-Analysis/internal/adapters/genius"
	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/retry"
)

const lyricsPage = `<!DOCTYPE html>
<html><body>
<div class="header">Yesterday Lyrics</div>
<div data-lyrics-container="true" class="Lyrics__Container">
  <div data-exclude-from-selection="true">12 Contributors</div>[Verse 1]<br/>Yesterday<br/>All my troubles seemed so far away<br/>Now it looks as though they're here to stay
</div>
<div data-lyrics-container="true" class="Lyrics__Container">[Chorus]<br/>Why she had to go?<br><i>I don't know</i>, she wouldn't say</div>
</body></html>`

const wantLyrics = "[Verse 1]\nYesterday\nAll my troubles seemed so far away\nNow it looks as though they're here to stay\n" +
	"[Chorus]\nWhy she had to go?\nI don't know, she wouldn't say"

func newServer(t *testing.T, searchBody string, searchStatus int) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization: got %q", got)
			}
			w.WriteHeader(searchStatus)
			fmt.Fprintf(w, searchBody, ts.URL)
		case "/The-beatles-yesterday-lyrics":
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("song page should not receive the API token, got %q", got)
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(lyricsPage))
		case "/empty-lyrics":
			_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return ts
}

func newClient(ts *httptest.Server) *genius.Client {
	return genius.NewClient(retry.New("genius adapter", http.DefaultClient, 1, time.Millisecond), ts.URL, "test-token")
}

func TestFindSong(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		artist       string
		searchBody   string
		searchStatus int
		wantSong     domain.Song
		wantErr      error
		wantAnyErr   bool
	}{
		{
			name:         "picks the matching song hit",
			title:        "Yesterday",
			artist:       "The Beatles",
			searchStatus: http.StatusOK,
			searchBody: `{"meta":{"status":200},"response":{"hits":[
				{"type":"song","result":{"id":1,"title":"Yesterday Once More","url":"%[1]s/carpenters","primary_artist":{"name":"Carpenters"}}},
				{"type":"song","result":{"id":2236,"title":"Yesterday - Remastered 2009","url":"%[1]s/The-beatles-yesterday-lyrics","primary_artist":{"name":"The Beatles"}}}
			]}}`,
			wantSong: domain.Song{ID: "2236", Title: "Yesterday - Remastered 2009", Artist: "The Beatles"},
		},
		{
			name:         "skips hits without complete lyrics",
			title:        "Yesterday",
			artist:       "The Beatles",
			searchStatus: http.StatusOK,
			searchBody: `{"meta":{"status":200},"response":{"hits":[
				{"type":"song","result":{"id":7,"title":"Yesterday","url":"%[1]s/demo","lyrics_state":"unreleased","primary_artist":{"name":"The Beatles"}}},
				{"type":"song","result":{"id":2236,"title":"Yesterday - Remastered 2009","url":"%[1]s/The-beatles-yesterday-lyrics","lyrics_state":"complete","primary_artist":{"name":"The Beatles"}}}
			]}}`,
			wantSong: domain.Song{ID: "2236", Title: "Yesterday - Remastered 2009", Artist: "The Beatles"},
		},
		{
			name:         "only incomplete transcriptions",
			title:        "Yesterday",
			artist:       "The Beatles",
			searchStatus: http.StatusOK,
			searchBody:   `{"meta":{"status":200},"response":{"hits":[{"type":"song","result":{"id":7,"title":"Yesterday","url":"%s/demo","lyrics_state":"incomplete","primary_artist":{"name":"The Beatles"}}}]}}`,
			wantErr:      domain.ErrSongNotFound,
			wantAnyErr:   true,
		},
		{
			name:         "no hits",
			title:        "Nonexistent",
			artist:       "Nobody",
			searchStatus: http.StatusOK,
			searchBody:   `{"meta":{"status":200},"response":{"hits":[]}}%.0s`,
			wantErr:      domain.ErrSongNotFound,
			wantAnyErr:   true,
		},
		{
			name:         "only unrelated hits",
			title:        "Yesterday",
			artist:       "The Beatles",
			searchStatus: http.StatusOK,
			searchBody:   `{"meta":{"status":200},"response":{"hits":[{"type":"song","result":{"id":9,"title":"Toxic","url":"%s/toxic","primary_artist":{"name":"Britney Spears"}}}]}}`,
			wantErr:      domain.ErrSongNotFound,
			wantAnyErr:   true,
		},
		{
			name:         "api error is not a miss",
			title:        "Yesterday",
			artist:       "The Beatles",
			searchStatus: http.StatusUnauthorized,
			searchBody:   `{"meta":{"status":401,"message":"invalid token"}}%.0s`,
			wantAnyErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newServer(t, tt.searchBody, tt.searchStatus)
			defer ts.Close()

			song, err := newClient(ts).FindSong(context.Background(), tt.title, tt.artist)
			if (err != nil) != tt.wantAnyErr {
				t.Fatalf("expected error: %v, got: %v", tt.wantAnyErr, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !tt.wantAnyErr && errors.Is(err, domain.ErrSongNotFound) {
				t.Fatalf("unexpected not found")
			}
			if tt.wantAnyErr {
				if tt.wantErr == nil && errors.Is(err, domain.ErrSongNotFound) {
					t.Fatalf("transport failure reported as not found: %v", err)
				}
				return
			}
			if song.ID != tt.wantSong.ID || song.Title != tt.wantSong.Title || song.Artist != tt.wantSong.Artist {
				t.Fatalf("song: got %+v, want %+v", song, tt.wantSong)
			}
			if song.URL != ts.URL+"/The-beatles-yesterday-lyrics" {
				t.Fatalf("url: got %q", song.URL)
			}
		})
	}
}

func TestLyrics(t *testing.T) {
	ts := newServer(t, "%s", http.StatusOK)
	defer ts.Close()
	client := newClient(ts)

	got, err := client.Lyrics(context.Background(), domain.Song{ID: "2236", URL: ts.URL + "/The-beatles-yesterday-lyrics"})
	if err != nil {
		t.Fatalf("Lyrics: %v", err)
	}
	if got != wantLyrics {
		t.Fatalf("lyrics mismatch:\ngot:\n%s\nwant:\n%s", got, wantLyrics)
	}

	if _, err := client.Lyrics(context.Background(), domain.Song{ID: "1", URL: ts.URL + "/empty-lyrics"}); err == nil {
		t.Fatalf("expected error for page without lyrics")
	}
	if _, err := client.Lyrics(context.Background(), domain.Song{ID: "1", URL: ts.URL + "/missing"}); err == nil {
		t.Fatalf("expected error for 404 page")
	}
	if _, err := client.Lyrics(context.Background(), domain.Song{ID: "1"}); err == nil {
		t.Fatalf("expected error for song without url")
	}
}
