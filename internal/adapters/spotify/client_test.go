package spotify

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
)

const yesterdaySearch = `{
  "tracks": {
    "href": "", "limit": 5, "offset": 0, "total": 2,
    "items": [
      {"id": "cover1", "name": "Yesterday Once More", "artists": [{"id": "a2", "name": "Carpenters"}], "preview_url": ""},
      {"id": "3BQHpFgAp4l80e1XslIjNI", "name": "Yesterday - Remastered 2009", "artists": [{"id": "a1", "name": "The Beatles"}], "preview_url": "%s/preview.mp3"}
    ]
  }
}`

const yesterdayFeatures = `{
  "id": "3BQHpFgAp4l80e1XslIjNI",
  "danceability": 0.332, "energy": 0.179, "speechiness": 0.0326, "acousticness": 0.879,
  "instrumentalness": 0, "tempo": 96.529, "key": 5, "mode": 1, "loudness": -11.83,
  "valence": 0.315, "liveness": 0.0886, "duration_ms": 125667, "time_signature": 4
}`

func newTestServer(t *testing.T, searchBody string, featuresStatus int, featuresBody string) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "track" {
			t.Errorf("search type = %q, want track", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, searchBody, ts.URL)
	})
	mux.HandleFunc("/audio-features/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(featuresStatus)
		_, _ = w.Write([]byte(featuresBody))
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(ts *httptest.Server) *Client {
	c := NewClient(ts.Client(), ts.URL)
	c.SetRetry(1, time.Millisecond)
	return c
}

func TestTrackFeatures(t *testing.T) {
	ts := newTestServer(t, yesterdaySearch, http.StatusOK, yesterdayFeatures)
	c := newTestClient(ts)

	features, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("TrackFeatures returned error: %v", err)
	}
	if features.Synthesized {
		t.Error("measured features marked as synthesized")
	}
	got := features.Vector
	if len(got) != domain.FeatureCount {
		t.Fatalf("len = %d, want %d", len(got), domain.FeatureCount)
	}
	if got.Tempo() != 96 || got.Mode() != 1 || got.Loudness() != -11 {
		t.Errorf("tempo/mode/loudness = %d/%d/%d, want 96/1/-11", got.Tempo(), got.Mode(), got.Loudness())
	}
	if math.Abs(got[domain.IdxAcousticness]-0.879) > 1e-6 {
		t.Errorf("acousticness = %v, want 0.879", got[domain.IdxAcousticness])
	}
}

func TestTrackFeaturesNoConfidentMatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no tracks", body: `{"tracks": {"items": []}}%.0s`},
		{name: "missing tracks page", body: `{}%.0s`},
		{name: "unrelated", body: `{"tracks": {"items": [{"id": "x", "name": "Toxic", "artists": [{"name": "Britney Spears"}]}]}}%.0s`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.body, http.StatusOK, yesterdayFeatures)
			c := newTestClient(ts)

			_, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
			if !errors.Is(err, ports.ErrNoConfidentMatch) {
				t.Fatalf("error = %v, want ErrNoConfidentMatch", err)
			}
		})
	}
}

func TestTrackFeaturesWithheld(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "forbidden", status: http.StatusForbidden, body: `{"error": {"status": 403}}`},
		{name: "not found", status: http.StatusNotFound, body: `{}`},
		{name: "zero payload", status: http.StatusOK, body: `{"id": "3BQHpFgAp4l80e1XslIjNI"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, yesterdaySearch, tt.status, tt.body)
			c := newTestClient(ts)
			c.measureLoudness = func(context.Context, string) (float64, error) {
				t.Error("preview must not be measured without synthesis enabled")
				return 0, nil
			}

			got, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
			if !errors.Is(err, domain.ErrFeaturesUnavailable) {
				t.Fatalf("error = %v, want ErrFeaturesUnavailable", err)
			}
			if got.Vector != nil || got.Synthesized {
				t.Errorf("features = %+v, want zero value", got)
			}
		})
	}
}

func TestTrackFeaturesSynthesized(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "forbidden", status: http.StatusForbidden, body: `{"error": {"status": 403}}`},
		{name: "not found", status: http.StatusNotFound, body: `{}`},
		{name: "zero payload", status: http.StatusOK, body: `{"id": "3BQHpFgAp4l80e1XslIjNI"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, yesterdaySearch, tt.status, tt.body)
			c := newTestClient(ts)
			c.SetSynthesize(true)

			var previewURL string
			c.measureLoudness = func(_ context.Context, u string) (float64, error) {
				previewURL = u
				return -7.5, nil
			}

			features, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
			if err != nil {
				t.Fatalf("TrackFeatures returned error: %v", err)
			}
			if !features.Synthesized {
				t.Error("generated features not marked as synthesized")
			}
			got := features.Vector
			if previewURL != ts.URL+"/preview.mp3" {
				t.Errorf("preview url = %q", previewURL)
			}
			if got.Loudness() != -7 {
				t.Errorf("loudness = %d, want -7", got.Loudness())
			}
			if err := got.Validate(); err != nil {
				t.Errorf("fallback vector invalid: %v", err)
			}
			want := deterministicFeatures("3BQHpFgAp4l80e1XslIjNI")
			if got[domain.IdxTempo] != want[domain.IdxTempo] {
				t.Errorf("tempo = %v, want deterministic %v", got[domain.IdxTempo], want[domain.IdxTempo])
			}
		})
	}
}

func TestTrackFeaturesPreviewFailureKeepsGenerated(t *testing.T) {
	ts := newTestServer(t, yesterdaySearch, http.StatusForbidden, `{}`)
	c := newTestClient(ts)
	c.SetSynthesize(true)
	c.measureLoudness = func(context.Context, string) (float64, error) {
		return 0, errors.New("decode failed")
	}

	features, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("TrackFeatures returned error: %v", err)
	}
	got := features.Vector
	want := deterministicFeatures("3BQHpFgAp4l80e1XslIjNI")
	if got[domain.IdxLoudness] != want[domain.IdxLoudness] {
		t.Errorf("loudness = %v, want %v", got[domain.IdxLoudness], want[domain.IdxLoudness])
	}
}

func TestTrackFeaturesServerError(t *testing.T) {
	ts := newTestServer(t, yesterdaySearch, http.StatusBadRequest, `{}`)
	c := newTestClient(ts)

	_, err := c.TrackFeatures(context.Background(), "Yesterday", "The Beatles")
	if err == nil {
		t.Fatal("expected error for 400 audio-features response")
	}
	if errors.Is(err, ports.ErrNoConfidentMatch) || errors.Is(err, domain.ErrFeaturesUnavailable) {
		t.Errorf("400 must be a plain request error: %v", err)
	}
}

func TestDeterministicFeatures(t *testing.T) {
	a := deterministicFeatures("track-a")
	b := deterministicFeatures("track-a")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs: %v vs %v", i, a[i], b[i])
		}
	}
	if a.Tempo() < 60 || a.Tempo() > 180 {
		t.Errorf("tempo %d out of range", a.Tempo())
	}
	if m := a.Mode(); m != 0 && m != 1 {
		t.Errorf("mode = %d", m)
	}
}

func TestPCMLoudness(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		want    float64
		wantErr bool
	}{
		{name: "full scale square", samples: []int16{32767, -32768, 32767, -32768}, want: 0},
		{name: "half scale", samples: []int16{16384, -16384}, want: 20 * math.Log10(0.5)},
		{name: "silence", samples: []int16{0, 0, 0}, want: silenceFloor},
		{name: "empty", samples: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			for _, s := range tt.samples {
				_ = binary.Write(&buf, binary.LittleEndian, s)
			}
			got, err := pcmLoudness(&buf)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("pcmLoudness returned error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("loudness = %v, want %v", got, tt.want)
			}
		})
	}
}
