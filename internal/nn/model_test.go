package nn

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/textenc"
)

const vocab = "'yesterday_'\n'troubles_'\n'far_'\n'away_'\n"

func TestModel_Predict(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		opts      domain.PredictOptions
		logits    bool
		output    float64
		wantIDs   []int
		wantScore float64
	}{
		{
			name:      "title is encoded raw",
			text:      "Yesterday",
			opts:      domain.OptionsFor(domain.TargetTitle),
			output:    0.7,
			wantScore: 0.7,
		},
		{
			name:      "lyrics are preprocessed and padded",
			text:      "[Verse 1]\nYesterday, all my troubles seemed so far away",
			opts:      domain.OptionsFor(domain.TargetLyrics),
			output:    0.5,
			wantScore: 0.5,
		},
		{
			name:      "logits pass through a sigmoid",
			text:      "yesterday",
			opts:      domain.PredictOptions{},
			logits:    true,
			output:    0,
			wantIDs:   []int{1},
			wantScore: 0.5,
		},
		{
			name:      "empty input still sends one instance",
			text:      "",
			opts:      domain.PredictOptions{},
			output:    0.4,
			wantIDs:   []int{textenc.PadID},
			wantScore: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{output: tt.output}
			m := NewModel("imdb", backend, stringLoader(vocab, 16), WithLogits(tt.logits))
			if err := m.Load(context.Background()); err != nil {
				t.Fatalf("load: %v", err)
			}

			got, err := m.Predict(context.Background(), tt.text, tt.opts)
			if err != nil {
				t.Fatalf("predict: %v", err)
			}
			if math.Abs(got-tt.wantScore) > 1e-12 {
				t.Fatalf("score: got %v, want %v", got, tt.wantScore)
			}
			if backend.model != "imdb" {
				t.Fatalf("model name: got %q", backend.model)
			}
			if tt.opts.Pad && len(backend.instance) != 16 {
				t.Fatalf("padded length: got %d, want 16", len(backend.instance))
			}
			if tt.opts.Preprocess && backend.instance[0] != 1 {
				t.Fatalf("preprocessed lyrics should start with 'yesterday', got ids %v", backend.instance)
			}
			if tt.wantIDs != nil && !reflect.DeepEqual(backend.instance, tt.wantIDs) {
				t.Fatalf("ids: got %v, want %v", backend.instance, tt.wantIDs)
			}
		})
	}
}

func TestModel_Load(t *testing.T) {
	t.Run("encoder failure", func(t *testing.T) {
		m := NewModel("yelp", &mockBackend{}, func() (Encoder, error) {
			return nil, errors.New("no vocabulary")
		})
		if err := m.Load(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("backend unavailable", func(t *testing.T) {
		m := NewModel("yelp", &mockBackend{statusErr: errors.New("down")}, stringLoader(vocab, 0))
		if err := m.Load(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("debug logs encoder shape", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		t.Cleanup(func() { log.SetOutput(os.Stderr) })

		m := NewModel("imdb", &mockBackend{}, stringLoader(vocab, 16), WithDebug(true))
		if err := m.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if want := "imdb: vocabulary of 261 ids, pad length 16"; !strings.Contains(buf.String(), want) {
			t.Fatalf("log = %q, want it to contain %q", buf.String(), want)
		}
	})

	t.Run("predict before load", func(t *testing.T) {
		m := NewModel("yelp", &mockBackend{}, stringLoader(vocab, 0))
		if _, err := m.Predict(context.Background(), "x", domain.PredictOptions{}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

// --- Mocks ---

type mockBackend struct {
	statusErr error
	output    float64

	model    string
	instance []int
}

func (m *mockBackend) Status(ctx context.Context, model string) error {
	return m.statusErr
}

func (m *mockBackend) Predict(ctx context.Context, model string, instance []int) (float64, error) {
	m.model = model
	m.instance = instance
	return m.output, nil
}

func stringLoader(v string, padLength int) EncoderLoader {
	return func() (Encoder, error) {
		return textenc.Load(strings.NewReader(v), padLength)
	}
}
