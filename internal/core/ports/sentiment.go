package ports

import (
	"context"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

// LexiconScorer scores text against a polarity dictionary. Scores are in [-1, 1].
type LexiconScorer interface {
	Polarity(text string) float64
}

// SentimentModel is a pretrained classifier paired with its encoder.
// Load must succeed before Predict is called. Predict returns a score in [0, 1].
type SentimentModel interface {
	Name() string
	Load(ctx context.Context) error
	Predict(ctx context.Context, text string, opts domain.PredictOptions) (float64, error)
}

// FinalScorer blends the text aggregates with the audio descriptors.
type FinalScorer interface {
	Score(mode int, lyric, title float64, loudness, tempo int) float64
}
