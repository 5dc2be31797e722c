package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

// ErrNoConfidentMatch indicates search results did not meet the confidence threshold.
var ErrNoConfidentMatch = errors.New("no confident match")

// NoConfidentMatchError provides context for a failed track match.
type NoConfidentMatchError struct {
	Title  string
	Artist string
}

func (e NoConfidentMatchError) Error() string {
	if e.Title == "" && e.Artist == "" {
		return ErrNoConfidentMatch.Error()
	}
	return fmt.Sprintf("no confident match found for title %q artist %q", e.Title, e.Artist)
}

func (e NoConfidentMatchError) Is(target error) bool {
	return target == ErrNoConfidentMatch
}

// FeatureProvider returns the audio features of a track. It returns
// domain.ErrFeaturesUnavailable when the provider withholds them.
type FeatureProvider interface {
	TrackFeatures(ctx context.Context, title, artist string) (domain.TrackFeatures, error)
}
