package ports

import (
	"context"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

// AnalysisRepository stores finished analyses and caches lyric text by song ID.
// GetLyrics returns domain.ErrNotFound on a cache miss.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, a domain.Analysis) error
	GetLyrics(ctx context.Context, songID string) (string, error)
	SaveLyrics(ctx context.Context, song domain.Song, lyrics string) error
}
