package ports

import (
	"context"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

// LyricsProvider finds songs and reads their lyrics.
// FindSong returns domain.ErrSongNotFound when nothing matches.
type LyricsProvider interface {
	FindSong(ctx context.Context, title, artist string) (domain.Song, error)
	Lyrics(ctx context.Context, song domain.Song) (string, error)
}
