package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
)

// Analyzer runs the song sentiment pipeline: lyrics and title are scored by
// the lexicon and both models, then blended with the track's audio features.
type Analyzer struct {
	lyrics   ports.LyricsProvider
	features ports.FeatureProvider
	lexicon  ports.LexiconScorer
	modelA   ports.SentimentModel
	modelB   ports.SentimentModel
	scorer   ports.FinalScorer
	repo     ports.AnalysisRepository // optional
	out      io.Writer
	now      func() time.Time
}

// NewAnalyzer constructs an Analyzer. repo may be nil; out defaults to stdout.
func NewAnalyzer(
	lyrics ports.LyricsProvider,
	features ports.FeatureProvider,
	lexicon ports.LexiconScorer,
	modelA, modelB ports.SentimentModel,
	scorer ports.FinalScorer,
	repo ports.AnalysisRepository,
	out io.Writer,
) *Analyzer {
	if out == nil {
		out = os.Stdout
	}
	if scorer == nil {
		scorer = domain.NewBlendScorer()
	}
	return &Analyzer{
		lyrics:   lyrics,
		features: features,
		lexicon:  lexicon,
		modelA:   modelA,
		modelB:   modelB,
		scorer:   scorer,
		repo:     repo,
		out:      out,
		now:      time.Now,
	}
}

// Analyze scores one song. When the lyrics provider has no match the returned
// error wraps domain.ErrSongNotFound and nothing has been scored.
func (a *Analyzer) Analyze(ctx context.Context, title, artist string) (domain.Analysis, error) {
	for _, m := range []ports.SentimentModel{a.modelA, a.modelB} {
		if err := m.Load(ctx); err != nil {
			return domain.Analysis{}, fmt.Errorf("service: failed to load model %s: %w", m.Name(), err)
		}
	}

	fmt.Fprintf(a.out, "Analyzing %s by %s ...\n\n", title, artist)

	song, err := a.lyrics.FindSong(ctx, title, artist)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("service: failed to find song: %w", err)
	}

	text, err := a.lyricText(ctx, song)
	if err != nil {
		return domain.Analysis{}, err
	}
	fmt.Fprintf(a.out, "%s\n\n", text)

	track, err := a.features.TrackFeatures(ctx, title, artist)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("service: failed to fetch audio features: %w", err)
	}
	features := track.Vector
	if err := features.Validate(); err != nil {
		return domain.Analysis{}, fmt.Errorf("service: %w", err)
	}
	fmt.Fprintln(a.out, renderFeatures(features, isTerminal(a.out)))
	if track.Synthesized {
		fmt.Fprintln(a.out, synthesizedNote)
	}
	fmt.Fprintln(a.out)

	lyricScores, err := a.scoreTarget(ctx, text, domain.TargetLyrics)
	if err != nil {
		return domain.Analysis{}, err
	}
	titleScores, err := a.scoreTarget(ctx, title, domain.TargetTitle)
	if err != nil {
		return domain.Analysis{}, err
	}

	fmt.Fprintf(a.out, "Lyric Sentiment: %.6f\n", lyricScores.Mean)
	fmt.Fprintf(a.out, "Title Sentiment: %.6f\n", titleScores.Mean)

	tempo, mode, loudness := features.Tempo(), features.Mode(), features.Loudness()
	final := a.scorer.Score(mode, lyricScores.Mean, titleScores.Mean, loudness, tempo)
	fmt.Fprintf(a.out, "Final Sentiment: %.6f\n", final)

	analysis := domain.Analysis{
		ID:          uuid.NewString(),
		Title:       title,
		Artist:      artist,
		SongID:      song.ID,
		Features:    features,
		Synthesized: track.Synthesized,
		Tempo:       tempo,
		Mode:        mode,
		Loudness:    loudness,
		LyricScores: lyricScores,
		TitleScores: titleScores,
		Final:       final,
		CreatedAt:   a.now().UTC(),
	}

	if a.repo != nil {
		if err := a.repo.SaveAnalysis(ctx, analysis); err != nil {
			return analysis, fmt.Errorf("service: failed to save analysis: %w", err)
		}
	}

	return analysis, nil
}

func (a *Analyzer) lyricText(ctx context.Context, song domain.Song) (string, error) {
	if a.repo != nil {
		cached, err := a.repo.GetLyrics(ctx, song.ID)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, domain.ErrNotFound):
			log.Printf("WARN service: lyrics cache read failed for %s: %v", song.ID, err)
		}
	}

	text, err := a.lyrics.Lyrics(ctx, song)
	if err != nil {
		return "", fmt.Errorf("service: failed to fetch lyrics: %w", err)
	}

	if a.repo != nil {
		if err := a.repo.SaveLyrics(ctx, song, text); err != nil {
			log.Printf("WARN service: lyrics cache write failed for %s: %v", song.ID, err)
		}
	}
	return text, nil
}

func (a *Analyzer) scoreTarget(ctx context.Context, text string, target domain.Target) (domain.TargetScores, error) {
	opts := domain.OptionsFor(target)

	scoreA, err := a.modelA.Predict(ctx, text, opts)
	if err != nil {
		return domain.TargetScores{}, fmt.Errorf("service: %s prediction for %s failed: %w", a.modelA.Name(), target, err)
	}
	scoreB, err := a.modelB.Predict(ctx, text, opts)
	if err != nil {
		return domain.TargetScores{}, fmt.Errorf("service: %s prediction for %s failed: %w", a.modelB.Name(), target, err)
	}

	return domain.NewTargetScores(a.lexicon.Polarity(text), scoreA, scoreB), nil
}
