package domain

import "time"

// Analysis is the full result of scoring one song.
type Analysis struct {
	ID          string
	Title       string
	Artist      string
	SongID      string
	Features    FeatureVector
	Synthesized bool // Features were generated, not measured
	Tempo       int
	Mode        int
	Loudness    int
	LyricScores TargetScores
	TitleScores TargetScores
	Final       float64
	CreatedAt   time.Time
}
