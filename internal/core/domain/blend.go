package domain

// BlendWeights are the coefficients of BlendScorer. They are expected to sum to 1.
type BlendWeights struct {
	Lyric    float64
	Title    float64
	Mode     float64
	Loudness float64
	Tempo    float64
}

// DefaultBlendWeights favours lyrics over everything else.
var DefaultBlendWeights = BlendWeights{
	Lyric:    0.45,
	Title:    0.15,
	Mode:     0.20,
	Loudness: 0.10,
	Tempo:    0.10,
}

const (
	minLoudnessDB = -60
	minTempoBPM   = 40
	maxTempoBPM   = 200
)

// BlendScorer is the default final scoring function: a fixed linear blend of
// the two text aggregates and the three audio descriptors, each audio term
// rescaled to [0, 1].
type BlendScorer struct {
	Weights BlendWeights
}

// NewBlendScorer returns a BlendScorer using DefaultBlendWeights.
func NewBlendScorer() *BlendScorer {
	return &BlendScorer{Weights: DefaultBlendWeights}
}

// Score combines the inputs. Mode 1 is major, anything lower is minor.
func (b *BlendScorer) Score(mode int, lyric, title float64, loudness, tempo int) float64 {
	w := b.Weights
	major := 0.0
	if mode >= 1 {
		major = 1
	}
	loud := clamp01(float64(loudness-minLoudnessDB) / -minLoudnessDB)
	pace := clamp01(float64(tempo-minTempoBPM) / (maxTempoBPM - minTempoBPM))

	return w.Lyric*lyric + w.Title*title + w.Mode*major + w.Loudness*loud + w.Tempo*pace
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
