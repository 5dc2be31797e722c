package domain

import "github.com/samber/lo"

// Target is the text a sentiment score was computed for.
type Target string

const (
	TargetLyrics Target = "lyrics"
	TargetTitle  Target = "title"
)

// PredictOptions controls how text is prepared before model inference.
type PredictOptions struct {
	Pad        bool // right-pad the encoded sequence to the encoder's length
	Preprocess bool // strip section headers and stopwords first
}

// OptionsFor returns the inference options used for a target. Titles are too
// short to survive preprocessing, so they are encoded as-is.
func OptionsFor(t Target) PredictOptions {
	if t == TargetLyrics {
		return PredictOptions{Pad: true, Preprocess: true}
	}
	return PredictOptions{}
}

// NormalizeLexicon maps a lexicon score in [-1, 1] onto [0, 1].
func NormalizeLexicon(x float64) float64 {
	return (x + 1) / 2
}

// Aggregate is the arithmetic mean of the three per-source scores.
func Aggregate(lexicon, modelA, modelB float64) float64 {
	return lo.Sum([]float64{lexicon, modelA, modelB}) / 3
}

// TargetScores keeps the per-source scores for one target next to their mean.
type TargetScores struct {
	Lexicon float64 // already normalized to [0, 1]
	ModelA  float64
	ModelB  float64
	Mean    float64
}

// NewTargetScores builds TargetScores from a raw lexicon score and two model scores.
func NewTargetScores(rawLexicon, modelA, modelB float64) TargetScores {
	lex := NormalizeLexicon(rawLexicon)
	return TargetScores{
		Lexicon: lex,
		ModelA:  modelA,
		ModelB:  modelB,
		Mean:    Aggregate(lex, modelA, modelB),
	}
}
