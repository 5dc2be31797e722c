package domain

import (
	"errors"
	"fmt"
)

var ErrMalformedFeatures = errors.New("domain: malformed feature vector")

// ErrFeaturesUnavailable is returned when the provider withholds a track's audio features.
var ErrFeaturesUnavailable = errors.New("domain: audio features unavailable")

// Positions inside a FeatureVector.
const (
	IdxDanceability = iota
	IdxEnergy
	IdxSpeechiness
	IdxAcousticness
	IdxInstrumentalness
	IdxTempo
	IdxKey
	IdxMode
	IdxLoudness
	IdxValence
	IdxLiveness

	FeatureCount
)

var featureLabels = [FeatureCount]string{
	"Danceability",
	"Energy",
	"Speechiness",
	"Acousticness",
	"Instrumentalness",
	"Tempo",
	"Key",
	"Mode",
	"Loudness",
	"Valence",
	"Liveness",
}

// TrackFeatures is a track's feature vector. Synthesized is set when the
// provider withheld the real values and the vector was generated instead.
type TrackFeatures struct {
	Vector      FeatureVector
	Synthesized bool
}

// FeatureVector holds a track's audio descriptors in a fixed positional order.
// Only tempo, mode and loudness are read by the scoring path.
type FeatureVector []float64

// FeatureLabel names the descriptor stored at position i.
func FeatureLabel(i int) string {
	if i < 0 || i >= FeatureCount {
		return fmt.Sprintf("Feature %d", i)
	}
	return featureLabels[i]
}

// Validate reports ErrMalformedFeatures when the vector is too short to carry
// tempo, mode and loudness.
func (v FeatureVector) Validate() error {
	if len(v) <= IdxLoudness {
		return fmt.Errorf("%w: got %d values, need at least %d", ErrMalformedFeatures, len(v), IdxLoudness+1)
	}
	return nil
}

// Tempo, Mode and Loudness truncate toward zero, the same way an integer cast does.
func (v FeatureVector) Tempo() int    { return int(v[IdxTempo]) }
func (v FeatureVector) Mode() int     { return int(v[IdxMode]) }
func (v FeatureVector) Loudness() int { return int(v[IdxLoudness]) }
