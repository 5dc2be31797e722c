package match

import "strings"

const (
	minTitleSimilarity   = 0.65
	minArtistSimilarity  = 0.55
	minOverallSimilarity = 0.70
)

// ScoreResult returns a similarity score in [0, 1] between two artist+title pairs.
func ScoreResult(targetArtist, targetTitle, actualArtist, actualTitle string) float64 {
	target := Normalize(strings.TrimSpace(targetArtist + " " + targetTitle))
	actual := Normalize(strings.TrimSpace(actualArtist + " " + actualTitle))
	if target == "" || actual == "" {
		return 0
	}

	return Similarity(target, actual)
}

// TrackScore weighs title similarity over artist similarity and reports
// whether the candidate clears every per-field threshold.
func TrackScore(requestTitle, requestArtist, candidateTitle, candidateArtist string) (float64, bool) {
	normalizedTitle := NormalizeQuery(requestTitle)
	normalizedArtist := NormalizeQuery(requestArtist)
	title := NormalizeQuery(candidateTitle)
	artist := NormalizeQuery(candidateArtist)

	if normalizedTitle == "" || normalizedArtist == "" || title == "" || artist == "" {
		return 0, false
	}

	titleSim := Similarity(normalizedTitle, title)
	artistSim := Similarity(normalizedArtist, artist)
	score := 0.7*titleSim + 0.3*artistSim

	if titleSim < minTitleSimilarity || artistSim < minArtistSimilarity || score < minOverallSimilarity {
		return score, false
	}

	return score, true
}

// Similarity is one minus the normalized Levenshtein distance.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Levenshtein counts rune insertions, deletions and substitutions.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+cost,
			)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
