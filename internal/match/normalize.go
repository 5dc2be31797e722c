// Package match normalizes song titles and artist names and scores how well a
// search hit matches a requested title/artist pair.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noiseTokens are release qualifiers that say nothing about which song it is.
var noiseTokens = map[string]struct{}{
	"clean":      {},
	"deluxe":     {},
	"edition":    {},
	"edit":       {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"live":       {},
	"mix":        {},
	"mono":       {},
	"radio":      {},
	"remaster":   {},
	"remastered": {},
	"stereo":     {},
	"version":    {},
}

// NormalizeQuery prepares a title or artist for use in a search query: it
// lowercases, folds accents, drops bracketed segments and noise tokens.
func NormalizeQuery(input string) string {
	if input == "" {
		return ""
	}

	lower := strings.ToLower(foldAccents(input))
	filtered := stripBracketedSegments(lower)
	tokens := strings.Fields(cleanSeparators(filtered))

	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, drop := noiseTokens[token]; drop {
			continue
		}
		cleaned = append(cleaned, token)
	}

	return strings.Join(cleaned, " ")
}

// Normalize cleans a string for comparison. Unlike NormalizeQuery it only
// removes qualifiers in trailing "(...)", "[...]" or " - ..." suffixes, so
// "Live Forever" survives intact.
func Normalize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(foldAccents(input)))
	trimmed := stripCommonSuffixes(lowered)
	cleaned := cleanSeparators(trimmed)

	return strings.Join(strings.Fields(cleaned), " ")
}

// QueryOrRaw returns NormalizeQuery(input), or input itself when normalization
// leaves nothing behind.
func QueryOrRaw(input string) string {
	normalized := NormalizeQuery(input)
	if strings.TrimSpace(normalized) == "" {
		return input
	}
	return normalized
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(input string) string {
	out, _, err := transform.String(accentFolder, input)
	if err != nil {
		return input
	}
	return out
}

func stripBracketedSegments(input string) string {
	var out strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}

	return out.String()
}

func stripCommonSuffixes(input string) string {
	trimmed := strings.TrimSpace(input)
	for {
		next := trimBracketedSuffix(trimmed)
		next = trimDashSuffix(next)
		if next == trimmed {
			return trimmed
		}
		trimmed = strings.TrimSpace(next)
	}
}

func trimBracketedSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		if !strings.HasSuffix(trimmed, pair[1]) {
			continue
		}
		idx := strings.LastIndex(trimmed, pair[0])
		if idx == -1 || idx >= len(trimmed)-1 {
			continue
		}
		if suffixHasToken(trimmed[idx+1 : len(trimmed)-1]) {
			return strings.TrimSpace(trimmed[:idx])
		}
	}

	return input
}

func trimDashSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	idx := strings.LastIndex(trimmed, " - ")
	if idx == -1 {
		return input
	}

	if suffixHasToken(strings.TrimSpace(trimmed[idx+3:])) {
		return strings.TrimSpace(trimmed[:idx])
	}

	return input
}

func suffixHasToken(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}

	for _, token := range strings.Fields(cleanSeparators(strings.ToLower(input))) {
		if _, ok := noiseTokens[token]; ok {
			return true
		}
	}

	return false
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}

	return out.String()
}
