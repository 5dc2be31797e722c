// Package vader adapts the VADER lexicon analyzer to the lexicon scorer port.
package vader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
)

// Analyzer scores text with the VADER compound score.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

var _ ports.LexiconScorer = (*Analyzer)(nil)

// New returns an analyzer backed by the lexicons compiled into govader. A
// non-empty path replaces the corresponding word or emoji lexicon.
func New(lexiconPath, emojiLexiconPath string) (*Analyzer, error) {
	a := &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}

	if lexiconPath != "" {
		lexicon := make(map[string]float64)
		err := readTSV(lexiconPath, func(fields []string) error {
			measure, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return err
			}
			lexicon[fields[0]] = measure
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("vader: load lexicon: %w", err)
		}
		a.sia.Lexicon = lexicon
	}

	if emojiLexiconPath != "" {
		emoji := make(map[string]string)
		err := readTSV(emojiLexiconPath, func(fields []string) error {
			emoji[fields[0]] = fields[1]
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("vader: load emoji lexicon: %w", err)
		}
		a.sia.EmojiDict = emoji
	}

	return a, nil
}

// Polarity returns the compound score in [-1, 1].
func (a *Analyzer) Polarity(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}

func readTSV(path string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return fmt.Errorf("%s:%d: expected tab separated fields", path, line)
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	return scanner.Err()
}
