package textenc

import (
	"regexp"
	"strings"

	"github.com/bbalet/stopwords"
)

var sectionHeader = regexp.MustCompile(`\[[^\]]*\]`)

// Preprocess prepares long-form text for a model: section headers such as
// "[Chorus]" are removed and English stopwords are dropped. The stopword
// filter lowercases and NFC-normalizes what it keeps.
func Preprocess(text string) string {
	text = sectionHeader.ReplaceAllString(text, " ")
	text = stopwords.CleanString(text, "en", false)
	return strings.Join(strings.Fields(text), " ")
}
