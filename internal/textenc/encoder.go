// Package textenc turns text into the integer sequences the sentiment models
// were trained on.
//
// Vocabulary files list one subword per line, optionally wrapped in single
// quotes. Lines starting with '#' are comments. A trailing '_' marks a subword
// that ends a word. Id 0 is reserved for padding, subwords take ids 1..n in
// file order and any byte not covered by a subword is encoded as n+1+byte.
package textenc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	PadID            = 0
	DefaultPadLength = 64

	endOfWord = "_"
)

var ErrEmptyVocabulary = errors.New("textenc: empty vocabulary")

// Encoder is a greedy longest-match subword encoder.
type Encoder struct {
	ids       map[string]int
	subwords  []string
	maxLen    int // longest subword in bytes
	padLength int
}

// LoadFile reads a vocabulary from path.
func LoadFile(path string, padLength int) (*Encoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textenc: open vocabulary: %w", err)
	}
	defer f.Close()

	enc, err := Load(f, padLength)
	if err != nil {
		return nil, fmt.Errorf("textenc: %s: %w", path, err)
	}
	return enc, nil
}

// Load reads a vocabulary from r. padLength <= 0 selects DefaultPadLength.
func Load(r io.Reader, padLength int) (*Encoder, error) {
	if padLength <= 0 {
		padLength = DefaultPadLength
	}

	enc := &Encoder{
		ids:       make(map[string]int),
		padLength: padLength,
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subword := unquote(line)
		if subword == "" {
			continue
		}
		if _, dup := enc.ids[subword]; dup {
			continue
		}
		enc.subwords = append(enc.subwords, subword)
		enc.ids[subword] = len(enc.subwords)
		enc.maxLen = max(enc.maxLen, len(subword))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	if len(enc.subwords) == 0 {
		return nil, ErrEmptyVocabulary
	}

	return enc, nil
}

// VocabSize is the number of distinct ids the encoder can emit, padding included.
func (e *Encoder) VocabSize() int {
	return len(e.subwords) + 1 + 256
}

// PadLength is the length Pad extends sequences to.
func (e *Encoder) PadLength() int {
	return e.padLength
}

// Encode maps text to subword ids. Words are runs of letters and digits; every
// other rune is encoded on its own.
func (e *Encoder) Encode(text string) []int {
	var ids []int
	for _, token := range tokenize(text) {
		ids = append(ids, e.encodeToken(token)...)
	}
	return ids
}

// Pad right-pads ids with PadID up to the encoder's pad length. Longer
// sequences are returned unchanged.
func (e *Encoder) Pad(ids []int) []int {
	if len(ids) >= e.padLength {
		return ids
	}
	out := make([]int, e.padLength)
	copy(out, ids)
	return out
}

func (e *Encoder) encodeToken(token string) []int {
	if isWord(token) {
		token += endOfWord
	}

	var ids []int
	for len(token) > 0 {
		n := min(len(token), e.maxLen)
		matched := false
		for ; n > 0; n-- {
			if !utf8.ValidString(token[:n]) {
				continue
			}
			if id, ok := e.ids[token[:n]]; ok {
				ids = append(ids, id)
				token = token[n:]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		// fall back to the bytes of the next rune
		_, size := utf8.DecodeRuneInString(token)
		for i := 0; i < size; i++ {
			ids = append(ids, len(e.subwords)+1+int(token[i]))
		}
		token = token[size:]
	}
	return ids
}

func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
			continue
		}
		flush()
		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

func isWord(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func unquote(line string) string {
	if len(line) >= 2 && line[0] == '\'' && line[len(line)-1] == '\'' {
		return line[1 : len(line)-1]
	}
	return strings.TrimSpace(line)
}
