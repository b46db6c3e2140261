package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Chinese sentence-final punctuation. These always terminate a sentence and
// stay attached to it.
var cjkTerminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'…': true,
}

// Closing marks that trail a terminator and belong to the same sentence.
var trailingCloses = map[rune]bool{
	'”': true,
	'’': true,
	'」': true,
	'』': true,
	'）': true,
	'"': true,
	')': true,
}

// Segmenter splits raw text into an ordered list of sentences.
type Segmenter struct{}

// NewSegmenter creates a new segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits text on sentence-final punctuation, keeping the terminator
// attached to the preceding sentence. Candidates are whitespace-trimmed and
// empty ones dropped. Duplicate sentences are preserved: position in the
// returned slice is the sole addressing mechanism for result reassembly.
//
// Returns model.ErrInvalidInput for empty, whitespace-only, or non-UTF-8
// input.
func (s *Segmenter) Segment(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" || !utf8.ValidString(text) {
		return nil, model.ErrInvalidInput
	}

	runes := []rune(text)
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if !isTerminator(runes, i) {
			continue
		}

		// Absorb runs of terminators (……, ？！) and closing quotes so
		// they stay with the sentence they end.
		for i+1 < len(runes) && (cjkTerminators[runes[i+1]] || trailingCloses[runes[i+1]]) {
			i++
			current.WriteRune(runes[i])
		}
		flush()
	}

	// Trailing text without a terminator is still a sentence.
	flush()

	return sentences, nil
}

// isTerminator reports whether the rune at position i ends a sentence.
// ASCII terminators only count when followed by whitespace or end of text,
// so decimals and abbreviations in mixed-script input survive.
func isTerminator(runes []rune, i int) bool {
	r := runes[i]
	if cjkTerminators[r] {
		return true
	}
	if r == '.' || r == '!' || r == '?' {
		if i+1 >= len(runes) {
			return true
		}
		next := runes[i+1]
		return next == ' ' || next == '\t' || next == '\n' || next == '\r'
	}
	return false
}
