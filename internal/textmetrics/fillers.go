package textmetrics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FillerWords is the fixed vocabulary of verbal tics that reduce perceived clarity.
var FillerWords = []string{
	"um", "uh", "like", "you know", "basically", "actually",
	"literally", "so", "well", "right", "okay", "yeah",
	"kind of", "sort of", "i mean", "you see",
}

var fillerPatterns = compileFillers(FillerWords)

type fillerPattern struct {
	word string
	re   *regexp.Regexp
}

func compileFillers(words []string) []fillerPattern {
	patterns := make([]fillerPattern, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, fillerPattern{
			word: w,
			re:   regexp.MustCompile(regexp.QuoteMeta(w)),
		})
	}
	return patterns
}

// CountFillers counts whole-word, non-overlapping filler matches in text.
// The breakdown only contains fillers that occur at least once, and the total
// always equals the sum of the breakdown.
func CountFillers(text string) (int, map[string]int) {
	lower := strings.ToLower(text)
	breakdown := make(map[string]int)
	total := 0
	for _, p := range fillerPatterns {
		n := p.count(lower)
		if n > 0 {
			breakdown[p.word] = n
			total += n
		}
	}
	return total, breakdown
}

// count finds non-overlapping matches bounded by non-word runes on both sides.
// RE2's \b only knows ASCII word characters, so the boundary is checked here
// against the same character class the tokenizer uses.
func (p fillerPattern) count(text string) int {
	n := 0
	for pos := 0; pos < len(text); {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if wordBoundary(text, start) && wordBoundary(text, end) {
			n++
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return n
}

// wordBoundary reports whether a word starts or ends at byte offset i
func wordBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
