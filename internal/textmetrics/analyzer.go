// Package textmetrics computes deterministic speech metrics for practice transcripts:
// word and sentence counts, vocabulary richness, speaking pace and filler word usage.
package textmetrics

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/types"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceBreaker = regexp.MustCompile(`[.!?]+`)
)

// Analyze computes the metrics of a transcript spoken over durationSeconds.
// It never fails: if anything goes wrong internally, zeroed metrics are returned.
func Analyze(transcript string, durationSeconds int) (metrics types.TranscriptMetrics) {
	defer func() {
		if r := recover(); r != nil {
			metrics = ZeroMetrics()
		}
	}()

	lower := strings.ToLower(transcript)
	words := wordPattern.FindAllString(lower, -1)
	wordCount := len(words)

	wpm := 0.0
	if durationSeconds > 0 {
		wpm = float64(wordCount) / float64(durationSeconds) * 60
	}

	unique := countUnique(words)
	vocabularyRatio := 0.0
	if wordCount > 0 {
		vocabularyRatio = float64(unique) / float64(wordCount)
	}

	fillerTotal, breakdown := CountFillers(lower)

	return types.TranscriptMetrics{
		WordCount:           wordCount,
		SentenceCount:       CountSentences(transcript),
		UniqueWordCount:     unique,
		VocabularyRatio:     round2(vocabularyRatio),
		SpeakingPaceWPM:     round2(wpm),
		FillerWordCount:     fillerTotal,
		FillerWordBreakdown: breakdown,
		PaceScore:           PaceScore(wpm),
		ClarityScore:        ClarityScore(fillerTotal, wordCount),
	}
}

// ZeroMetrics returns the metrics reported for empty or unanalyzable transcripts
func ZeroMetrics() types.TranscriptMetrics {
	return types.TranscriptMetrics{FillerWordBreakdown: map[string]int{}}
}

// CountWords returns the number of alphanumeric tokens in text
func CountWords(text string) int {
	return len(wordPattern.FindAllString(strings.ToLower(text), -1))
}

// CountSentences splits on runs of sentence terminators and counts the non-blank fragments
func CountSentences(text string) int {
	count := 0
	for _, fragment := range sentenceBreaker.Split(text, -1) {
		if strings.TrimSpace(fragment) != "" {
			count++
		}
	}
	return count
}

// Tokens returns the lower-cased word tokens of text
func Tokens(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func countUnique(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
