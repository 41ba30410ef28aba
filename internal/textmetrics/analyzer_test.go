package textmetrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Basic(t *testing.T) {
	transcript := "Um, so our product saves time. It is fast! Really fast?"
	m := Analyze(transcript, 60)

	assert.Equal(t, 11, m.WordCount)
	assert.Equal(t, 3, m.SentenceCount)
	assert.Equal(t, 10, m.UniqueWordCount)
	assert.InDelta(t, 0.91, m.VocabularyRatio, 0.0001)
	assert.InDelta(t, 11.0, m.SpeakingPaceWPM, 0.0001)
	assert.Equal(t, 2, m.FillerWordCount)
	assert.Equal(t, map[string]int{"um": 1, "so": 1}, m.FillerWordBreakdown)
	assert.Equal(t, 40.0, m.PaceScore)
}

func TestAnalyze_EmptyTranscript(t *testing.T) {
	m := Analyze("", 30)

	assert.Equal(t, 0, m.WordCount)
	assert.Equal(t, 0, m.SentenceCount)
	assert.Equal(t, 0, m.UniqueWordCount)
	assert.Equal(t, 0.0, m.VocabularyRatio)
	assert.Equal(t, 0.0, m.SpeakingPaceWPM)
	assert.Equal(t, 0, m.FillerWordCount)
	assert.Empty(t, m.FillerWordBreakdown)
	assert.Equal(t, 0.0, m.PaceScore)
	assert.Equal(t, 0.0, m.ClarityScore)
}

func TestAnalyze_ZeroDuration(t *testing.T) {
	m := Analyze("We build rockets for everyone.", 0)

	assert.Equal(t, 5, m.WordCount)
	assert.Equal(t, 0.0, m.SpeakingPaceWPM)
	assert.Equal(t, 0.0, m.PaceScore)
	assert.Equal(t, 100.0, m.ClarityScore)
}

func TestAnalyze_IdealPace(t *testing.T) {
	transcript := strings.Repeat("growth ", 150)
	m := Analyze(transcript, 60)

	assert.Equal(t, 150, m.WordCount)
	assert.Equal(t, 1, m.UniqueWordCount)
	assert.InDelta(t, 0.01, m.VocabularyRatio, 0.0001)
	assert.Equal(t, 150.0, m.SpeakingPaceWPM)
	assert.Equal(t, 100.0, m.PaceScore)
	assert.Equal(t, 1, m.SentenceCount)
}

func TestAnalyze_RoundsToTwoDecimals(t *testing.T) {
	m := Analyze("one two three", 7)

	// 3 words over 7s is 25.714... wpm
	assert.Equal(t, 25.71, m.SpeakingPaceWPM)
	assert.Equal(t, 1.0, m.VocabularyRatio)
}

func TestAnalyze_FillerTotalMatchesBreakdown(t *testing.T) {
	transcript := "You know, I mean, it's kind of like a sort of okay idea. Yeah, right, well, basically."
	m := Analyze(transcript, 30)

	sum := 0
	for _, n := range m.FillerWordBreakdown {
		sum += n
	}
	assert.Equal(t, m.FillerWordCount, sum)
	assert.Equal(t, 1, m.FillerWordBreakdown["you know"])
	assert.Equal(t, 1, m.FillerWordBreakdown["kind of"])
	assert.NotContains(t, m.FillerWordBreakdown, "um")
}

func TestCountFillers_WholeWordOnly(t *testing.T) {
	total, breakdown := CountFillers("Summary: the umbrella is unlikely to be sold well")

	require.Equal(t, 1, total)
	assert.Equal(t, map[string]int{"well": 1}, breakdown)
}

func TestCountFillers_UnicodeNeighbours(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected map[string]int
	}{
		{name: "accented letters on either side", text: "éum naïveso wellé", expected: map[string]int{}},
		{name: "digit and underscore neighbours", text: "um2 _so like_", expected: map[string]int{}},
		{name: "punctuation neighbours", text: "«um» ¿so? like…", expected: map[string]int{"um": 1, "so": 1, "like": 1}},
		{name: "match after a rejected candidate", text: "éum um", expected: map[string]int{"um": 1}},
		{name: "multi-word filler", text: "you knowé, you know", expected: map[string]int{"you know": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, breakdown := CountFillers(tt.text)

			sum := 0
			for _, n := range tt.expected {
				sum += n
			}
			assert.Equal(t, sum, total)
			assert.Equal(t, tt.expected, breakdown)
		})
	}
}

func TestAnalyze_FillerAgreesWithTokenizer(t *testing.T) {
	metrics := Analyze("éum naïveso", 0)

	assert.Equal(t, 2, metrics.WordCount)
	assert.Equal(t, 0, metrics.FillerWordCount)
}

func TestCountFillers_CaseInsensitive(t *testing.T) {
	total, breakdown := CountFillers("UM. Um. um")

	assert.Equal(t, 3, total)
	assert.Equal(t, 3, breakdown["um"])
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "no terminator", input: "hello there", expected: 1},
		{name: "terminator runs", input: "Wow!!! Really?! Yes...", expected: 3},
		{name: "only punctuation", input: "...!?", expected: 0},
		{name: "whitespace fragments", input: "One.   . Two.", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSentences(tt.input))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 5, CountWords("It's a $5M round"))
	assert.Equal(t, []string{"it", "s", "a", "5m", "round"}, Tokens("It's a $5M round"))
}
