package textmetrics

import "math"

// Ideal pace band in words per minute
const (
	IdealPaceMin = 140.0
	IdealPaceMax = 160.0
)

// PaceScore maps speaking pace to a 0-100 score. 140-160 WPM is ideal;
// the score decays by 2 points per WPM outside 120-180, never below 40.
// A pace of zero means nothing was measured and scores 0.
func PaceScore(wpm float64) float64 {
	switch {
	case wpm == 0:
		return 0
	case wpm >= IdealPaceMin && wpm <= IdealPaceMax:
		return 100
	case (wpm >= 130 && wpm < 140) || (wpm > 160 && wpm <= 170):
		return 90
	case (wpm >= 120 && wpm < 130) || (wpm > 170 && wpm <= 180):
		return 75
	case wpm < 120:
		return math.Max(40, 75-(120-wpm)*2)
	default:
		return math.Max(40, 75-(wpm-180)*2)
	}
}

// ClarityScore maps filler usage to a 0-100 score based on the share of filler words.
func ClarityScore(fillerCount, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return ClarityFromPercentage(float64(fillerCount) / float64(wordCount) * 100)
}

// ClarityFromPercentage scores a filler percentage: under 1% is excellent,
// 5% and above loses 5 points per extra percent, never below 40.
func ClarityFromPercentage(pct float64) float64 {
	switch {
	case pct < 1:
		return 100
	case pct < 2:
		return 90
	case pct < 3:
		return 80
	case pct < 5:
		return 70
	default:
		return math.Max(40, 70-(pct-5)*5)
	}
}
