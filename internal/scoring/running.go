package scoring

// RunningAverage folds newScore into an average that already covers prevCount samples.
func RunningAverage(prevAvg float64, prevCount int, newScore float64) float64 {
	if prevCount <= 0 {
		return newScore
	}
	return (prevAvg*float64(prevCount) + newScore) / float64(prevCount+1)
}

// Stats is a running aggregate of practice scores
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
}

// Add returns the stats updated with a new score
func (s Stats) Add(score float64) Stats {
	best := s.Best
	if s.Count == 0 || score > best {
		best = score
	}
	return Stats{
		Count:   s.Count + 1,
		Average: RunningAverage(s.Average, s.Count, score),
		Best:    best,
	}
}
