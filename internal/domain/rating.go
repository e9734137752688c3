package domain

// Rating bounds, inclusive.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// RatingSummary carries the sum and count of a movie's ratings.
type RatingSummary struct {
	Sum   float64
	Count int
}

// Summarize totals a rating sequence.
func Summarize(ratings []float64) RatingSummary {
	var s RatingSummary
	for _, r := range ratings {
		s.Sum += r
	}
	s.Count = len(ratings)
	return s
}

// Mean returns the arithmetic mean, or false when there are no ratings.
func (s RatingSummary) Mean() (float64, bool) {
	if s.Count == 0 {
		return 0, false
	}
	return s.Sum / float64(s.Count), true
}
