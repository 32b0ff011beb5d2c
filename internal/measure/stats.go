package measure

import "math"

// Stats is the running aggregate for one key. Values are scaled by ten.
type Stats struct {
	Min, Max int64
	Sum      int64
	Count    uint64
}

// NewStats returns an empty aggregate with Min and Max at their sentinels.
func NewStats() Stats {
	return Stats{Min: math.MaxInt64, Max: math.MinInt64}
}

func (s *Stats) Update(v int64) {
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
	s.Sum += v
	s.Count++
}

// Merge folds o into s. Merge is commutative and associative.
func (s *Stats) Merge(o Stats) {
	s.Min = min(s.Min, o.Min)
	s.Max = max(s.Max, o.Max)
	s.Sum += o.Sum
	s.Count += o.Count
}

// Mean returns the unscaled mean, or 0 for an empty aggregate.
func (s Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / 10.0 / float64(s.Count)
}
