package trial

import "math"

// Result is the aggregate of a trial's replications
type Result struct {
	Mean float64
	// Variance is the unbiased sample variance, NaN below two replications
	Variance     float64
	Replications int
}

// Std returns the sample standard deviation, NaN below two replications
func (r Result) Std() float64 {
	return math.Sqrt(r.Variance)
}

// Stats accumulates a running mean and sum of squared deviations (Welford)
type Stats struct {
	n    int
	mean float64
	m2   float64
}

// StatsOf rebuilds running statistics from an aggregate result
func StatsOf(r Result) Stats {
	s := Stats{n: r.Replications, mean: r.Mean}
	if r.Replications >= 2 && !math.IsNaN(r.Variance) {
		s.m2 = r.Variance * float64(r.Replications-1)
	}
	return s
}

// Add folds one observation into s
func (s *Stats) Add(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

// Merge folds o into s using Chan's pairwise update
func (s *Stats) Merge(o Stats) {
	if o.n == 0 {
		return
	}
	if s.n == 0 {
		*s = o
		return
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.mean += delta * float64(o.n) / float64(n)
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.n = n
}

// N returns the number of observations
func (s Stats) N() int { return s.n }

// Result returns the aggregate view of s
func (s Stats) Result() Result {
	r := Result{Mean: s.mean, Variance: math.NaN(), Replications: s.n}
	if s.n >= 2 {
		r.Variance = s.m2 / float64(s.n-1)
	}
	return r
}

// Pool combines two aggregates as if all their replications were observed together
func Pool(a, b Result) Result {
	s := StatsOf(a)
	s.Merge(StatsOf(b))
	return s.Result()
}
