package study

import (
	"github.com/montanaflynn/stats"

	"github.com/GoSim-25-26J-441/teso/internal/memory"
)

// Summary describes the spread of the elite archive's means
type Summary struct {
	Count  int
	Min    float64
	Median float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes the spread of the elite means
func Summarize(elite []memory.Entry) (Summary, error) {
	if len(elite) == 0 {
		return Summary{}, ErrNoCompletedTrials
	}
	data := make(stats.Float64Data, len(elite))
	for i, e := range elite {
		data[i] = e.Result.Mean
	}

	s := Summary{Count: len(data)}
	var err error
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StandardDeviationSample(data); err != nil && s.Count > 1 {
		return Summary{}, err
	}
	return s, nil
}
