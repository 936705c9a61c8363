package study

import (
	"math"

	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// NoiseSchedule maps a trial index to a perturbation magnitude.
// Schedules are non-increasing and return the final noise exactly once
// the trial budget is reached.
type NoiseSchedule interface {
	At(t int) float64
	Name() string
}

// NewNoiseSchedule returns the schedule for a decay law
func NewNoiseSchedule(decay string, initial, final float64, nTrials int) (NoiseSchedule, error) {
	switch decay {
	case config.DecayLinear, "":
		return LinearSchedule{Initial: initial, Final: final, NTrials: nTrials}, nil
	case config.DecayExponential:
		if final <= 0 {
			return nil, config.Errorf("final_noise", "exponential decay requires final_noise > 0, got %g", final)
		}
		return ExponentialSchedule{Initial: initial, Final: final, NTrials: nTrials}, nil
	default:
		return nil, config.Errorf("noise_decay", "unknown decay %q", decay)
	}
}

// progress returns the fraction of the schedule elapsed at trial t
func progress(t, nTrials int) float64 {
	if nTrials <= 1 || t >= nTrials-1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return float64(t) / float64(nTrials-1)
}

// LinearSchedule interpolates linearly from Initial to Final
type LinearSchedule struct {
	Initial float64
	Final   float64
	NTrials int
}

func (s LinearSchedule) Name() string { return config.DecayLinear }

func (s LinearSchedule) At(t int) float64 {
	return utils.Lerp(s.Initial, s.Final, progress(t, s.NTrials))
}

// ExponentialSchedule interpolates geometrically from Initial to Final
type ExponentialSchedule struct {
	Initial float64
	Final   float64
	NTrials int
}

func (s ExponentialSchedule) Name() string { return config.DecayExponential }

func (s ExponentialSchedule) At(t int) float64 {
	f := progress(t, s.NTrials)
	if f >= 1 {
		return s.Final
	}
	return s.Initial * math.Pow(s.Final/s.Initial, f)
}
