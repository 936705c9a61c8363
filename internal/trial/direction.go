package trial

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/teso/pkg/config"
)

// Direction is the optimisation sense
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// ParseDirection maps a config direction name to a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case config.DirectionMinimize, "":
		return Minimize, nil
	case config.DirectionMaximize:
		return Maximize, nil
	default:
		return Minimize, config.Errorf("direction", "unknown direction %q", s)
	}
}

func (d Direction) String() string {
	switch d {
	case Minimize:
		return config.DirectionMinimize
	case Maximize:
		return config.DirectionMaximize
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Better reports whether a is strictly better than b
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a > b
	}
	return a < b
}

// Improvement returns how far a improves on b; negative when a is worse
func (d Direction) Improvement(a, b float64) float64 {
	if d == Maximize {
		return a - b
	}
	return b - a
}

// Compare orders two results: negative when a ranks ahead of b, positive
// when b ranks ahead, zero on a tie. Means decide first, then the lower
// variance; an undefined variance ranks as infinite.
func Compare(d Direction, a, b Result) int {
	switch {
	case d.Better(a.Mean, b.Mean):
		return -1
	case d.Better(b.Mean, a.Mean):
		return 1
	}
	va, vb := rankVariance(a.Variance), rankVariance(b.Variance)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	}
	return 0
}

func rankVariance(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}
