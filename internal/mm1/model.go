// Package mm1 simulates a single-server queue with Poisson arrivals and
// exponential service, and exposes it as an optimisation objective.
package mm1

import (
	"context"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/teso/internal/engine"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/logger"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

const (
	eventArrival   engine.EventType = "arrival"
	eventDeparture engine.EventType = "departure"
)

// Model is one parameterisation of the queue
type Model struct {
	Lambda float64
	Mu     float64
	Warmup int
	People int
}

// NewModel builds a model from its factors and a service rate. The rate is
// raised to epsilon when smaller.
func NewModel(f config.MM1Model, mu float64) Model {
	return Model{
		Lambda: f.Lambda,
		Mu:     math.Max(mu, f.Epsilon),
		Warmup: f.Warmup,
		People: f.People,
	}
}

// Responses are the outputs of one replication
type Responses struct {
	AvgSojourn  float64
	AvgWaiting  float64
	Served      int
	Utilization float64
}

type customer struct {
	arrival float64
	start   float64
}

// Replicate runs warmup+people customers through the queue and averages
// over the customers after warmup.
func (m Model) Replicate(ctx context.Context, rng *utils.RandSource) (Responses, error) {
	if m.Lambda <= 0 || m.Mu <= 0 {
		return Responses{}, fmt.Errorf("rates must be positive: lambda=%g mu=%g", m.Lambda, m.Mu)
	}
	total := m.Warmup + m.People
	if m.People < 1 {
		return Responses{}, fmt.Errorf("people must be at least 1, got %d", m.People)
	}

	arrivals := rng.Split()
	services := rng.Split()

	var (
		waiting  []customer
		busy     bool
		arrived  int
		departed int
		busyTime float64
		sojourn  float64
		wait     float64
	)

	startService := func(e *engine.Engine) {
		waiting[0].start = e.Now()
		busy = true
		d := services.ExpFloat64(m.Mu)
		busyTime += d
		e.ScheduleAfter(eventDeparture, d, nil)
	}

	sim := engine.NewEngine()
	sim.SetLogger(logger.Discard())
	sim.RegisterHandler(eventArrival, func(e *engine.Engine, _ *engine.Event) error {
		arrived++
		waiting = append(waiting, customer{arrival: e.Now()})
		if !busy {
			startService(e)
		}
		if arrived < total {
			e.ScheduleAfter(eventArrival, arrivals.ExpFloat64(m.Lambda), nil)
		}
		return nil
	})
	sim.RegisterHandler(eventDeparture, func(e *engine.Engine, _ *engine.Event) error {
		c := waiting[0]
		waiting = waiting[1:]
		busy = false
		if departed >= m.Warmup {
			sojourn += e.Now() - c.arrival
			wait += c.start - c.arrival
		}
		departed++
		if departed == total {
			e.Stop()
			return nil
		}
		if len(waiting) > 0 {
			startService(e)
		}
		return nil
	})

	sim.ScheduleAfter(eventArrival, arrivals.ExpFloat64(m.Lambda), nil)
	if err := sim.Run(ctx); err != nil {
		return Responses{}, err
	}

	n := float64(m.People)
	res := Responses{
		AvgSojourn: sojourn / n,
		AvgWaiting: wait / n,
		Served:     departed,
	}
	if sim.Now() > 0 {
		res.Utilization = busyTime / sim.Now()
	}
	return res, nil
}

// Objective returns a trial function computing avg_sojourn + cost*mu^2 for
// the service rate held in variable.
func Objective(f config.MM1Model, variable string) trial.Func {
	return func(ctx context.Context, t *trial.Trial, rep trial.Replication) (float64, error) {
		mu, err := t.Float(variable)
		if err != nil {
			return 0, err
		}
		res, err := NewModel(f, mu).Replicate(ctx, rep.Rand())
		if err != nil {
			return 0, err
		}
		return res.AvgSojourn + f.Cost*mu*mu, nil
	}
}
