package trial

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Replication identifies one independent evaluation of a trial
type Replication struct {
	Index int
	Seed  uint64
}

// Rand returns a random source seeded for this replication
func (r Replication) Rand() *utils.RandSource {
	return utils.NewRandSource(r.Seed)
}

// Func evaluates one replication of a trial and returns its objective value.
// It may be called concurrently for different replications of one trial.
type Func func(ctx context.Context, t *Trial, rep Replication) (float64, error)

// Plan fixes the replications of one trial
type Plan struct {
	Seeds       []uint64
	Parallelism int
}

// NewPlan draws n replication seeds from rng
func NewPlan(n, parallelism int, rng *utils.RandSource) Plan {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}
	return Plan{Seeds: seeds, Parallelism: parallelism}
}

// Replications returns the number of planned replications
func (p Plan) Replications() int { return len(p.Seeds) }

// Run evaluates every planned replication of t and seals it.
//
// With Parallelism > 1 replications are partitioned round-robin across
// workers; per-worker statistics are merged in worker order so the aggregate
// does not depend on scheduling. A failing replication seals t as failed and
// is returned as an *EvaluationError. Context errors are returned unwrapped.
func Run(ctx context.Context, t *Trial, fn Func, plan Plan) (Result, error) {
	if t.sealed {
		return t.Result(), ErrSealed
	}
	if t.running {
		return t.Result(), ErrEvaluating
	}
	// set before any worker starts and cleared by seal after they finish
	t.running = true
	start := time.Now()

	workers := min(plan.Parallelism, len(plan.Seeds))
	if workers < 1 {
		workers = 1
	}

	partial := make([]Stats, workers)
	var err error
	if workers <= 1 {
		err = runPartition(ctx, t, fn, plan.Seeds, 0, 1, &partial[0])
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				return runPartition(gctx, t, fn, plan.Seeds, w, workers, &partial[w])
			})
		}
		err = g.Wait()
	}

	var total Stats
	for _, s := range partial {
		total.Merge(s)
	}

	if err != nil {
		if isContextErr(err) && ctx.Err() != nil {
			t.seal(total, err, time.Since(start))
			return t.Result(), err
		}
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			err = &EvaluationError{TrialIndex: t.index, Err: err}
		}
		t.seal(total, err, time.Since(start))
		return t.Result(), err
	}

	t.seal(total, nil, time.Since(start))
	return t.Result(), nil
}

func runPartition(ctx context.Context, t *Trial, fn Func, seeds []uint64, offset, stride int, acc *Stats) error {
	for i := offset; i < len(seeds); i += stride {
		rep := Replication{Index: i, Seed: seeds[i]}
		x, err := fn(ctx, t, rep)
		if err != nil {
			if isContextErr(err) {
				return err
			}
			return &EvaluationError{TrialIndex: t.index, Replication: i, Err: err}
		}
		if !utils.IsFinite(x) {
			return &EvaluationError{TrialIndex: t.index, Replication: i, Value: x}
		}
		acc.Add(x)
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
