package trial

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

func newTrial(t *testing.T, index int) *Trial {
	t.Helper()
	x, err := space.NewContinuous("x", 0, 10)
	require.NoError(t, err)
	s, err := space.New(x)
	require.NoError(t, err)
	c, err := s.Candidate(map[string]any{"x": 2.0})
	require.NoError(t, err)
	return New(index, c, PhaseDiversify)
}

// noisy returns x plus replication-seeded gaussian noise
func noisy(_ context.Context, t *Trial, rep Replication) (float64, error) {
	x, err := t.Float("x")
	if err != nil {
		return 0, err
	}
	return x + rep.Rand().NormFloat64(0, 1), nil
}

func TestRunSequential(t *testing.T) {
	tr := newTrial(t, 0)
	var calls atomic.Int32
	fn := func(ctx context.Context, t *Trial, rep Replication) (float64, error) {
		calls.Add(1)
		return noisy(ctx, t, rep)
	}

	plan := NewPlan(30, 1, utils.NewRandSource(1))
	res, err := Run(context.Background(), tr, fn, plan)
	require.NoError(t, err)

	assert.Equal(t, int32(30), calls.Load())
	assert.Equal(t, 30, res.Replications)
	assert.InDelta(t, 2.0, res.Mean, 0.75)
	assert.True(t, tr.Sealed())
	assert.False(t, tr.Failed())
	assert.Equal(t, res, tr.Result())
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seq := newTrial(t, 0)
	par := newTrial(t, 0)

	seqRes, err := Run(context.Background(), seq, noisy, NewPlan(25, 1, utils.NewRandSource(9)))
	require.NoError(t, err)
	parRes, err := Run(context.Background(), par, noisy, NewPlan(25, 4, utils.NewRandSource(9)))
	require.NoError(t, err)

	assert.Equal(t, seqRes.Replications, parRes.Replications)
	assert.InDelta(t, seqRes.Mean, parRes.Mean, 1e-9)
	assert.InDelta(t, seqRes.Variance, parRes.Variance, 1e-9)
}

func TestRunParallelDeterministic(t *testing.T) {
	var first Result
	for i := 0; i < 5; i++ {
		tr := newTrial(t, 0)
		res, err := Run(context.Background(), tr, noisy, NewPlan(17, 3, utils.NewRandSource(4)))
		require.NoError(t, err)
		if i == 0 {
			first = res
			continue
		}
		assert.Equal(t, first, res)
	}
}

func TestRunNonFiniteObjective(t *testing.T) {
	tr := newTrial(t, 7)
	fn := func(_ context.Context, _ *Trial, rep Replication) (float64, error) {
		if rep.Index == 2 {
			return math.NaN(), nil
		}
		return 1, nil
	}

	_, err := Run(context.Background(), tr, fn, NewPlan(5, 1, utils.NewRandSource(1)))
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 7, evalErr.TrialIndex)
	assert.Equal(t, 2, evalErr.Replication)
	assert.True(t, tr.Failed())
	assert.True(t, tr.Sealed())
}

func TestRunCallbackError(t *testing.T) {
	boom := errors.New("model crashed")
	fn := func(context.Context, *Trial, Replication) (float64, error) {
		return 0, boom
	}

	for _, workers := range []int{1, 3} {
		tr := newTrial(t, 1)
		_, err := Run(context.Background(), tr, fn, NewPlan(6, workers, utils.NewRandSource(1)))
		var evalErr *EvaluationError
		require.ErrorAs(t, err, &evalErr)
		assert.ErrorIs(t, err, boom)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(ctx context.Context, _ *Trial, rep Replication) (float64, error) {
		if rep.Index == 1 {
			cancel()
			return 0, ctx.Err()
		}
		return 1, nil
	}

	tr := newTrial(t, 0)
	_, err := Run(ctx, tr, fn, NewPlan(4, 1, utils.NewRandSource(1)))
	require.ErrorIs(t, err, context.Canceled)

	var evalErr *EvaluationError
	assert.False(t, errors.As(err, &evalErr))
}

func TestRunSealedTrial(t *testing.T) {
	tr := newTrial(t, 0)
	_, err := Run(context.Background(), tr, noisy, NewPlan(2, 1, utils.NewRandSource(1)))
	require.NoError(t, err)

	_, err = Run(context.Background(), tr, noisy, NewPlan(2, 1, utils.NewRandSource(1)))
	assert.ErrorIs(t, err, ErrSealed)
	assert.ErrorIs(t, tr.Record(1), ErrSealed)
}

func TestRunRejectsRecordFromCallback(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		tr := newTrial(t, 0)
		var rejected atomic.Int32
		fn := func(ctx context.Context, t *Trial, rep Replication) (float64, error) {
			x, err := noisy(ctx, t, rep)
			if errors.Is(t.Record(x), ErrEvaluating) {
				rejected.Add(1)
			}
			return x, err
		}

		res, err := Run(context.Background(), tr, fn, NewPlan(3, parallelism, utils.NewRandSource(4)))
		require.NoError(t, err)
		assert.Equal(t, int32(3), rejected.Load(), "parallelism %d", parallelism)
		assert.Equal(t, 3, res.Replications, "parallelism %d", parallelism)
		assert.Equal(t, 3, tr.Result().Replications, "parallelism %d", parallelism)
	}
}

func TestRecord(t *testing.T) {
	tr := newTrial(t, 3)
	require.NoError(t, tr.Record(1))
	require.NoError(t, tr.Record(3))

	var evalErr *EvaluationError
	require.ErrorAs(t, tr.Record(math.Inf(1)), &evalErr)
	assert.Equal(t, 2, evalErr.Replication)

	res := tr.Result()
	assert.Equal(t, 2, res.Replications)
	assert.InDelta(t, 2.0, res.Mean, 1e-12)
	assert.InDelta(t, 2.0, res.Variance, 1e-12)
}

func TestTrialAccessors(t *testing.T) {
	tr := newTrial(t, 5)
	assert.Equal(t, 5, tr.Index())
	assert.Equal(t, PhaseDiversify, tr.Phase())
	assert.Equal(t, "x=2", tr.Signature())
	assert.Equal(t, map[string]any{"x": 2.0}, tr.Params())

	_, err := tr.Category("x")
	assert.Error(t, err)

	assert.False(t, tr.Forced())
	tr.MarkForced()
	assert.True(t, tr.Forced())
}
