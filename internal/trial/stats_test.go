package trial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

func statsOf(xs ...float64) Stats {
	var s Stats
	for _, x := range xs {
		s.Add(x)
	}
	return s
}

func TestStatsMatchesReference(t *testing.T) {
	rng := utils.NewRandSource(11)
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = rng.NormFloat64(50, 7)
	}

	got := statsOf(xs...).Result()
	mean, variance := stat.MeanVariance(xs, nil)

	assert.Equal(t, 1000, got.Replications)
	assert.InDelta(t, mean, got.Mean, 1e-9)
	assert.InDelta(t, variance, got.Variance, 1e-7)
}

func TestStatsSingleObservation(t *testing.T) {
	r := statsOf(3.5).Result()
	assert.Equal(t, 1, r.Replications)
	assert.Equal(t, 3.5, r.Mean)
	assert.True(t, math.IsNaN(r.Variance))
	assert.True(t, math.IsNaN(r.Std()))
}

func TestStatsOrderIndependent(t *testing.T) {
	abc := statsOf(1.25, 9.5, -4).Result()
	cab := statsOf(-4, 1.25, 9.5).Result()

	assert.InDelta(t, abc.Mean, cab.Mean, 1e-12)
	assert.InDelta(t, abc.Variance, cab.Variance, 1e-12)
	assert.Equal(t, abc.Replications, cab.Replications)
}

func TestStatsMergeMatchesSequential(t *testing.T) {
	xs := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	whole := statsOf(xs...).Result()

	left := statsOf(xs[:4]...)
	right := statsOf(xs[4:]...)
	left.Merge(right)
	merged := left.Result()

	assert.Equal(t, whole.Replications, merged.Replications)
	assert.InDelta(t, whole.Mean, merged.Mean, 1e-12)
	assert.InDelta(t, whole.Variance, merged.Variance, 1e-12)

	var empty Stats
	empty.Merge(right)
	assert.Equal(t, right, empty)

	before := right
	right.Merge(Stats{})
	assert.Equal(t, before, right)
}

func TestPool(t *testing.T) {
	a := statsOf(1, 2, 3).Result()
	b := statsOf(4, 5).Result()
	pooled := Pool(a, b)
	whole := statsOf(1, 2, 3, 4, 5).Result()

	assert.Equal(t, 5, pooled.Replications)
	assert.InDelta(t, whole.Mean, pooled.Mean, 1e-12)
	assert.InDelta(t, whole.Variance, pooled.Variance, 1e-12)

	single := Pool(statsOf(2).Result(), statsOf(4).Result())
	assert.Equal(t, 2, single.Replications)
	assert.InDelta(t, 3.0, single.Mean, 1e-12)
	assert.InDelta(t, 2.0, single.Variance, 1e-12)
}

func TestCompare(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		dir  Direction
		a, b Result
		want int
	}{
		{"lower mean wins when minimising", Minimize, Result{Mean: 1, Variance: 5}, Result{Mean: 2, Variance: 0}, -1},
		{"higher mean wins when maximising", Maximize, Result{Mean: 1}, Result{Mean: 2}, 1},
		{"tie broken by variance", Minimize, Result{Mean: 1, Variance: 0.5}, Result{Mean: 1, Variance: 2}, -1},
		{"undefined variance ranks last", Minimize, Result{Mean: 1, Variance: nan}, Result{Mean: 1, Variance: 100}, 1},
		{"full tie", Maximize, Result{Mean: 1, Variance: nan}, Result{Mean: 1, Variance: nan}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.dir, tt.a, tt.b))
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("maximize")
	require.NoError(t, err)
	assert.Equal(t, Maximize, d)
	assert.Equal(t, "maximize", d.String())

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Minimize, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)

	assert.Equal(t, 2.0, Minimize.Improvement(1, 3))
	assert.Equal(t, -2.0, Maximize.Improvement(1, 3))
}
