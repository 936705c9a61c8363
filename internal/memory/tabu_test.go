package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

func TestTabuTenure(t *testing.T) {
	l := NewTabuList()
	l.Admit("a", 3, 4)

	for it := 3; it <= 7; it++ {
		assert.True(t, l.IsTabu("a", it), "iteration %d", it)
	}
	assert.False(t, l.IsTabu("a", 8))
	assert.False(t, l.IsTabu("b", 3))
}

func TestTabuRefreshAndExpire(t *testing.T) {
	l := NewTabuList()
	l.Admit("a", 0, 2)
	l.Admit("b", 0, 5)
	l.Admit("a", 4, 2)

	assert.Equal(t, 2, l.Len())
	assert.True(t, l.IsTabu("a", 6))
	assert.False(t, l.IsTabu("a", 7))

	// the stale heap entry for "a" (expiry 2) must not release the refreshed one
	assert.Equal(t, 0, l.Expire(4))
	assert.True(t, l.IsTabu("a", 5))

	assert.Equal(t, 1, l.Expire(6))
	assert.False(t, l.IsTabu("b", 6))
	assert.True(t, l.IsTabu("a", 6))

	assert.Equal(t, 1, l.Expire(7))
	assert.Equal(t, 0, l.Len())
}

func TestTabuMembershipImpliesRecentAdmission(t *testing.T) {
	l := NewTabuList()
	admitted := map[string]int{}
	const tenure = 3

	sigs := []string{"a", "b", "c", "a", "d", "b", "e", "a", "f", "c"}
	for it, sig := range sigs {
		l.Expire(it)
		for s, at := range admitted {
			if l.IsTabu(s, it) {
				assert.LessOrEqual(t, at, it)
				assert.GreaterOrEqual(t, at+tenure, it)
			}
		}
		l.Admit(sig, it, tenure)
		admitted[sig] = it
	}
}

func TestTabuZeroTenure(t *testing.T) {
	l := NewTabuList()
	l.Admit("a", 5, 0)
	assert.True(t, l.IsTabu("a", 5))
	assert.False(t, l.IsTabu("a", 6))

	l.Admit("b", 5, -3)
	assert.False(t, l.IsTabu("b", 6))
}

func TestTabuReset(t *testing.T) {
	l := NewTabuList()
	l.Admit("a", 0, 10)
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.IsTabu("a", 1))
	assert.Equal(t, 0, l.Expire(100))
}

func TestTenure(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		scaled  bool
		noise   float64
		initial float64
		want    int
	}{
		{"fixed", 20, false, 0.05, 0.2, 20},
		{"scaled at start", 20, true, 0.2, 0.2, 20},
		{"scaled at end", 20, true, 0.05, 0.2, 5},
		{"scaled floor", 20, true, 0, 0.2, 1},
		{"zero initial noise", 20, true, 0, 0, 20},
		{"zero base", 0, true, 0.1, 0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tenure(tt.base, tt.scaled, tt.noise, tt.initial))
		})
	}
}

func TestAspires(t *testing.T) {
	best := trial.Result{Mean: 10, Variance: math.NaN(), Replications: 1}

	assert.True(t, Aspires(trial.Minimize, 9, best, true, 0.5))
	assert.False(t, Aspires(trial.Minimize, 9.5, best, true, 0.5))
	assert.False(t, Aspires(trial.Minimize, 10, best, true, 0))
	assert.False(t, Aspires(trial.Minimize, 11, best, true, 0))

	assert.True(t, Aspires(trial.Maximize, 11, best, true, 0.5))
	assert.False(t, Aspires(trial.Maximize, 9, best, true, 0))

	assert.True(t, Aspires(trial.Minimize, 1e9, trial.Result{}, false, 0))
}
