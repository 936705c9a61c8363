package memory

import (
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Entry is one archived solution
type Entry struct {
	Candidate  space.Candidate
	Signature  string
	Result     trial.Result
	TrialIndex int
}

// Elite is a fixed-capacity archive of the best solutions found, kept
// sorted best first: by mean in the study direction, then lower variance,
// then earlier discovery.
type Elite struct {
	dir      trial.Direction
	capacity int
	entries  []Entry
}

// NewElite creates an empty archive. Capacity below one is raised to one.
func NewElite(capacity int, dir trial.Direction) *Elite {
	capacity = max(1, capacity)
	return &Elite{dir: dir, capacity: capacity, entries: make([]Entry, 0, capacity)}
}

// Offer proposes an entry and reports whether the archive changed.
//
// A new signature is kept when there is room or when it beats the current
// worst, which is then evicted. A repeated signature pools its replications
// with the stored result and replaces it only if the pooled result ranks
// strictly better.
func (e *Elite) Offer(entry Entry) bool {
	if entry.Signature == "" {
		entry.Signature = entry.Candidate.Signature()
	}

	if i := e.indexOf(entry.Signature); i >= 0 {
		stored := e.entries[i]
		pooled := trial.Pool(stored.Result, entry.Result)
		if trial.Compare(e.dir, pooled, stored.Result) >= 0 {
			return false
		}
		e.entries[i].Result = pooled
		e.sort()
		return true
	}

	if len(e.entries) < e.capacity {
		e.entries = append(e.entries, entry)
		e.sort()
		return true
	}

	worst := e.entries[len(e.entries)-1]
	if trial.Compare(e.dir, entry.Result, worst.Result) >= 0 {
		return false
	}
	e.entries[len(e.entries)-1] = entry
	e.sort()
	return true
}

// Sample draws up to k distinct entries without replacement. The entry of
// rank r (0 is best) out of n has weight n-r.
func (e *Elite) Sample(k int, rng *utils.RandSource) []Entry {
	n := len(e.entries)
	k = min(k, n)
	if k <= 0 {
		return nil
	}

	weights := make([]float64, n)
	for r := range weights {
		weights[r] = float64(n - r)
	}
	dist := distuv.NewCategorical(weights, rng)

	out := make([]Entry, 0, k)
	for len(out) < k {
		i := int(dist.Rand())
		out = append(out, e.entries[i])
		if len(out) < k {
			dist.Reweight(i, 0)
		}
	}
	return out
}

// Best returns the top-ranked entry
func (e *Elite) Best() (Entry, bool) {
	if len(e.entries) == 0 {
		return Entry{}, false
	}
	return e.entries[0], true
}

// Worst returns the lowest-ranked entry
func (e *Elite) Worst() (Entry, bool) {
	if len(e.entries) == 0 {
		return Entry{}, false
	}
	return e.entries[len(e.entries)-1], true
}

// Entries returns a copy of the archive, best first
func (e *Elite) Entries() []Entry {
	return slices.Clone(e.entries)
}

// Contains reports whether sig is archived
func (e *Elite) Contains(sig string) bool {
	return e.indexOf(sig) >= 0
}

// Len returns the number of archived entries
func (e *Elite) Len() int { return len(e.entries) }

// Cap returns the archive capacity
func (e *Elite) Cap() int { return e.capacity }

// Reset empties the archive
func (e *Elite) Reset() {
	e.entries = e.entries[:0]
}

func (e *Elite) indexOf(sig string) int {
	return slices.IndexFunc(e.entries, func(en Entry) bool { return en.Signature == sig })
}

func (e *Elite) sort() {
	slices.SortStableFunc(e.entries, func(a, b Entry) int {
		if c := trial.Compare(e.dir, a.Result, b.Result); c != 0 {
			return c
		}
		return a.TrialIndex - b.TrialIndex
	})
}
