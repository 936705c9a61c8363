package memory

import (
	"container/heap"
	"math"

	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

// TabuList remembers recently visited signatures. A signature admitted at
// iteration i with tenure n is tabu for every iteration t with t <= i+n.
// Re-admitting a signature refreshes its expiry.
type TabuList struct {
	expiry map[string]int
	queue  expiryQueue
}

// NewTabuList creates an empty tabu list
func NewTabuList() *TabuList {
	return &TabuList{expiry: make(map[string]int)}
}

// Admit inserts sig or refreshes its expiry
func (l *TabuList) Admit(sig string, iteration, tenure int) {
	if tenure < 0 {
		tenure = 0
	}
	exp := iteration + tenure
	l.expiry[sig] = exp
	heap.Push(&l.queue, expiryEntry{signature: sig, expiry: exp})
}

// IsTabu reports whether sig is forbidden at iteration
func (l *TabuList) IsTabu(sig string, iteration int) bool {
	exp, ok := l.expiry[sig]
	return ok && iteration <= exp
}

// Expire drops every entry whose tenure elapsed before iteration and
// returns how many signatures were released.
func (l *TabuList) Expire(iteration int) int {
	released := 0
	for l.queue.Len() > 0 && l.queue[0].expiry < iteration {
		e := heap.Pop(&l.queue).(expiryEntry)
		// stale heap entries from refreshed signatures are skipped
		if exp, ok := l.expiry[e.signature]; ok && exp == e.expiry {
			delete(l.expiry, e.signature)
			released++
		}
	}
	return released
}

// Len returns the number of tabu signatures
func (l *TabuList) Len() int {
	return len(l.expiry)
}

// Reset clears the list
func (l *TabuList) Reset() {
	clear(l.expiry)
	l.queue = l.queue[:0]
}

// Tenure returns the tenure for the current noise level. When scaled, the
// base tenure shrinks with the noise, never below one iteration.
func Tenure(base int, scaled bool, noise, initialNoise float64) int {
	if !scaled || initialNoise <= 0 || base <= 0 {
		return base
	}
	return max(1, int(math.Round(float64(base)*noise/initialNoise)))
}

// Aspires reports whether a tabu candidate with the given mean should be
// accepted anyway: it must improve on the best known mean by more than
// tolerance. Without a best every candidate aspires.
func Aspires(dir trial.Direction, mean float64, best trial.Result, hasBest bool, tolerance float64) bool {
	if !hasBest {
		return true
	}
	return dir.Improvement(mean, best.Mean) > tolerance
}

type expiryEntry struct {
	signature string
	expiry    int
}

// expiryQueue is a min-heap of entries ordered by expiry
type expiryQueue []expiryEntry

func (q expiryQueue) Len() int           { return len(q) }
func (q expiryQueue) Less(i, j int) bool { return q[i].expiry < q[j].expiry }
func (q expiryQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) {
	*q = append(*q, x.(expiryEntry))
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
