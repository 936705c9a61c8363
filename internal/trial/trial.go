package trial

import (
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Phase records which move produced a trial
type Phase int

const (
	PhaseInit Phase = iota
	PhaseDiversify
	PhaseIntensify
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseDiversify:
		return "diversify"
	case PhaseIntensify:
		return "intensify"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Trial is one candidate and the replications evaluated for it.
// Once sealed it no longer accepts observations.
type Trial struct {
	index     int
	candidate space.Candidate
	phase     Phase

	stats   Stats
	err     error
	sealed  bool
	running bool
	forced  bool
	elapsed time.Duration
}

// New creates an unevaluated trial
func New(index int, candidate space.Candidate, phase Phase) *Trial {
	return &Trial{index: index, candidate: candidate, phase: phase}
}

// Index returns the trial's position in the study
func (t *Trial) Index() int { return t.index }

// Phase returns the move that produced the trial
func (t *Trial) Phase() Phase { return t.phase }

// Candidate returns the evaluated candidate
func (t *Trial) Candidate() space.Candidate { return t.candidate }

// Signature returns the candidate signature
func (t *Trial) Signature() string { return t.candidate.Signature() }

// Float suggests the value of a numeric variable
func (t *Trial) Float(name string) (float64, error) { return t.candidate.Float(name) }

// Int suggests the value of a discrete variable
func (t *Trial) Int(name string) (int, error) { return t.candidate.Int(name) }

// Category suggests the label of a categorical variable
func (t *Trial) Category(name string) (string, error) { return t.candidate.Category(name) }

// Params returns all suggested values keyed by name
func (t *Trial) Params() map[string]any { return t.candidate.Params() }

// Record adds one replication outcome to a trial evaluated outside Run.
// It fails with ErrEvaluating while Run owns the trial.
func (t *Trial) Record(x float64) error {
	if t.sealed {
		return ErrSealed
	}
	if t.running {
		return ErrEvaluating
	}
	if !utils.IsFinite(x) {
		return &EvaluationError{TrialIndex: t.index, Replication: t.stats.n, Value: x}
	}
	t.stats.Add(x)
	return nil
}

// Result returns the aggregate of the recorded replications
func (t *Trial) Result() Result { return t.stats.Result() }

// Err returns the evaluation error of a failed trial
func (t *Trial) Err() error { return t.err }

// Failed reports whether evaluation failed
func (t *Trial) Failed() bool { return t.err != nil }

// Sealed reports whether the trial is finished
func (t *Trial) Sealed() bool { return t.sealed }

// Forced reports whether the trial was accepted although its signature was tabu
func (t *Trial) Forced() bool { return t.forced }

// MarkForced flags a trial accepted after the tabu retry budget ran out
func (t *Trial) MarkForced() { t.forced = true }

// Elapsed returns the wall time spent evaluating the trial
func (t *Trial) Elapsed() time.Duration { return t.elapsed }

func (t *Trial) seal(stats Stats, err error, elapsed time.Duration) {
	t.stats.Merge(stats)
	t.err = err
	t.elapsed = elapsed
	t.sealed = true
	t.running = false
}
