package study

import (
	"github.com/GoSim-25-26J-441/teso/internal/memory"
	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

// Info describes a study at start
type Info struct {
	ID        string
	Direction trial.Direction
	Variables []*space.Variable
	NTrials   int
	Schedule  string
	// Seed created the driver's random source; a time-seeded run can be
	// repeated by setting random_state to it.
	Seed      uint64
}

// Snapshot is the search state after a trial was folded into memory
type Snapshot struct {
	Iteration int
	Noise     float64
	NoImprove int
	Best      memory.Entry
	HasBest   bool
	Improved  bool
	EliteSize int
	TabuSize  int
}

// EventKind classifies notable events
type EventKind string

const (
	EventTabuRejected     EventKind = "tabu_rejected"
	EventAspiration       EventKind = "aspiration"
	EventForcedAcceptance EventKind = "forced_acceptance"
	EventEvaluationFailed EventKind = "evaluation_failed"
)

// Event is a notable occurrence during candidate selection or evaluation
type Event struct {
	Kind      EventKind
	Trial     int
	Attempt   int
	Signature string
	Mean      float64
	Err       error
}

// Observer receives lifecycle callbacks from a Driver. Callbacks run on the
// optimisation goroutine without the driver lock held.
type Observer interface {
	StudyStarted(info Info)
	TrialStarted(t *trial.Trial, noise float64)
	TrialFinished(t *trial.Trial, snap Snapshot)
	Notable(ev Event)
	StudyFinished(res *Result)
}

// BaseObserver implements Observer with no-ops; embed it to override a subset
type BaseObserver struct{}

func (BaseObserver) StudyStarted(Info)                    {}
func (BaseObserver) TrialStarted(*trial.Trial, float64)   {}
func (BaseObserver) TrialFinished(*trial.Trial, Snapshot) {}
func (BaseObserver) Notable(Event)                        {}
func (BaseObserver) StudyFinished(*Result)               {}
