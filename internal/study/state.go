package study

// State is the driver's position in the search loop
type State int

const (
	StateInit State = iota
	StateDiversify
	StateIntensify
	StateEvaluate
	StateUpdateMemory
	StateCheckTermination
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateDiversify:
		return "DIVERSIFY"
	case StateIntensify:
		return "INTENSIFY"
	case StateEvaluate:
		return "EVALUATE"
	case StateUpdateMemory:
		return "UPDATE_MEMORY"
	case StateCheckTermination:
		return "CHECK_TERMINATION"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// StopReason explains why a study ended
type StopReason string

const (
	StopNoImprovement StopReason = "no_improvement"
	StopBudget        StopReason = "budget_exhausted"
	StopCancelled     StopReason = "cancelled"
	StopError         StopReason = "error"
)
