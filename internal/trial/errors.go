package trial

import (
	"errors"
	"fmt"
)

// ErrSealed is returned when recording into a finished trial
var ErrSealed = errors.New("trial is sealed")

// ErrEvaluating is returned when recording into a trial whose replications
// are being run; the evaluation function reports outcomes by returning them.
var ErrEvaluating = errors.New("trial is being evaluated")

// EvaluationError reports a replication whose callback failed or returned a
// non-finite objective. The trial is discarded but the search continues.
type EvaluationError struct {
	TrialIndex  int
	Replication int
	Value       float64
	Err         error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trial %d replication %d: evaluation failed: %v", e.TrialIndex, e.Replication, e.Err)
	}
	return fmt.Sprintf("trial %d replication %d: non-finite objective %v", e.TrialIndex, e.Replication, e.Value)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
