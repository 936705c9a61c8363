package study

import "errors"

var (
	// ErrNoCompletedTrials is returned when a study ends without one successful trial
	ErrNoCompletedTrials = errors.New("no trial completed successfully")

	// ErrRunning is returned when a driver is reconfigured or restarted mid-run
	ErrRunning = errors.New("study is running")
)
