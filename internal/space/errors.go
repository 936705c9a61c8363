package space

import "fmt"

// ConsistencyError reports a category code or label that does not belong to
// its variable. Values produced by a Space never trigger it, so seeing one
// means an internal invariant was broken.
type ConsistencyError struct {
	Variable string
	Code     int
	Label    string
	Reason   string
}

func (e *ConsistencyError) Error() string {
	subject := fmt.Sprintf("code %d", e.Code)
	if e.Label != "" {
		subject = fmt.Sprintf("label %q", e.Label)
	}
	if e.Variable != "" {
		return fmt.Sprintf("category consistency violated for %s: %s: %s", e.Variable, subject, e.Reason)
	}
	return fmt.Sprintf("category consistency violated: %s: %s", subject, e.Reason)
}

// UnknownVariableError is returned when a candidate is queried for a name
// that was never declared
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable: %s", e.Name)
}

// KindError is returned when a value is read with the accessor of another kind
type KindError struct {
	Name string
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("variable %s is %s, not %s", e.Name, e.Got, e.Want)
}
