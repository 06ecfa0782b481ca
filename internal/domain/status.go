package domain

import "fmt"

// Status is the kitchen-facing lifecycle of an order. It only ever moves
// forward, one step at a time: New -> Preparing -> Ready -> Served.
type Status string

const (
	StatusNew       Status = "New"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusServed    Status = "Served"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusReady, StatusServed:
		return true
	}
	return false
}

// IsTerminal reports whether an order in this status is excluded from
// active views. Served orders are never deleted, only filtered out.
func (s Status) IsTerminal() bool { return s == StatusServed }

// Next returns the single legal successor status. ok is false for the
// terminal status and for unknown values.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusNew:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusServed, true
	}
	return "", false
}

// CanTransition reports whether next is the immediate successor of from.
// Skipping a state, moving backward and re-applying the current status are
// all rejected; there is no correction path for a mis-click.
func CanTransition(from, next Status) bool {
	succ, ok := from.Next()
	return ok && succ == next
}

// ParseStatus validates a wire-format status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}
