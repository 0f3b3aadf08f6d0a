package domain

import "time"

type Status string

const (
	StatusNew       Status = "NEW"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusServed    Status = "SERVED"
	StatusCancelled Status = "CANCELLED"
)

// validTransitions is the full transition table. Terminal states have no outgoing
// edges; self-transitions are not listed and therefore not allowed.
var validTransitions = map[Status][]Status{
	StatusNew:       {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusCancelled},
	StatusServed:    {},
	StatusCancelled: {},
}

// ParseStatus converts a string into a Status. The match is case-sensitive, so a bad
// client string is distinguishable from a transition rule violation.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusPreparing, StatusReady, StatusServed, StatusCancelled:
		return Status(s), nil
	}
	return "", &InvalidStatusError{Value: s}
}

// CanTransitionTo checks the transition table. Pure lookup, no side effects.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsFinal reports whether the status has no outgoing transitions.
func (s Status) IsFinal() bool {
	return s == StatusServed || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// StatusLog represents a log entry for order status changes.
type StatusLog struct {
	ID        int
	OrderID   string
	Status    Status
	ChangedBy string
	ChangedAt time.Time
}
