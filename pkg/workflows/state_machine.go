package workflows

import (
	"fmt"
	"strings"
)

// Status is a maintenance request status as exchanged over the API.
type Status string

const (
	StatusNew            Status = "NEW"
	StatusAccepted       Status = "ACCEPTED"
	StatusDiagnostics    Status = "DIAGNOSTICS"
	StatusApproval       Status = "APPROVAL"
	StatusWaitingParts   Status = "WAITING_PARTS"
	StatusInRepair       Status = "IN_REPAIR"
	StatusQualityCheck   Status = "QUALITY_CHECK"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusNew,
	StatusAccepted,
	StatusDiagnostics,
	StatusApproval,
	StatusWaitingParts,
	StatusInRepair,
	StatusQualityCheck,
	StatusReadyForPickup,
	StatusCompleted,
	StatusCancelled,
}

// TransitionError reports a status change the state machine does not allow.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("status transition from %s to %s is not allowed", e.From, e.To)
}

// StateMachine enforces maintenance request status transitions
type StateMachine struct {
	allowedTransitions map[Status][]Status
}

// NewStateMachine creates a new state machine with allowed transitions.
// Every entry lists the status itself first so that saving without a
// status change is always permitted.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[Status][]Status{
			StatusNew:            {StatusNew, StatusAccepted, StatusCancelled},
			StatusAccepted:       {StatusAccepted, StatusDiagnostics, StatusCancelled},
			StatusDiagnostics:    {StatusDiagnostics, StatusApproval, StatusCancelled},
			StatusApproval:       {StatusApproval, StatusWaitingParts, StatusInRepair, StatusCancelled},
			StatusWaitingParts:   {StatusWaitingParts, StatusInRepair, StatusCancelled},
			StatusInRepair:       {StatusInRepair, StatusQualityCheck, StatusCancelled},
			StatusQualityCheck:   {StatusQualityCheck, StatusReadyForPickup, StatusCancelled},
			StatusReadyForPickup: {StatusReadyForPickup, StatusCompleted, StatusCancelled},
			StatusCompleted:      {StatusCompleted},
			StatusCancelled:      {StatusCancelled},
		},
	}
}

var maintenance = NewStateMachine()

// Normalize trims and upper-cases s, defaulting to NEW when empty.
func Normalize(s string) Status {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return StatusNew
	}
	return Status(s)
}

// ParseStatus parses s strictly: unknown values are an error.
func ParseStatus(s string) (Status, error) {
	status := Normalize(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown maintenance status %q", s)
	}
	return status, nil
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := maintenance.allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no status other than s itself is reachable.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to Status) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status.
// Unknown statuses fall back to a singleton of the status itself.
func (sm *StateMachine) GetAllowedTransitions(from Status) []Status {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []Status{from}
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// ValidateTransition returns a *TransitionError when from cannot move to to.
func (sm *StateMachine) ValidateTransition(from, to Status) error {
	if from == to || sm.CanTransition(from, to) {
		return nil
	}
	return &TransitionError{From: from, To: to}
}

// AllowedTransitions normalizes current and returns the statuses a user may
// pick next, always including the normalized current status.
func AllowedTransitions(current string) []Status {
	return maintenance.GetAllowedTransitions(Normalize(current))
}

// SelectDefault returns current when it is in allowed, otherwise the first
// allowed status. An empty allowed list yields current.
func SelectDefault(current Status, allowed []Status) Status {
	for _, s := range allowed {
		if s == current {
			return current
		}
	}
	if len(allowed) == 0 {
		return current
	}
	return allowed[0]
}

// CanTransition reports whether the shared table allows from -> to.
func CanTransition(from, to Status) bool {
	return maintenance.CanTransition(from, to)
}

// ValidateTransition checks from -> to against the shared table.
func ValidateTransition(from, to Status) error {
	return maintenance.ValidateTransition(from, to)
}
