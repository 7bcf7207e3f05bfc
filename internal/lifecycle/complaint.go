// Package lifecycle holds the status rules shared by the REST host and the
// workflow engine: the complaint state machine and the notice type set.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// ComplaintStatus is one step of a complaint's lifecycle.
type ComplaintStatus string

const (
	StatusReceived     ComplaintStatus = "Received"
	StatusUnderReview  ComplaintStatus = "Under Review"
	StatusTakingAction ComplaintStatus = "Taking Action"
	StatusDismissed    ComplaintStatus = "Dismissed"
	StatusResolved     ComplaintStatus = "Resolved"
)

// Statuses lists every complaint status in display order.
var Statuses = []ComplaintStatus{
	StatusReceived,
	StatusUnderReview,
	StatusTakingAction,
	StatusDismissed,
	StatusResolved,
}

var (
	ErrUnknownStatus     = errors.New("unknown complaint status")
	ErrTerminalStatus    = errors.New("complaint is closed and can no longer change status")
	ErrInvalidTransition = errors.New("complaint status transition not allowed")
	ErrProofRequired     = errors.New("Please attach at least one proof image.")
	ErrCommentRequired   = errors.New("Please enter a dismissal comment.")
)

var transitions = map[ComplaintStatus][]ComplaintStatus{
	StatusReceived:     {StatusUnderReview},
	StatusUnderReview:  {StatusTakingAction, StatusDismissed, StatusResolved},
	StatusTakingAction: {StatusDismissed, StatusResolved},
}

// ParseStatus maps a wire value onto a known status.
func ParseStatus(s string) (ComplaintStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Valid reports whether s is one of the five known statuses.
func (s ComplaintStatus) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether no further transition is permitted from s.
func (s ComplaintStatus) Terminal() bool {
	return s == StatusDismissed || s == StatusResolved
}

// Next returns the statuses reachable from s in one step.
func (s ComplaintStatus) Next() []ComplaintStatus {
	out := make([]ComplaintStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// CanTransition reports whether from -> to is an allowed forward move.
func CanTransition(from, to ComplaintStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Evidence is the data a status change carries besides the target status.
type Evidence struct {
	Comment     string
	ProofImages int
}

// CheckEvidence enforces the data-completeness gates of a target status.
// It does not look at the current status.
func CheckEvidence(to ComplaintStatus, ev Evidence) error {
	switch to {
	case StatusResolved:
		if ev.ProofImages == 0 {
			return ErrProofRequired
		}
	case StatusDismissed:
		if strings.TrimSpace(ev.Comment) == "" {
			return ErrCommentRequired
		}
	}
	return nil
}

// CheckTransition validates a move from -> to. Moving a non-terminal
// complaint to the status it already has is accepted so acknowledgements can
// be retried.
func CheckTransition(from, to ComplaintStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from.Terminal() {
		return ErrTerminalStatus
	}
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
