package domain

import (
	"fmt"
	"strings"
	"time"
)

type RentalState string

const (
	RentalStatePending               RentalState = "PENDING"
	RentalStateConfirmed             RentalState = "CONFIRMED"
	RentalStateActive                RentalState = "ACTIVE"
	RentalStateCompleted             RentalState = "COMPLETED"
	RentalStateCancellationRequested RentalState = "CANCELLATION_REQUESTED"
	RentalStateCancelled             RentalState = "CANCELLED"
)

// ContractEvent is a command applied to a contract's state.
type ContractEvent string

const (
	EventConfirm             ContractEvent = "CONFIRM"
	EventActivate            ContractEvent = "ACTIVATE"
	EventComplete            ContractEvent = "COMPLETE"
	EventCancel              ContractEvent = "CANCEL"
	EventRequestCancellation ContractEvent = "REQUEST_CANCELLATION"
	EventConfirmCancellation ContractEvent = "CONFIRM_CANCELLATION"
	EventReschedule          ContractEvent = "RESCHEDULE"
)

// transitions is the full state machine: any (state, event) pair not listed
// here is illegal and rejected by Apply.
var transitions = map[RentalState]map[ContractEvent]RentalState{
	RentalStatePending: {
		EventConfirm:    RentalStateConfirmed,
		EventCancel:     RentalStateCancelled,
		EventReschedule: RentalStatePending,
	},
	RentalStateConfirmed: {
		EventActivate:            RentalStateActive,
		EventCancel:              RentalStateCancelled,
		EventRequestCancellation: RentalStateCancellationRequested,
		EventReschedule:          RentalStateConfirmed,
	},
	RentalStateCancellationRequested: {
		EventCancel:              RentalStateCancelled,
		EventConfirmCancellation: RentalStateCancelled,
		EventRequestCancellation: RentalStateCancellationRequested,
	},
	RentalStateActive: {
		EventComplete: RentalStateCompleted,
	},
}

// Apply returns the state reached by handling event in state s, or a
// *StateTransitionError if the transition is not in the table.
func (s RentalState) Apply(event ContractEvent) (RentalState, error) {
	if next, ok := transitions[s][event]; ok {
		return next, nil
	}
	return s, &StateTransitionError{From: s, Event: event}
}

// CanApply reports whether event is legal in state s.
func (s RentalState) CanApply(event ContractEvent) bool {
	_, ok := transitions[s][event]
	return ok
}

// IsTerminal reports whether no event can move the contract out of s.
func (s RentalState) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// ParseRentalState maps a persisted state name, case-insensitively, to a
// RentalState value.
func ParseRentalState(name string) (RentalState, error) {
	switch RentalState(strings.ToUpper(name)) {
	case RentalStatePending:
		return RentalStatePending, nil
	case RentalStateConfirmed:
		return RentalStateConfirmed, nil
	case RentalStateActive:
		return RentalStateActive, nil
	case RentalStateCompleted:
		return RentalStateCompleted, nil
	case RentalStateCancellationRequested:
		return RentalStateCancellationRequested, nil
	case RentalStateCancelled:
		return RentalStateCancelled, nil
	}
	return "", fmt.Errorf("unknown rental state %q", name)
}

// Contract is a rental reservation linking a client, a car and an inclusive
// date range. All mutations go through RentalState.Apply; cancelled and
// completed contracts are retained for history, never deleted.
type Contract struct {
	ID             int32       `json:"id"`
	ClientID       int32       `json:"client_id"`
	CarID          int32       `json:"car_id"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	State          RentalState `json:"state"`
	TotalCostCents int32       `json:"total_cost_cents"`
	CreatedOn      time.Time   `json:"created_on"`
	UpdatedOn      time.Time   `json:"updated_on"`
}

// ContractFilter narrows admin contract listings. Zero values mean "any".
type ContractFilter struct {
	State    RentalState
	ClientID int32
	CarID    int32
	Brand    string
	BodyType string
	CarClass string
}
