package service

import (
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/utils"
)

type CancellationInitiator string

const (
	InitiatorClient CancellationInitiator = "client"
	InitiatorAdmin  CancellationInitiator = "admin"
)

type CancellationOutcome int

const (
	// OutcomeNoChange means the contract is already cancelled; the call is
	// an idempotent no-op and nothing is persisted.
	OutcomeNoChange CancellationOutcome = iota
	// OutcomeCancelled means the contract moves straight to CANCELLED.
	OutcomeCancelled
	// OutcomeCancellationRequested means the contract moves to
	// CANCELLATION_REQUESTED and waits for admin confirmation.
	OutcomeCancellationRequested
)

// DecideCancellation applies the cancellation policy to a contract's current
// state. Admins cancel directly; clients cancel directly only while at least
// graceDays whole days remain before the start date, otherwise the request
// waits for admin confirmation. Cancelling an already-cancelled contract is
// a no-op. Contracts whose rental has started cannot be cancelled at all.
func DecideCancellation(contract *domain.Contract, initiator CancellationInitiator, today time.Time, graceDays int) (CancellationOutcome, domain.ContractEvent, error) {
	switch contract.State {
	case domain.RentalStateCancelled:
		return OutcomeNoChange, "", nil

	case domain.RentalStatePending:
		return OutcomeCancelled, domain.EventCancel, nil

	case domain.RentalStateConfirmed, domain.RentalStateCancellationRequested:
		if initiator == InitiatorAdmin {
			return OutcomeCancelled, domain.EventCancel, nil
		}
		if utils.DaysUntil(today, contract.StartDate) >= graceDays {
			return OutcomeCancelled, domain.EventCancel, nil
		}
		return OutcomeCancellationRequested, domain.EventRequestCancellation, nil

	default:
		// ACTIVE and COMPLETED: the rental has started, nobody may cancel.
		return OutcomeNoChange, "", &domain.StateTransitionError{From: contract.State, Event: domain.EventCancel}
	}
}
