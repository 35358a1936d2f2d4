package service

import (
	"context"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/utils"
)

// AvailabilityChecker decides whether a car is free for a candidate date
// range. Two inclusive ranges conflict when they share at least one calendar
// day; cancelled contracts never block availability.
type AvailabilityChecker struct {
	contracts repository.ContractRepository
}

func NewAvailabilityChecker(contracts repository.ContractRepository) *AvailabilityChecker {
	return &AvailabilityChecker{contracts: contracts}
}

// IsCarAvailable reports whether carID has no non-cancelled contract
// overlapping [start, end]. excludeContractID > 0 leaves that contract's own
// booking out of the check, for date updates to an existing contract.
// This is a read-only pre-check; the contract repository repeats it inside
// the write transaction, so a pass here is advisory, not a reservation.
func (a *AvailabilityChecker) IsCarAvailable(ctx context.Context, carID int32, start, end time.Time, excludeContractID int32) (bool, error) {
	if utils.DateOnly(end).Before(utils.DateOnly(start)) {
		return false, domain.ErrInvalidDateRange
	}
	overlapping, err := a.contracts.FindOverlapping(ctx, carID, start, end, excludeContractID)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}
