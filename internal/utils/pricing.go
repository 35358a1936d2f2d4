package utils

import (
	"fmt"
	"time"

	"carshare-backend/internal/domain"
)

// DateOnly strips the time-of-day and location from t, leaving a pure
// calendar date in UTC. All rental date arithmetic works on these.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RentalDays returns the number of billable days for the inclusive range
// [start, end]. A same-day rental counts as 1 day.
func RentalDays(start, end time.Time) (int32, error) {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0, domain.ErrInvalidDateRange
	}
	return int32(e.Sub(s).Hours()/24) + 1, nil
}

// DaysUntil returns the number of whole calendar days from `from` until
// `date`. Negative when date is before from.
func DaysUntil(from, date time.Time) int {
	return int(DateOnly(date).Sub(DateOnly(from)).Hours() / 24)
}

// CalculateRentalCost computes the total cost of renting car over the
// inclusive range [start, end]: daily rate times the number of billable days.
// Recomputed on every date change, never read back from a stored contract.
func CalculateRentalCost(car *domain.Car, start, end time.Time) (int32, error) {
	days, err := RentalDays(start, end)
	if err != nil {
		return 0, err
	}
	if car.DailyRateCents < 0 {
		return 0, fmt.Errorf("car %d has a negative daily rate", car.ID)
	}
	return car.DailyRateCents * days, nil
}
