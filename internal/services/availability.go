package services

import (
	"context"
	"time"

	"rentago/internal/domain"
	"rentago/internal/utils"
)

// AvailabilityService answers whether a vehicle is free for an inclusive
// date range. It only reads; the authoritative check happens again under a
// row lock when the booking is inserted.
type AvailabilityService struct {
	Bookings  BookingStore
	RequestID string
}

// IsAvailable reports false when any cancelled-or-expired-excluded booking
// overlaps [start, end]. Touching ranges (one ends the day the other starts)
// overlap. A storage failure is an error, never "available".
func (s AvailabilityService) IsAvailable(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	n, err := s.Bookings.CountOverlapping(ctx, vehicleID, utils.FormatDate(start), utils.FormatDate(end))
	if err != nil {
		utils.LogError(s.RequestID, "availability", "check", "cek ketersediaan gagal vehicle_id="+vehicleID, err)
		return false, domain.InternalError{Msg: "gagal memeriksa ketersediaan", Err: err}
	}
	return n == 0, nil
}
