package services

import (
	"context"
	"strings"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

type TrackInput struct {
	OrderID string `json:"order_id" form:"order_id" binding:"required,orderid"`
	Phone   string `json:"phone" form:"phone" binding:"required,phone"`
}

// TrackingService lets guests look up their booking without an account.
type TrackingService struct {
	Bookings  BookingStore
	Vehicles  VehicleStore
	RequestID string
}

// errBookingNotFound is returned for any mismatch, whichever field was wrong.
var errBookingNotFound = domain.NotFoundError{Resource: "booking"}

func validateTrackInput(in TrackInput) map[string][]string {
	fields := map[string][]string{}
	if strings.TrimSpace(in.OrderID) == "" {
		fields["order_id"] = append(fields["order_id"], "ID pesanan wajib diisi")
	} else if !utils.IsOrderID(in.OrderID) {
		fields["order_id"] = append(fields["order_id"], "Format ID pesanan: ORD-XXXXXX")
	}
	if msg := ValidatePhone(in.Phone); msg != "" {
		fields["phone"] = append(fields["phone"], msg)
	}
	return fields
}

// Track matches order id and guest phone exactly (case-sensitive).
func (s TrackingService) Track(ctx context.Context, in TrackInput) (models.BookingWithVehicle, error) {
	if fields := validateTrackInput(in); len(fields) > 0 {
		return models.BookingWithVehicle{}, domain.ValidationError{Msg: "Validation failed", Fields: fields}
	}
	b, err := s.Bookings.FindGuestBooking(ctx, in.OrderID, in.Phone)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "tracking", "track", "tidak cocok order_id="+in.OrderID)
			return models.BookingWithVehicle{}, errBookingNotFound
		}
		utils.LogError(s.RequestID, "tracking", "track", "lookup gagal", err)
		return models.BookingWithVehicle{}, domain.InternalError{Msg: "gagal melacak booking", Err: err}
	}

	out := models.BookingWithVehicle{Booking: b}
	if v, err := s.Vehicles.GetByID(ctx, b.VehicleID); err == nil {
		out.Vehicle = &v
	} else if !domain.IsNotFound(err) {
		utils.LogError(s.RequestID, "tracking", "track", "load vehicle gagal", err)
	}
	return out, nil
}
