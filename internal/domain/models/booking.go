package models

import "time"

// BookingStatus is the internal booking lifecycle value, stored as a flat string.
type BookingStatus string

const (
	BookingPending         BookingStatus = "pending"
	BookingAwaitingPayment BookingStatus = "awaiting_payment"
	BookingPaid            BookingStatus = "paid"
	BookingConfirmed       BookingStatus = "confirmed"
	BookingActive          BookingStatus = "active"
	BookingCompleted       BookingStatus = "completed"
	BookingCancelled       BookingStatus = "cancelled"
	BookingExpired         BookingStatus = "expired"
)

// validTransitions is the operator-facing state machine.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:         {BookingPaid, BookingConfirmed, BookingCancelled},
	BookingAwaitingPayment: {BookingPaid, BookingConfirmed, BookingCancelled},
	BookingPaid:            {BookingConfirmed, BookingCancelled},
	BookingConfirmed:       {BookingActive, BookingCancelled},
	BookingActive:          {BookingCompleted, BookingCancelled},
	BookingCompleted:       {},
	BookingCancelled:       {},
	BookingExpired:         {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return !ok || len(allowed) == 0
}

// HasBeenPaid reports whether the booking already went through payment.
func (s BookingStatus) HasBeenPaid() bool {
	switch s {
	case BookingPaid, BookingConfirmed, BookingActive, BookingCompleted:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status blocks its vehicle's dates.
func (s BookingStatus) Occupies() bool {
	return s != BookingCancelled && s != BookingExpired
}

// NonOccupyingStatuses are excluded from availability checks.
var NonOccupyingStatuses = []BookingStatus{BookingCancelled, BookingExpired}

// Booking is a reservation of one vehicle for an inclusive date range.
// Exactly one of UserID or the guest contact fields is populated.
type Booking struct {
	ID               string        `json:"id"`
	OrderID          string        `json:"order_id"`
	UserID           *string       `json:"user_id"`
	GuestName        *string       `json:"guest_name"`
	GuestPhone       *string       `json:"guest_phone"`
	GuestEmail       *string       `json:"guest_email"`
	VehicleID        string        `json:"vehicle_id"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	TotalDays        int           `json:"total_days"`
	TotalPrice       int64         `json:"total_price"`
	DiscountAmount   int64         `json:"discount_amount"`
	FinalPrice       int64         `json:"final_price"`
	Status           BookingStatus `json:"status"`
	PickupLocation   *string       `json:"pickup_location"`
	DeliveryLocation *string       `json:"delivery_location"`
	Notes            *string       `json:"notes"`
	PromoCode        *string       `json:"promo_code"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsGuest reports whether the booking was made without an authenticated identity.
func (b Booking) IsGuest() bool {
	return b.UserID == nil || *b.UserID == ""
}

// BookingWithVehicle is the tracking/listing view of a booking.
type BookingWithVehicle struct {
	Booking
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// BookingFilter narrows admin and owner listings.
type BookingFilter struct {
	Status BookingStatus
	UserID string
	Search string
}
