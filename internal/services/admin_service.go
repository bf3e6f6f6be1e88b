package services

import (
	"context"
	"fmt"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

// AdminService groups the operator back-office actions on bookings and users.
type AdminService struct {
	Bookings  BookingStore
	Vehicles  VehicleStore
	Payments  PaymentStore
	Profiles  ProfileStore
	RequestID string
}

// BookingDetail is the operator view of one booking.
type BookingDetail struct {
	models.BookingWithVehicle
	Payments []models.Payment `json:"payments"`
}

func (s AdminService) ListBookings(ctx context.Context, f models.BookingFilter, page domain.Pagination) ([]models.BookingWithVehicle, domain.Pagination, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, page, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
	}
	page = page.Normalize(10, 100)
	list, total, err := s.Bookings.List(ctx, f, page)
	if err != nil {
		utils.LogError(s.RequestID, "admin", "list_bookings", "gagal memuat booking", err)
		return nil, page, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	page.Total = total
	return withVehicles(ctx, s.Vehicles, list), page, nil
}

func (s AdminService) GetBooking(ctx context.Context, id string) (BookingDetail, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return BookingDetail{}, err
		}
		return BookingDetail{}, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	rows := withVehicles(ctx, s.Vehicles, []models.Booking{b})
	out := BookingDetail{BookingWithVehicle: rows[0], Payments: []models.Payment{}}
	if s.Payments != nil {
		if list, err := s.Payments.ListByBookingID(ctx, id); err == nil {
			out.Payments = list
		} else {
			utils.LogError(s.RequestID, "admin", "get_booking", "load payments gagal", err)
		}
	}
	return out, nil
}

// UpdateBookingStatus applies an operator transition. Illegal moves are
// conflicts; setting the current status again is a no-op.
func (s AdminService) UpdateBookingStatus(ctx context.Context, id string, target models.BookingStatus) (models.Booking, error) {
	if !target.IsValid() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
	}
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	if b.Status == target {
		return b, nil
	}
	if !b.Status.CanTransitionTo(target) {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("tidak bisa mengubah status %s ke %s", b.Status, target),
			Err:      domain.ErrInvalidTransition,
		}
	}
	if err := s.Bookings.UpdateStatus(ctx, id, target); err != nil {
		utils.LogError(s.RequestID, "admin", "update_booking_status", "update gagal id="+id, err)
		return models.Booking{}, domain.InternalError{Msg: "gagal mengubah status", Err: err}
	}
	utils.LogEvent(s.RequestID, "admin", "update_booking_status", fmt.Sprintf("id=%s %s -> %s", id, b.Status, target))
	b.Status = target
	return b, nil
}

func (s AdminService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	list, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal memuat user", Err: err}
	}
	return list, nil
}

// ToggleUserRole flips customer <-> admin. An operator cannot demote themself.
func (s AdminService) ToggleUserRole(ctx context.Context, actor domain.Identity, userID string) (models.Profile, error) {
	if actor.UserID == userID {
		return models.Profile{}, domain.ForbiddenError{Msg: "tidak bisa mengubah role sendiri"}
	}
	p, err := s.Profiles.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Profile{}, err
		}
		return models.Profile{}, domain.InternalError{Msg: "gagal memuat user", Err: err}
	}
	next := models.ToggledRole(p.Role)
	if err := s.Profiles.UpdateRole(ctx, userID, next); err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal mengubah role", Err: err}
	}
	utils.LogEvent(s.RequestID, "admin", "toggle_role", fmt.Sprintf("user_id=%s %s -> %s", userID, p.Role, next))
	p.Role = next
	return p, nil
}
