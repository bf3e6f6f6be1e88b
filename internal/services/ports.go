package services

import (
	"context"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/gateway"
)

// Store interfaces are satisfied by the MySQL repositories in
// internal/repositories and by in-memory fakes in tests.

type VehicleStore interface {
	GetByID(ctx context.Context, id string) (models.Vehicle, error)
	List(ctx context.Context, f models.VehicleFilter, page domain.Pagination) ([]models.Vehicle, int, error)
	Create(ctx context.Context, v models.Vehicle) error
	Update(ctx context.Context, v models.Vehicle) error
	Delete(ctx context.Context, id string) error
}

type BookingStore interface {
	CountOverlapping(ctx context.Context, vehicleID, start, end string) (int, error)
	CreateIfAvailable(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (models.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (models.Booking, error)
	FindGuestBooking(ctx context.Context, orderID, phone string) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	List(ctx context.Context, f models.BookingFilter, page domain.Pagination) ([]models.Booking, int, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	UpdateByBookingID(ctx context.Context, bookingID string, u models.PaymentUpdate) (int64, error)
	ListByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error)
}

type PromoStore interface {
	FindByCode(ctx context.Context, code string) (models.Promo, error)
	GetByID(ctx context.Context, id string) (models.Promo, error)
	List(ctx context.Context) ([]models.Promo, error)
	Create(ctx context.Context, p models.Promo) error
	Update(ctx context.Context, p models.Promo) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, code string) error
}

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (models.Profile, error)
	EnsureProfile(ctx context.Context, id domain.Identity) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	UpdateRole(ctx context.Context, id, role string) error
}

// PaymentGateway is the hosted-checkout provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req gateway.SessionRequest) (gateway.Session, error)
	TransactionStatus(ctx context.Context, orderID string) (gateway.StatusResult, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}
