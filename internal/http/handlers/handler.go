package handlers

import (
	"database/sql"
	"time"

	"rentago/internal/cache"
	"rentago/internal/config"
	"rentago/internal/http/middleware"
	"rentago/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler holds the long-lived dependencies; services are built per request
// so they carry the request id into their logs.
type Handler struct {
	DB       *sql.DB
	Vehicles services.VehicleStore
	Bookings services.BookingStore
	Payments services.PaymentStore
	Promos   services.PromoStore
	Profiles services.ProfileStore
	Stats    services.StatsStore
	Gateway  services.PaymentGateway
	Idem     *cache.Idempotency
	Env      config.Env

	Now func() time.Time
}

func (h *Handler) bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Vehicles:  h.Vehicles,
		Bookings:  h.Bookings,
		Payments:  h.Payments,
		Promos:    h.Promos,
		Profiles:  h.Profiles,
		Gateway:   h.Gateway,
		AppURL:    h.Env.AppURL,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
}

func (h *Handler) quoteService(c *gin.Context) services.QuoteService {
	return services.QuoteService{
		Vehicles:  h.Vehicles,
		Promos:    h.Promos,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
}

func (h *Handler) paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Bookings:  h.Bookings,
		Payments:  h.Payments,
		Promos:    h.Promos,
		Gateway:   h.Gateway,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) trackingService(c *gin.Context) services.TrackingService {
	return services.TrackingService{
		Bookings:  h.Bookings,
		Vehicles:  h.Vehicles,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) vehicleService(c *gin.Context) services.VehicleService {
	return services.VehicleService{
		Vehicles:  h.Vehicles,
		Bookings:  h.Bookings,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
}

func (h *Handler) adminService(c *gin.Context) services.AdminService {
	return services.AdminService{
		Bookings:  h.Bookings,
		Vehicles:  h.Vehicles,
		Payments:  h.Payments,
		Profiles:  h.Profiles,
		RequestID: middleware.GetRequestID(c),
	}
}
