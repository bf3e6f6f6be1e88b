package handlers

import (
	"net/http"
	"strings"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/http/middleware"
	"rentago/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) promoService(c *gin.Context) services.PromoService {
	return services.PromoService{Promos: h.Promos, RequestID: middleware.GetRequestID(c)}
}

// ===== promos =====

func (h *Handler) ListPromos(c *gin.Context) {
	list, err := h.promoService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *Handler) GetPromo(c *gin.Context) {
	p, err := h.promoService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePromo(c *gin.Context) {
	var in models.PromoPayload
	if !bindPayload(c, &in) {
		return
	}
	p, err := h.promoService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePromo(c *gin.Context) {
	var in models.PromoPayload
	if !bindPayload(c, &in) {
		return
	}
	p, err := h.promoService(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePromo(c *gin.Context) {
	if err := h.promoService(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "promo dihapus"})
}

// ===== bookings =====

// AdminListBookings handles GET /api/admin/bookings?status=&q=&page=&limit=.
func (h *Handler) AdminListBookings(c *gin.Context) {
	f := models.BookingFilter{
		Status: models.BookingStatus(strings.TrimSpace(c.Query("status"))),
		Search: strings.TrimSpace(c.Query("q")),
	}
	if f.Status != "" && !f.Status.IsValid() {
		RespondDomainError(c, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"})
		return
	}
	list, page, err := h.adminService(c).ListBookings(c.Request.Context(), f, pagination(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(list, page))
}

func (h *Handler) AdminGetBooking(c *gin.Context) {
	b, err := h.adminService(c).GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type bookingStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

// AdminUpdateBookingStatus handles PATCH /api/admin/bookings/:id/status.
func (h *Handler) AdminUpdateBookingStatus(c *gin.Context) {
	var req bookingStatusRequest
	if !bindPayload(c, &req) {
		return
	}
	b, err := h.adminService(c).UpdateBookingStatus(c.Request.Context(), c.Param("id"),
		models.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status))))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ===== users =====

func (h *Handler) AdminListUsers(c *gin.Context) {
	list, err := h.adminService(c).ListUsers(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// AdminToggleUserRole handles POST /api/admin/users/:id/toggle-role.
func (h *Handler) AdminToggleUserRole(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	p, err := h.adminService(c).ToggleUserRole(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ===== dashboard =====

// AdminDashboard handles GET /api/admin/dashboard?start_date=&end_date=.
func (h *Handler) AdminDashboard(c *gin.Context) {
	svc := services.ReportsService{Stats: h.Stats, RequestID: middleware.GetRequestID(c)}
	stats, err := svc.GetDashboard(c.Request.Context(), services.DashboardFilter{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
