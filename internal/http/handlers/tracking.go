package handlers

import (
	"net/http"
	"strings"

	"rentago/internal/http/middleware"
	"rentago/internal/services"

	"github.com/gin-gonic/gin"
)

// TrackBooking handles POST /api/track for guests.
func (h *Handler) TrackBooking(c *gin.Context) {
	var in services.TrackInput
	if !bindPayload(c, &in) {
		return
	}
	b, err := h.trackingService(c).Track(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// BookingInvoicePDF handles GET /api/track/:order_id/invoice?phone=.
func (h *Handler) BookingInvoicePDF(c *gin.Context) {
	svc := services.DocsService{
		Tracking:  h.trackingService(c),
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
	pdfBytes, filename, err := svc.GenerateInvoice(c.Request.Context(),
		strings.TrimSpace(c.Param("order_id")), strings.TrimSpace(c.Query("phone")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
