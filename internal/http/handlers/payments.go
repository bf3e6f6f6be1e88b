package handlers

import (
	"io"
	"net/http"

	"rentago/internal/domain"
	"rentago/internal/http/middleware"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// PaymentWebhook handles POST /api/payments/webhook from the gateway.
// A gateway status-lookup failure answers 500 so the notification is redelivered.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "gagal membaca payload", nil)
		return
	}

	res, err := h.paymentService(c).HandleNotification(c.Request.Context(), body)
	if err != nil {
		if domain.IsGateway(err) {
			utils.LogError(middleware.GetRequestID(c), "payment", "webhook", "status gateway tidak tersedia", err)
			respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payment", "webhook",
		"order_id="+res.OrderID+" tx="+res.TransactionStatus+" booking="+string(res.BookingStatus))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
