package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rentago/internal/cache"
	"rentago/internal/domain"
	"rentago/internal/http/middleware"
	"rentago/internal/services"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// idempotencyScope keys guest requests by their contact details.
func idempotencyScope(requester *domain.Identity, in services.BookingInput) string {
	if requester != nil {
		return "booking:" + requester.UserID
	}
	contact := strings.ToLower(strings.TrimSpace(in.GuestPhone)) + "|" + strings.ToLower(strings.TrimSpace(in.GuestEmail))
	sum := sha256.Sum256([]byte(contact))
	return "booking:guest:" + hex.EncodeToString(sum[:8])
}

// SubmitBooking handles POST /api/bookings (guest or authenticated).
func (h *Handler) SubmitBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindPayload(c, &in) {
		return
	}

	var requester *domain.Identity
	if id, ok := middleware.GetIdentity(c); ok {
		requester = &id
	}

	reqID := middleware.GetRequestID(c)
	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	scope := idempotencyScope(requester, in)
	idem := h.Idem
	if key == "" {
		idem = nil
	}
	if idem != nil {
		cached, err := idem.Reserve(c.Request.Context(), scope, key)
		switch {
		case errors.Is(err, cache.ErrInFlight):
			respondError(c, http.StatusConflict, "request_in_progress", "permintaan yang sama masih diproses", nil)
			return
		case err != nil:
			utils.LogError(reqID, "booking", "idempotency", "reserve gagal, lanjut tanpa idempotency", err)
			idem = nil
		case cached != nil:
			utils.LogEvent(reqID, "booking", "idempotency", "replay response key="+key)
			c.Data(http.StatusCreated, "application/json; charset=utf-8", cached)
			return
		}
	}

	res, err := h.bookingService(c).Submit(c.Request.Context(), requester, in)
	if err != nil {
		if idem != nil {
			if rerr := idem.Release(c.Request.Context(), scope, key); rerr != nil {
				utils.LogError(reqID, "booking", "idempotency", "release gagal key="+key, rerr)
			}
		}
		RespondDomainError(c, err)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "gagal menyusun response", Err: err})
		return
	}
	if idem != nil {
		if err := idem.Complete(c.Request.Context(), scope, key, body); err != nil {
			utils.LogError(reqID, "booking", "idempotency", "simpan response gagal key="+key, err)
		}
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}

// QuoteBooking handles POST /api/bookings/quote. Nothing is persisted.
func (h *Handler) QuoteBooking(c *gin.Context) {
	var in services.QuoteInput
	if !bindPayload(c, &in) {
		return
	}
	q, err := h.quoteService(c).Quote(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// MyBookings handles GET /api/me/bookings.
func (h *Handler) MyBookings(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	list, page, err := h.bookingService(c).ListMine(c.Request.Context(), id, pagination(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(list, page))
}

// Me handles GET /api/me: the caller's profile, created on first sight.
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	svc := services.ProfileService{Profiles: h.Profiles, RequestID: middleware.GetRequestID(c)}
	p, err := svc.Resolve(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "email": id.Email})
}
