package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/gateway"
	"rentago/internal/utils"
)

// PaymentService menerima notifikasi gateway dan menyelaraskan payment + booking.
type PaymentService struct {
	Bookings  BookingStore
	Payments  PaymentStore
	Promos    PromoStore
	Gateway   PaymentGateway
	RequestID string
}

// NotificationResult summarizes what a notification did, for logging and tests.
type NotificationResult struct {
	OrderID           string               `json:"order_id"`
	TransactionStatus string               `json:"transaction_status"`
	BookingStatus     models.BookingStatus `json:"booking_status"`
	BookingChanged    bool                 `json:"booking_changed"`
	ManualReview      bool                 `json:"manual_review"`
}

type notification struct {
	OrderID      string
	StatusCode   string
	GrossAmount  string
	SignatureKey string
}

func parseNotification(body []byte) (notification, error) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return notification{}, domain.ValidationError{Field: "body", Msg: "payload notifikasi tidak valid"}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return notification{}, domain.ValidationError{Field: "body", Msg: "payload notifikasi tidak valid"}
	}
	n := notification{
		OrderID:      strings.TrimSpace(doc.Get("order_id").String()),
		StatusCode:   doc.Get("status_code").String(),
		GrossAmount:  doc.Get("gross_amount").String(),
		SignatureKey: doc.Get("signature_key").String(),
	}
	if n.OrderID == "" {
		return notification{}, domain.ValidationError{Field: "order_id", Msg: "order_id wajib ada"}
	}
	return n, nil
}

// HandleNotification verifies a gateway notification, asks the gateway for
// the authoritative status, and applies it. Once the booking is found, store
// failures are logged and the notification still counts as handled, so the
// gateway does not keep redelivering it.
func (s PaymentService) HandleNotification(ctx context.Context, body []byte) (NotificationResult, error) {
	n, err := parseNotification(body)
	if err != nil {
		utils.LogWarn(s.RequestID, "payment", "webhook", "payload ditolak: "+err.Error())
		return NotificationResult{}, err
	}
	if !s.Gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		utils.LogWarn(s.RequestID, "payment", "webhook", "signature tidak cocok order_id="+n.OrderID)
		return NotificationResult{}, domain.ValidationError{Field: "signature_key", Msg: "signature tidak valid"}
	}

	status, err := s.Gateway.TransactionStatus(ctx, n.OrderID)
	if err != nil {
		utils.LogError(s.RequestID, "payment", "webhook", "cek status gateway gagal order_id="+n.OrderID, err)
		return NotificationResult{}, domain.GatewayError{Op: "transaction_status", Err: err}
	}
	orderID := n.OrderID
	if status.OrderID != "" {
		orderID = status.OrderID
	}

	outcome := gateway.MapTransactionStatus(status.TransactionStatus, status.FraudStatus)
	res := NotificationResult{
		OrderID:           orderID,
		TransactionStatus: string(status.TransactionStatus),
		ManualReview:      outcome.ManualReview,
	}

	booking, err := s.Bookings.GetByOrderID(ctx, orderID)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogWarn(s.RequestID, "payment", "webhook", "booking tidak ditemukan order_id="+orderID)
			return res, err
		}
		utils.LogError(s.RequestID, "payment", "webhook", "load booking gagal order_id="+orderID, err)
		return res, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	res.BookingStatus = booking.Status

	update := models.PaymentUpdate{
		Status:        string(status.TransactionStatus),
		TransactionID: status.TransactionID,
		PaymentType:   status.PaymentType,
		RawResponse:   status.Raw,
	}
	if affected, err := s.Payments.UpdateByBookingID(ctx, booking.ID, update); err != nil {
		utils.LogError(s.RequestID, "payment", "webhook", "update payment gagal order_id="+orderID, err)
	} else if affected == 0 {
		utils.LogWarn(s.RequestID, "payment", "webhook", "tidak ada payment untuk booking_id="+booking.ID)
	}

	if outcome.ManualReview {
		utils.LogWarn(s.RequestID, "payment", "webhook", "transaksi challenge, perlu review manual order_id="+orderID)
	}
	if !outcome.Change {
		utils.LogEvent(s.RequestID, "payment", "webhook", fmt.Sprintf("order_id=%s tx=%s booking tetap %s", orderID, status.TransactionStatus, booking.Status))
		return res, nil
	}

	if settled(booking.Status, outcome.Status) {
		utils.LogEvent(s.RequestID, "payment", "webhook", fmt.Sprintf("order_id=%s sudah %s, abaikan %s", orderID, booking.Status, outcome.Status))
		return res, nil
	}
	if err := s.Bookings.UpdateStatus(ctx, booking.ID, outcome.Status); err != nil {
		utils.LogError(s.RequestID, "payment", "webhook", "update booking gagal order_id="+orderID, err)
		return res, nil
	}
	res.BookingStatus = outcome.Status
	res.BookingChanged = true
	utils.LogEvent(s.RequestID, "payment", "webhook", fmt.Sprintf("order_id=%s %s -> %s", orderID, booking.Status, outcome.Status))

	if outcome.Status == models.BookingPaid && booking.DiscountAmount > 0 && booking.PromoCode != nil && *booking.PromoCode != "" && s.Promos != nil {
		if err := s.Promos.IncrementUsage(ctx, *booking.PromoCode); err != nil {
			utils.LogError(s.RequestID, "payment", "webhook", "increment promo gagal code="+*booking.PromoCode, err)
		}
	}
	return res, nil
}

// settled reports whether the stored status already covers target.
// A completed rental is never rewritten.
func settled(current, target models.BookingStatus) bool {
	if current == target || current == models.BookingCompleted {
		return true
	}
	return target == models.BookingPaid && current.HasBeenPaid()
}
