package models

import (
	"encoding/json"
	"time"
)

// Payment is one gateway checkout attempt for a booking. Status keeps the
// gateway's own vocabulary for audit.
type Payment struct {
	ID                    string          `json:"id"`
	BookingID             string          `json:"booking_id"`
	MidtransTransactionID *string         `json:"midtrans_transaction_id"`
	MidtransOrderID       *string         `json:"midtrans_order_id"`
	PaymentType           *string         `json:"payment_type"`
	Amount                int64           `json:"amount"`
	Status                string          `json:"status"`
	SnapToken             *string         `json:"snap_token"`
	RawResponse           json.RawMessage `json:"raw_response,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PaymentUpdate is what a gateway notification writes back.
type PaymentUpdate struct {
	Status        string
	TransactionID string
	PaymentType   string
	RawResponse   json.RawMessage
}
