package gateway

import "rentago/internal/domain/models"

// TransactionStatus is the payment provider's transaction vocabulary. It is
// kept apart from models.BookingStatus; MapTransactionStatus is the only
// place the two meet.
type TransactionStatus string

const (
	TxCapture    TransactionStatus = "capture"
	TxSettlement TransactionStatus = "settlement"
	TxPending    TransactionStatus = "pending"
	TxCancel     TransactionStatus = "cancel"
	TxDeny       TransactionStatus = "deny"
	TxExpire     TransactionStatus = "expire"
	TxRefund     TransactionStatus = "refund"
)

type FraudStatus string

const (
	FraudAccept    FraudStatus = "accept"
	FraudChallenge FraudStatus = "challenge"
	FraudDeny      FraudStatus = "deny"
)

// Outcome is what a gateway status means for the booking.
type Outcome struct {
	// Status is only meaningful when Change is true.
	Status       models.BookingStatus
	Change       bool
	ManualReview bool
}

// MapTransactionStatus is total: every input pair yields an outcome, and
// anything not listed leaves the booking untouched.
func MapTransactionStatus(tx TransactionStatus, fraud FraudStatus) Outcome {
	switch tx {
	case TxCapture:
		switch fraud {
		case FraudAccept:
			return Outcome{Status: models.BookingPaid, Change: true}
		case FraudChallenge:
			return Outcome{ManualReview: true}
		default:
			return Outcome{}
		}
	case TxSettlement:
		return Outcome{Status: models.BookingPaid, Change: true}
	case TxCancel, TxDeny, TxExpire:
		return Outcome{Status: models.BookingCancelled, Change: true}
	default:
		// pending, refund, and anything unknown
		return Outcome{}
	}
}
