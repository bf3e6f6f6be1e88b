package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentago/internal/domain/models"
)

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		tx     TransactionStatus
		fraud  FraudStatus
		want   models.BookingStatus
		change bool
		review bool
	}{
		{TxCapture, FraudAccept, models.BookingPaid, true, false},
		{TxCapture, FraudChallenge, "", false, true},
		{TxCapture, FraudDeny, "", false, false},
		{TxCapture, "", "", false, false},
		{TxSettlement, "", models.BookingPaid, true, false},
		{TxCancel, "", models.BookingCancelled, true, false},
		{TxDeny, FraudDeny, models.BookingCancelled, true, false},
		{TxExpire, "", models.BookingCancelled, true, false},
		{TxPending, "", "", false, false},
		{TxRefund, "", "", false, false},
		{"authorize", FraudAccept, "", false, false},
	}
	for _, tc := range cases {
		got := MapTransactionStatus(tc.tx, tc.fraud)
		assert.Equal(t, tc.change, got.Change, "%s/%s", tc.tx, tc.fraud)
		assert.Equal(t, tc.review, got.ManualReview, "%s/%s", tc.tx, tc.fraud)
		if tc.change {
			assert.Equal(t, tc.want, got.Status, "%s/%s", tc.tx, tc.fraud)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("SB-server-key", "ORD-ABC123", "200", "900000.00")
	assert.Len(t, sig, 128)
	assert.True(t, VerifySignature("SB-server-key", "ORD-ABC123", "200", "900000.00", sig))
	assert.False(t, VerifySignature("SB-server-key", "ORD-ABC123", "200", "1.00", sig))
	assert.False(t, VerifySignature("other-key", "ORD-ABC123", "200", "900000.00", sig))
	assert.False(t, VerifySignature("SB-server-key", "ORD-ABC123", "200", "900000.00", ""))
}

func TestRawJSON(t *testing.T) {
	assert.JSONEq(t, `{"transaction_status":"settlement"}`,
		string(rawJSON("ORD-ABC123", map[string]string{"transaction_status": "settlement"})))
	assert.Nil(t, rawJSON("ORD-ABC123", make(chan int)))
}
