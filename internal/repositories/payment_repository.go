package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "rentago/internal/db"
	"rentago/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

// Create stores a new checkout attempt.
func (r PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	var raw any
	if len(p.RawResponse) > 0 {
		raw = string(p.RawResponse)
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (
			id, booking_id, midtrans_transaction_id, midtrans_order_id,
			payment_type, amount, status, snap_token, raw_response
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ID,
		p.BookingID,
		nullable(p.MidtransTransactionID),
		nullable(p.MidtransOrderID),
		nullable(p.PaymentType),
		p.Amount,
		p.Status,
		nullable(p.SnapToken),
		raw,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// UpdateByBookingID writes a gateway notification onto every payment row of
// the booking. Empty transaction id / payment type keep the stored value.
func (r PaymentRepository) UpdateByBookingID(ctx context.Context, bookingID string, u models.PaymentUpdate) (int64, error) {
	var raw any
	if len(u.RawResponse) > 0 {
		raw = string(u.RawResponse)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE payments SET
			status=?,
			midtrans_transaction_id=COALESCE(?, midtrans_transaction_id),
			payment_type=COALESCE(?, payment_type),
			raw_response=COALESCE(?, raw_response),
			updated_at=NOW()
		WHERE booking_id=?`,
		u.Status,
		intdb.NullIfEmpty(u.TransactionID),
		intdb.NullIfEmpty(u.PaymentType),
		raw,
		bookingID,
	)
	if err != nil {
		return 0, fmt.Errorf("update payment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r PaymentRepository) ListByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, booking_id, midtrans_transaction_id, midtrans_order_id,
		       payment_type, amount, status, snap_token, created_at, updated_at
		FROM payments
		WHERE booking_id=?
		ORDER BY created_at DESC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var (
			p                     models.Payment
			trxID, orderID, ptype sql.NullString
			snap                  sql.NullString
		)
		if err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&trxID,
			&orderID,
			&ptype,
			&p.Amount,
			&p.Status,
			&snap,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.MidtransTransactionID = intdb.StringPtr(trxID)
		p.MidtransOrderID = intdb.StringPtr(orderID)
		p.PaymentType = intdb.StringPtr(ptype)
		p.SnapToken = intdb.StringPtr(snap)
		out = append(out, p)
	}
	return out, rows.Err()
}
