package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "rentago/internal/db"
	"rentago/internal/domain"
	"rentago/internal/domain/models"
)

const bookingColumns = `
	id,
	order_id,
	user_id,
	guest_name,
	guest_phone,
	guest_email,
	vehicle_id,
	DATE_FORMAT(start_date, '%Y-%m-%d'),
	DATE_FORMAT(end_date, '%Y-%m-%d'),
	total_days,
	total_price,
	discount_amount,
	final_price,
	status,
	pickup_location,
	delivery_location,
	notes,
	promo_code,
	created_at,
	updated_at`

// overlapPredicate is the inclusive closed-interval overlap test:
// existing.start <= requested.end AND existing.end >= requested.start.
const overlapPredicate = `vehicle_id=? AND status NOT IN (?, ?) AND start_date <= ? AND end_date >= ?`

type BookingRepository struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b                                       models.Booking
		userID, guestName, guestPhone, guestMail sql.NullString
		pickup, delivery, notes, promo           sql.NullString
		status                                   string
	)
	if err := row.Scan(
		&b.ID,
		&b.OrderID,
		&userID,
		&guestName,
		&guestPhone,
		&guestMail,
		&b.VehicleID,
		&b.StartDate,
		&b.EndDate,
		&b.TotalDays,
		&b.TotalPrice,
		&b.DiscountAmount,
		&b.FinalPrice,
		&status,
		&pickup,
		&delivery,
		&notes,
		&promo,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return models.Booking{}, err
	}
	b.UserID = intdb.StringPtr(userID)
	b.GuestName = intdb.StringPtr(guestName)
	b.GuestPhone = intdb.StringPtr(guestPhone)
	b.GuestEmail = intdb.StringPtr(guestMail)
	b.PickupLocation = intdb.StringPtr(pickup)
	b.DeliveryLocation = intdb.StringPtr(delivery)
	b.Notes = intdb.StringPtr(notes)
	b.PromoCode = intdb.StringPtr(promo)
	b.Status = models.BookingStatus(status)
	return b, nil
}

func overlapArgs(vehicleID, start, end string) []any {
	return []any{
		vehicleID,
		string(models.NonOccupyingStatuses[0]),
		string(models.NonOccupyingStatuses[1]),
		end,
		start,
	}
}

// CountOverlapping counts bookings that occupy the vehicle on any day of [start, end].
func (r BookingRepository) CountOverlapping(ctx context.Context, vehicleID, start, end string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE `+overlapPredicate,
		overlapArgs(vehicleID, start, end)...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return n, nil
}

// CreateIfAvailable inserts the booking while holding a row lock on its
// vehicle, re-checking the overlap inside the same transaction. Concurrent
// submissions for one vehicle serialize on that lock.
func (r BookingRepository) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id=? FOR UPDATE`, b.VehicleID).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "vehicle", Err: err}
		}
		return fmt.Errorf("lock vehicle: %w", err)
	}

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE `+overlapPredicate,
		overlapArgs(b.VehicleID, b.StartDate, b.EndDate)...,
	).Scan(&n); err != nil {
		return fmt.Errorf("recheck overlap: %w", err)
	}
	if n > 0 {
		return domain.ConflictError{Resource: "booking", Msg: "tanggal tidak tersedia", Err: domain.ErrDatesUnavailable}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (
			id, order_id, user_id, guest_name, guest_phone, guest_email,
			vehicle_id, start_date, end_date, total_days,
			total_price, discount_amount, final_price, status,
			pickup_location, delivery_location, notes, promo_code
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID,
		b.OrderID,
		nullable(b.UserID),
		nullable(b.GuestName),
		nullable(b.GuestPhone),
		nullable(b.GuestEmail),
		b.VehicleID,
		b.StartDate,
		b.EndDate,
		b.TotalDays,
		b.TotalPrice,
		b.DiscountAmount,
		b.FinalPrice,
		string(b.Status),
		nullable(b.PickupLocation),
		nullable(b.DeliveryLocation),
		nullable(b.Notes),
		nullable(b.PromoCode),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err, "uniq_bookings_order_id") {
			return domain.ConflictError{Resource: "booking", Msg: "order id sudah dipakai", Err: domain.ErrDuplicateOrderID}
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

func (r BookingRepository) getOne(ctx context.Context, where string, args ...any) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+` LIMIT 1`, args...)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	return r.getOne(ctx, `id=?`, id)
}

func (r BookingRepository) GetByOrderID(ctx context.Context, orderID string) (models.Booking, error) {
	return r.getOne(ctx, `order_id=?`, orderID)
}

// FindGuestBooking matches order id and guest phone exactly. The bookings
// table uses a binary collation, so both comparisons are case-sensitive.
func (r BookingRepository) FindGuestBooking(ctx context.Context, orderID, phone string) (models.Booking, error) {
	return r.getOne(ctx, `order_id=? AND guest_phone=?`, orderID, phone)
}

// UpdateStatus sets the flat status string. Repeating the same write is harmless.
func (r BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking", Err: sql.ErrNoRows}
	}
	return nil
}

// List returns bookings newest first, with the total count for paging.
func (r BookingRepository) List(ctx context.Context, f models.BookingFilter, page domain.Pagination) ([]models.Booking, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, string(f.Status))
	}
	if f.UserID != "" {
		where = append(where, "user_id=?")
		args = append(args, f.UserID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where = append(where, "(order_id LIKE ? OR guest_name LIKE ? OR guest_phone LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	listArgs := append(append([]any{}, args...), page.PageSize, page.Offset())
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		listArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return intdb.NullIfEmpty(*p)
}
