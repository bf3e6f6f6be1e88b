package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "rentago/internal/db"
	"rentago/internal/domain"
	"rentago/internal/domain/models"
)

const promoColumns = `
	id, code, description, discount_amount, min_booking_days,
	usage_limit, used_count, is_active, valid_from, valid_until, created_at`

type PromoRepository struct {
	DB *sql.DB
}

func scanPromo(row rowScanner) (models.Promo, error) {
	var (
		p          models.Promo
		desc       sql.NullString
		limit      sql.NullInt64
		from, till sql.NullTime
	)
	if err := row.Scan(
		&p.ID,
		&p.Code,
		&desc,
		&p.DiscountAmount,
		&p.MinBookingDays,
		&limit,
		&p.UsedCount,
		&p.IsActive,
		&from,
		&till,
		&p.CreatedAt,
	); err != nil {
		return models.Promo{}, err
	}
	p.Description = intdb.StringPtr(desc)
	p.UsageLimit = intdb.IntPtr(limit)
	if from.Valid {
		t := from.Time
		p.ValidFrom = &t
	}
	if till.Valid {
		t := till.Time
		p.ValidUntil = &t
	}
	return p, nil
}

func (r PromoRepository) getOne(ctx context.Context, where string, arg any) (models.Promo, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+promoColumns+` FROM promos WHERE `+where+` LIMIT 1`, arg)
	p, err := scanPromo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Promo{}, domain.NotFoundError{Resource: "promo", Err: err}
		}
		return models.Promo{}, fmt.Errorf("get promo: %w", err)
	}
	return p, nil
}

// FindByCode looks up a promo by its normalized (uppercase) code.
func (r PromoRepository) FindByCode(ctx context.Context, code string) (models.Promo, error) {
	return r.getOne(ctx, `code=?`, code)
}

func (r PromoRepository) GetByID(ctx context.Context, id string) (models.Promo, error) {
	return r.getOne(ctx, `id=?`, id)
}

func (r PromoRepository) List(ctx context.Context) ([]models.Promo, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+promoColumns+` FROM promos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	defer rows.Close()

	out := []models.Promo{}
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func promoArgs(p models.Promo) []any {
	var from, till any
	if p.ValidFrom != nil {
		from = *p.ValidFrom
	}
	if p.ValidUntil != nil {
		till = *p.ValidUntil
	}
	return []any{
		p.Code,
		nullable(p.Description),
		p.DiscountAmount,
		p.MinBookingDays,
		intdb.NullIfZero(p.UsageLimit),
		p.IsActive,
		from,
		till,
	}
}

func duplicatePromo(err error) error {
	if intdb.IsDuplicateKey(err, "uniq_promos_code") {
		return domain.ConflictError{Resource: "promo", Msg: "kode promo sudah ada", Err: domain.ErrDuplicatePromoCode}
	}
	return nil
}

func (r PromoRepository) Create(ctx context.Context, p models.Promo) error {
	args := append([]any{p.ID}, promoArgs(p)...)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO promos (
			id, code, description, discount_amount, min_booking_days,
			usage_limit, is_active, valid_from, valid_until
		) VALUES (?,?,?,?,?,?,?,?,?)`, args...)
	if err != nil {
		if dup := duplicatePromo(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert promo: %w", err)
	}
	return nil
}

// Update rewrites the operator-editable fields; used_count is left alone.
func (r PromoRepository) Update(ctx context.Context, p models.Promo) error {
	args := append(promoArgs(p), p.ID)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE promos SET
			code=?, description=?, discount_amount=?, min_booking_days=?,
			usage_limit=?, is_active=?, valid_from=?, valid_until=?
		WHERE id=?`, args...)
	if err != nil {
		if dup := duplicatePromo(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update promo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "promo", Err: sql.ErrNoRows}
	}
	return nil
}

func (r PromoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM promos WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete promo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "promo", Err: sql.ErrNoRows}
	}
	return nil
}

// IncrementUsage bumps used_count for the code.
func (r PromoRepository) IncrementUsage(ctx context.Context, code string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE promos SET used_count = used_count + 1 WHERE code=?`, code)
	if err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "promo", Err: sql.ErrNoRows}
	}
	return nil
}
