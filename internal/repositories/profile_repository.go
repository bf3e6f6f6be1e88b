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

type ProfileRepository struct {
	DB *sql.DB
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var (
		p     models.Profile
		phone sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FullName, &phone, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Profile{}, err
	}
	p.Phone = intdb.StringPtr(phone)
	return p, nil
}

func (r ProfileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, full_name, phone, role, created_at, updated_at
		FROM profiles WHERE id=? LIMIT 1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, domain.NotFoundError{Resource: "profile", Err: err}
		}
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// EnsureProfile creates the customer profile for a first-time identity and
// returns the stored row. An existing profile is never overwritten.
func (r ProfileRepository) EnsureProfile(ctx context.Context, id domain.Identity) (models.Profile, error) {
	_, err := r.DB.ExecContext(ctx, `
		INSERT IGNORE INTO profiles (id, full_name, phone, role)
		VALUES (?,?,?,?)`,
		id.UserID,
		id.FullName,
		intdb.NullIfEmpty(id.Phone),
		models.RoleCustomer,
	)
	if err != nil {
		return models.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}
	return r.GetByID(ctx, id.UserID)
}

func (r ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, full_name, phone, role, created_at, updated_at
		FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r ProfileRepository) UpdateRole(ctx context.Context, id, role string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE profiles SET role=?, updated_at=NOW() WHERE id=?`, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "profile", Err: sql.ErrNoRows}
	}
	return nil
}
