package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	intdb "rentago/internal/db"
	"rentago/internal/domain"
	"rentago/internal/domain/models"
)

const vehicleColumns = `
	id, name, type, brand, model, year, price_per_day,
	description, image_url, images, is_available, features,
	transmission, seats, engine_cc, created_at, updated_at`

type VehicleRepository struct {
	DB *sql.DB
}

func scanVehicle(row rowScanner) (models.Vehicle, error) {
	var (
		v                 models.Vehicle
		vtype, trans      string
		desc, img         sql.NullString
		images, features  sql.NullString
		seats, engineCC   sql.NullInt64
	)
	if err := row.Scan(
		&v.ID,
		&v.Name,
		&vtype,
		&v.Brand,
		&v.Model,
		&v.Year,
		&v.PricePerDay,
		&desc,
		&img,
		&images,
		&v.IsAvailable,
		&features,
		&trans,
		&seats,
		&engineCC,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return models.Vehicle{}, err
	}
	v.Type = models.VehicleType(vtype)
	v.Transmission = models.Transmission(trans)
	v.Description = intdb.StringPtr(desc)
	v.ImageURL = intdb.StringPtr(img)
	v.Images = jsonStrings(images)
	v.Features = jsonStrings(features)
	v.Seats = intdb.IntPtr(seats)
	v.EngineCC = intdb.IntPtr(engineCC)
	return v, nil
}

// jsonStrings reads a nullable JSON array column; anything that is not an
// array of strings yields an empty list.
func jsonStrings(ns sql.NullString) []string {
	out := []string{}
	if !ns.Valid || !gjson.Valid(ns.String) {
		return out
	}
	for _, item := range gjson.Parse(ns.String).Array() {
		if item.Type == gjson.String && item.String() != "" {
			out = append(out, item.String())
		}
	}
	return out
}

func jsonArray(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r VehicleRepository) GetByID(ctx context.Context, id string) (models.Vehicle, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
		}
		return models.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// List returns the catalogue ordered by name with the total for paging.
func (r VehicleRepository) List(ctx context.Context, f models.VehicleFilter, page domain.Pagination) ([]models.Vehicle, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Type != "" {
		where = append(where, "type=?")
		args = append(args, f.Type)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(name LIKE ? OR brand LIKE ? OR model LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	if f.AvailableOnly {
		where = append(where, "is_available=1")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	listArgs := append(append([]any{}, args...), page.PageSize, page.Offset())
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE `+cond+` ORDER BY name ASC LIMIT ? OFFSET ?`,
		listArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func vehicleArgs(v models.Vehicle) ([]any, error) {
	images, err := jsonArray(v.Images)
	if err != nil {
		return nil, err
	}
	features, err := jsonArray(v.Features)
	if err != nil {
		return nil, err
	}
	return []any{
		v.Name,
		string(v.Type),
		v.Brand,
		v.Model,
		v.Year,
		v.PricePerDay,
		nullable(v.Description),
		nullable(v.ImageURL),
		images,
		v.IsAvailable,
		features,
		string(v.Transmission),
		intdb.NullIfZero(v.Seats),
		intdb.NullIfZero(v.EngineCC),
	}, nil
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) error {
	args, err := vehicleArgs(v)
	if err != nil {
		return fmt.Errorf("encode vehicle: %w", err)
	}
	args = append([]any{v.ID}, args...)
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO vehicles (
			id, name, type, brand, model, year, price_per_day,
			description, image_url, images, is_available, features,
			transmission, seats, engine_cc
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, args...)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	args, err := vehicleArgs(v)
	if err != nil {
		return fmt.Errorf("encode vehicle: %w", err)
	}
	args = append(args, v.ID)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles SET
			name=?, type=?, brand=?, model=?, year=?, price_per_day=?,
			description=?, image_url=?, images=?, is_available=?, features=?,
			transmission=?, seats=?, engine_cc=?, updated_at=NOW()
		WHERE id=?`, args...)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "vehicle", Err: sql.ErrNoRows}
	}
	return nil
}

// Delete removes a vehicle that no booking references. Bookings are history
// and are never deleted, so a referenced vehicle is a conflict.
func (r VehicleRepository) Delete(ctx context.Context, id string) error {
	var refs int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE vehicle_id=?`, id).Scan(&refs); err != nil {
		return fmt.Errorf("count vehicle bookings: %w", err)
	}
	if refs > 0 {
		return domain.ConflictError{Resource: "vehicle", Msg: "kendaraan masih memiliki booking"}
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "vehicle", Err: sql.ErrNoRows}
	}
	return nil
}
