package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"rentago/internal/domain/models"
)

type StatsRepository struct {
	DB *sql.DB
}

// Dashboard counts bookings, users and vehicles and sums settled payments.
// When both dates are set, bookings and revenue are limited to rows created
// within the inclusive range.
func (r StatsRepository) Dashboard(ctx context.Context, startDate, endDate string) (models.DashboardStats, error) {
	var out models.DashboardStats

	bookingQ := `SELECT COUNT(*) FROM bookings`
	revenueQ := `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='settlement'`
	args := []any{}
	if startDate != "" && endDate != "" {
		bookingQ += ` WHERE DATE(created_at) BETWEEN ? AND ?`
		revenueQ += ` AND DATE(created_at) BETWEEN ? AND ?`
		args = append(args, startDate, endDate)
	}

	if err := r.DB.QueryRowContext(ctx, bookingQ, args...).Scan(&out.Bookings); err != nil {
		return out, fmt.Errorf("count bookings: %w", err)
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&out.Users); err != nil {
		return out, fmt.Errorf("count profiles: %w", err)
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&out.Vehicles); err != nil {
		return out, fmt.Errorf("count vehicles: %w", err)
	}
	if err := r.DB.QueryRowContext(ctx, revenueQ, args...).Scan(&out.Revenue); err != nil {
		return out, fmt.Errorf("sum revenue: %w", err)
	}
	return out, nil
}
