package services

import (
	"context"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

type DashboardFilter struct {
	StartDate string
	EndDate   string
}

type StatsStore interface {
	Dashboard(ctx context.Context, startDate, endDate string) (models.DashboardStats, error)
}

type ReportsService struct {
	Stats     StatsStore
	RequestID string
}

// GetDashboard returns the headline numbers, optionally limited to bookings
// and payments created in [start, end].
func (s ReportsService) GetDashboard(ctx context.Context, f DashboardFilter) (models.DashboardStats, error) {
	if f.StartDate != "" || f.EndDate != "" {
		if _, _, err := parseRange(f.StartDate, f.EndDate); err != nil {
			return models.DashboardStats{}, err
		}
	}
	stats, err := s.Stats.Dashboard(ctx, f.StartDate, f.EndDate)
	if err != nil {
		utils.LogError(s.RequestID, "reports", "dashboard", "gagal menghitung statistik", err)
		return models.DashboardStats{}, domain.InternalError{Msg: "gagal memuat laporan", Err: err}
	}
	return stats, nil
}
