package services

import (
	"context"
	"time"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

// Quote is the price breakdown of a rental.
type Quote struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	DayCount   int    `json:"day_count"`
	DailyRate  int64  `json:"daily_rate"`
	Subtotal   int64  `json:"subtotal"`
	Discount   int64  `json:"discount"`
	FinalTotal int64  `json:"final_total"`
	PromoCode  string `json:"promo_code,omitempty"`
}

// CalculatePrice prices an inclusive date range. Promo problems never fail
// the calculation; an ineligible promo simply yields no discount.
func CalculatePrice(start, end time.Time, dailyRate int64, promo *models.Promo, now time.Time) (Quote, error) {
	days := utils.DaysBetween(start, end) + 1
	if days < 1 {
		return Quote{}, domain.ValidationError{
			Field: "end_date",
			Msg:   "tanggal selesai tidak boleh sebelum tanggal mulai",
			Err:   domain.ErrInvalidDateRange,
		}
	}
	if dailyRate <= 0 {
		return Quote{}, domain.ValidationError{Field: "price_per_day", Msg: "harga per hari tidak valid"}
	}

	q := Quote{
		StartDate: utils.FormatDate(start),
		EndDate:   utils.FormatDate(end),
		DayCount:  days,
		DailyRate: dailyRate,
		Subtotal:  int64(days) * dailyRate,
	}
	if promo != nil && promo.EligibleFor(days, now) {
		q.Discount = promo.DiscountAmount
		q.PromoCode = promo.Code
	}
	q.FinalTotal = max(0, q.Subtotal-q.Discount)
	return q, nil
}

// resolvePromo turns a code into a promo, or nil. Lookup failures degrade to
// "no promo" and are only logged.
func resolvePromo(ctx context.Context, promos PromoStore, code, requestID string) *models.Promo {
	code = utils.NormalizePromoCode(code)
	if code == "" || promos == nil {
		return nil
	}
	p, err := promos.FindByCode(ctx, code)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(requestID, "pricing", "resolve_promo", "kode promo tidak dikenal: "+code)
		} else {
			utils.LogError(requestID, "pricing", "resolve_promo", "lookup promo gagal", err)
		}
		return nil
	}
	return &p
}

// QuoteService prices a rental without persisting anything.
type QuoteService struct {
	Vehicles  VehicleStore
	Promos    PromoStore
	RequestID string
	Now       func() time.Time
}

type QuoteInput struct {
	VehicleID string `json:"vehicle_id" form:"vehicle_id" binding:"required"`
	StartDate string `json:"start_date" form:"start_date" binding:"required,isodate"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required,isodate"`
	PromoCode string `json:"promo_code" form:"promo_code"`
}

func (s QuoteService) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return Quote{}, err
	}
	vehicle, err := s.Vehicles.GetByID(ctx, in.VehicleID)
	if err != nil {
		if domain.IsNotFound(err) {
			return Quote{}, err
		}
		return Quote{}, domain.InternalError{Msg: "gagal memuat kendaraan", Err: err}
	}
	promo := resolvePromo(ctx, s.Promos, in.PromoCode, s.RequestID)
	return CalculatePrice(start, end, vehicle.PricePerDay, promo, nowOr(s.Now))
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	fields := map[string][]string{}
	start, err := utils.ParseDate(startStr)
	if err != nil {
		fields["start_date"] = append(fields["start_date"], "format tanggal harus YYYY-MM-DD")
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		fields["end_date"] = append(fields["end_date"], "format tanggal harus YYYY-MM-DD")
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, domain.ValidationError{Msg: "tanggal tidak valid", Fields: fields}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ValidationError{
			Field: "end_date",
			Msg:   "tanggal selesai tidak boleh sebelum tanggal mulai",
			Err:   domain.ErrInvalidDateRange,
		}
	}
	return start, end, nil
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return utils.NowUTC()
}
