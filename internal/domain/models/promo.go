package models

import "time"

// Promo is a flat-amount discount code.
type Promo struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Description    *string    `json:"description"`
	DiscountAmount int64      `json:"discount_amount"`
	MinBookingDays int        `json:"min_booking_days"`
	UsageLimit     *int       `json:"usage_limit"`
	UsedCount      int        `json:"used_count"`
	IsActive       bool       `json:"is_active"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	CreatedAt      time.Time  `json:"created_at"`
}

// EligibleFor reports whether the promo applies to a booking of dayCount days at now.
func (p Promo) EligibleFor(dayCount int, now time.Time) bool {
	if !p.IsActive || p.DiscountAmount <= 0 {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	if p.MinBookingDays > dayCount {
		return false
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return false
	}
	return true
}

// PromoPayload is the operator form for create/update.
type PromoPayload struct {
	Code           string     `json:"code" form:"code" binding:"required,min=3,max=50"`
	Description    string     `json:"description" form:"description" binding:"required,min=10"`
	DiscountAmount int64      `json:"discount_amount" form:"discount_amount" binding:"required,gte=1000"`
	MinBookingDays int        `json:"min_booking_days" form:"min_booking_days" binding:"required,gte=1"`
	UsageLimit     *int       `json:"usage_limit" form:"usage_limit" binding:"omitempty,gte=1"`
	IsActive       *bool      `json:"is_active" form:"is_active"`
	ValidFrom      *time.Time `json:"valid_from" form:"valid_from" time_format:"2006-01-02"`
	ValidUntil     *time.Time `json:"valid_until" form:"valid_until" time_format:"2006-01-02"`
}
