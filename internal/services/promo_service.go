package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

type PromoService struct {
	Promos    PromoStore
	RequestID string
}

func validatePromo(p models.PromoPayload) error {
	fields := map[string][]string{}
	if len(utils.NormalizePromoCode(p.Code)) < 3 {
		fields["code"] = append(fields["code"], "kode minimal 3 karakter")
	}
	if len(strings.TrimSpace(p.Description)) < 10 {
		fields["description"] = append(fields["description"], "deskripsi minimal 10 karakter")
	}
	if p.DiscountAmount < 1000 {
		fields["discount_amount"] = append(fields["discount_amount"], "diskon minimal 1000")
	}
	if p.MinBookingDays < 1 {
		fields["min_booking_days"] = append(fields["min_booking_days"], "minimal 1 hari")
	}
	if p.UsageLimit != nil && *p.UsageLimit < 1 {
		fields["usage_limit"] = append(fields["usage_limit"], "batas pemakaian minimal 1")
	}
	if p.ValidFrom != nil && p.ValidUntil != nil && p.ValidUntil.Before(*p.ValidFrom) {
		fields["valid_until"] = append(fields["valid_until"], "tanggal berakhir sebelum tanggal mulai")
	}
	if len(fields) > 0 {
		return domain.ValidationError{Msg: "Validation failed", Fields: fields}
	}
	return nil
}

func promoFromPayload(id string, p models.PromoPayload) models.Promo {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return models.Promo{
		ID:             id,
		Code:           utils.NormalizePromoCode(p.Code),
		Description:    utils.OptionalString(p.Description),
		DiscountAmount: p.DiscountAmount,
		MinBookingDays: p.MinBookingDays,
		UsageLimit:     p.UsageLimit,
		IsActive:       active,
		ValidFrom:      p.ValidFrom,
		ValidUntil:     p.ValidUntil,
	}
}

func (s PromoService) List(ctx context.Context) ([]models.Promo, error) {
	list, err := s.Promos.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal memuat promo", Err: err}
	}
	return list, nil
}

func (s PromoService) Get(ctx context.Context, id string) (models.Promo, error) {
	p, err := s.Promos.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Promo{}, domain.InternalError{Msg: "gagal memuat promo", Err: err}
	}
	return p, err
}

func (s PromoService) save(ctx context.Context, action string, p models.Promo, write func(context.Context, models.Promo) error) (models.Promo, error) {
	if err := write(ctx, p); err != nil {
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			return models.Promo{}, err
		}
		utils.LogError(s.RequestID, "promo", action, "simpan promo gagal code="+p.Code, err)
		return models.Promo{}, domain.InternalError{Msg: "gagal menyimpan promo", Err: err}
	}
	utils.LogEvent(s.RequestID, "promo", action, "code="+p.Code)
	return s.Get(ctx, p.ID)
}

func (s PromoService) Create(ctx context.Context, in models.PromoPayload) (models.Promo, error) {
	if err := validatePromo(in); err != nil {
		return models.Promo{}, err
	}
	return s.save(ctx, "create", promoFromPayload(uuid.NewString(), in), s.Promos.Create)
}

func (s PromoService) Update(ctx context.Context, id string, in models.PromoPayload) (models.Promo, error) {
	if err := validatePromo(in); err != nil {
		return models.Promo{}, err
	}
	return s.save(ctx, "update", promoFromPayload(id, in), s.Promos.Update)
}

func (s PromoService) Delete(ctx context.Context, id string) error {
	if err := s.Promos.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.InternalError{Msg: "gagal menghapus promo", Err: err}
	}
	utils.LogEvent(s.RequestID, "promo", "delete", "id="+id)
	return nil
}
