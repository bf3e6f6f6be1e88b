package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

type VehicleService struct {
	Vehicles  VehicleStore
	Bookings  BookingStore
	RequestID string
	Now       func() time.Time
}

// VehicleAvailability is the answer of the public availability endpoint.
type VehicleAvailability struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func (s VehicleService) List(ctx context.Context, f models.VehicleFilter, page domain.Pagination) ([]models.Vehicle, domain.Pagination, error) {
	page = page.Normalize(12, 100)
	list, total, err := s.Vehicles.List(ctx, f, page)
	if err != nil {
		utils.LogError(s.RequestID, "vehicle", "list", "gagal memuat kendaraan", err)
		return nil, page, domain.InternalError{Msg: "gagal memuat kendaraan", Err: err}
	}
	page.Total = total
	return list, page, nil
}

func (s VehicleService) Get(ctx context.Context, id string) (models.Vehicle, error) {
	v, err := s.Vehicles.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Vehicle{}, domain.InternalError{Msg: "gagal memuat kendaraan", Err: err}
	}
	return v, err
}

// Availability combines the operator flag with reservation occupancy.
func (s VehicleService) Availability(ctx context.Context, id, startDate, endDate string) (VehicleAvailability, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return VehicleAvailability{}, err
	}
	v, err := s.Get(ctx, id)
	if err != nil {
		return VehicleAvailability{}, err
	}
	out := VehicleAvailability{
		VehicleID: v.ID,
		StartDate: utils.FormatDate(start),
		EndDate:   utils.FormatDate(end),
	}
	if !v.IsAvailable {
		out.Reason = "vehicle_unavailable"
		return out, nil
	}
	free, err := AvailabilityService{Bookings: s.Bookings, RequestID: s.RequestID}.IsAvailable(ctx, v.ID, start, end)
	if err != nil {
		return VehicleAvailability{}, err
	}
	out.Available = free
	if !free {
		out.Reason = "dates_unavailable"
	}
	return out, nil
}

func (s VehicleService) validate(p models.VehiclePayload) error {
	fields := map[string][]string{}
	maxYear := nowOr(s.Now).Year() + 1
	if p.Year < 2000 || p.Year > maxYear {
		fields["year"] = append(fields["year"], "tahun harus antara 2000 dan tahun depan")
	}
	if p.PricePerDay <= 0 {
		fields["price_per_day"] = append(fields["price_per_day"], "Harga harus lebih dari 0")
	}
	for field, val := range map[string]string{"name": p.Name, "brand": p.Brand, "model": p.Model} {
		if strings.TrimSpace(val) == "" {
			fields[field] = append(fields[field], "wajib diisi")
		}
	}
	if len(fields) > 0 {
		return domain.ValidationError{Msg: "Validation failed", Fields: fields}
	}
	return nil
}

func vehicleFromPayload(id string, p models.VehiclePayload) models.Vehicle {
	available := true
	if p.IsAvailable != nil {
		available = *p.IsAvailable
	}
	return models.Vehicle{
		ID:           id,
		Name:         utils.NormalizeSpace(p.Name),
		Type:         models.VehicleType(p.Type),
		Brand:        strings.TrimSpace(p.Brand),
		Model:        strings.TrimSpace(p.Model),
		Year:         p.Year,
		PricePerDay:  p.PricePerDay,
		Description:  utils.OptionalString(p.Description),
		ImageURL:     utils.OptionalString(p.ImageURL),
		Images:       p.Images,
		IsAvailable:  available,
		Features:     p.Features,
		Transmission: models.Transmission(p.Transmission),
		Seats:        p.Seats,
		EngineCC:     p.EngineCC,
	}
}

func (s VehicleService) Create(ctx context.Context, p models.VehiclePayload) (models.Vehicle, error) {
	if err := s.validate(p); err != nil {
		return models.Vehicle{}, err
	}
	v := vehicleFromPayload(uuid.NewString(), p)
	if err := s.Vehicles.Create(ctx, v); err != nil {
		utils.LogError(s.RequestID, "vehicle", "create", "insert gagal", err)
		return models.Vehicle{}, domain.InternalError{Msg: "gagal menyimpan kendaraan", Err: err}
	}
	utils.LogEvent(s.RequestID, "vehicle", "create", "id="+v.ID)
	return s.Get(ctx, v.ID)
}

func (s VehicleService) Update(ctx context.Context, id string, p models.VehiclePayload) (models.Vehicle, error) {
	if err := s.validate(p); err != nil {
		return models.Vehicle{}, err
	}
	if err := s.Vehicles.Update(ctx, vehicleFromPayload(id, p)); err != nil {
		if domain.IsNotFound(err) {
			return models.Vehicle{}, err
		}
		utils.LogError(s.RequestID, "vehicle", "update", "update gagal id="+id, err)
		return models.Vehicle{}, domain.InternalError{Msg: "gagal menyimpan kendaraan", Err: err}
	}
	utils.LogEvent(s.RequestID, "vehicle", "update", "id="+id)
	return s.Get(ctx, id)
}

func (s VehicleService) Delete(ctx context.Context, id string) error {
	if err := s.Vehicles.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) || domain.IsConflict(err) {
			return err
		}
		utils.LogError(s.RequestID, "vehicle", "delete", "delete gagal id="+id, err)
		return domain.InternalError{Msg: "gagal menghapus kendaraan", Err: err}
	}
	utils.LogEvent(s.RequestID, "vehicle", "delete", "id="+id)
	return nil
}
