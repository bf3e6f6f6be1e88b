package api

import (
	"context"
	"time"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/gateway"
)

const vehicleID = "6f1c2f6e-8a51-4b59-9a57-0c1d9d3c6a11"

var testNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

type memVehicles map[string]models.Vehicle

func (m memVehicles) GetByID(_ context.Context, id string) (models.Vehicle, error) {
	v, ok := m[id]
	if !ok {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, nil
}

func (m memVehicles) List(_ context.Context, f models.VehicleFilter, _ domain.Pagination) ([]models.Vehicle, int, error) {
	out := []models.Vehicle{}
	for _, v := range m {
		if f.Type != "" && string(v.Type) != f.Type {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

func (m memVehicles) Create(_ context.Context, v models.Vehicle) error { m[v.ID] = v; return nil }
func (m memVehicles) Update(_ context.Context, v models.Vehicle) error { m[v.ID] = v; return nil }
func (m memVehicles) Delete(_ context.Context, id string) error { delete(m, id); return nil }

type memBookings struct {
	items []models.Booking
}

func (m *memBookings) CountOverlapping(_ context.Context, vid, start, end string) (int, error) {
	n := 0
	for _, b := range m.items {
		if b.VehicleID == vid && b.Status.Occupies() && b.StartDate <= end && b.EndDate >= start {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) CreateIfAvailable(ctx context.Context, b *models.Booking) error {
	if n, _ := m.CountOverlapping(ctx, b.VehicleID, b.StartDate, b.EndDate); n > 0 {
		return domain.ConflictError{Resource: "booking", Err: domain.ErrDatesUnavailable}
	}
	m.items = append(m.items, *b)
	return nil
}

func (m *memBookings) find(match func(models.Booking) bool) (models.Booking, error) {
	for _, b := range m.items {
		if match(b) {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

func (m *memBookings) GetByID(_ context.Context, id string) (models.Booking, error) {
	return m.find(func(b models.Booking) bool { return b.ID == id })
}

func (m *memBookings) GetByOrderID(_ context.Context, orderID string) (models.Booking, error) {
	return m.find(func(b models.Booking) bool { return b.OrderID == orderID })
}

func (m *memBookings) FindGuestBooking(_ context.Context, orderID, phone string) (models.Booking, error) {
	return m.find(func(b models.Booking) bool {
		return b.OrderID == orderID && b.GuestPhone != nil && *b.GuestPhone == phone
	})
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			return nil
		}
	}
	return domain.NotFoundError{Resource: "booking"}
}

func (m *memBookings) List(_ context.Context, f models.BookingFilter, _ domain.Pagination) ([]models.Booking, int, error) {
	out := []models.Booking{}
	for _, b := range m.items {
		if f.UserID != "" && (b.UserID == nil || *b.UserID != f.UserID) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

type memPayments struct {
	created []models.Payment
	updates []models.PaymentUpdate
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) error {
	m.created = append(m.created, *p)
	return nil
}

func (m *memPayments) UpdateByBookingID(_ context.Context, _ string, u models.PaymentUpdate) (int64, error) {
	m.updates = append(m.updates, u)
	return 1, nil
}

func (m *memPayments) ListByBookingID(_ context.Context, _ string) ([]models.Payment, error) {
	return m.created, nil
}

type memPromos map[string]models.Promo

func (m memPromos) FindByCode(_ context.Context, code string) (models.Promo, error) {
	p, ok := m[code]
	if !ok {
		return models.Promo{}, domain.NotFoundError{Resource: "promo"}
	}
	return p, nil
}

func (m memPromos) GetByID(_ context.Context, id string) (models.Promo, error) {
	for _, p := range m {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Promo{}, domain.NotFoundError{Resource: "promo"}
}

func (m memPromos) List(_ context.Context) ([]models.Promo, error) {
	out := []models.Promo{}
	for _, p := range m {
		out = append(out, p)
	}
	return out, nil
}

func (m memPromos) Create(_ context.Context, p models.Promo) error {
	if _, ok := m[p.Code]; ok {
		return domain.ConflictError{Resource: "promo", Err: domain.ErrDuplicatePromoCode}
	}
	m[p.Code] = p
	return nil
}

func (m memPromos) Update(_ context.Context, p models.Promo) error { m[p.Code] = p; return nil }

func (m memPromos) Delete(_ context.Context, id string) error {
	for code, p := range m {
		if p.ID == id {
			delete(m, code)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "promo"}
}

func (m memPromos) IncrementUsage(_ context.Context, code string) error {
	p := m[code]
	p.UsedCount++
	m[code] = p
	return nil
}

type memProfiles map[string]models.Profile

func (m memProfiles) GetByID(_ context.Context, id string) (models.Profile, error) {
	p, ok := m[id]
	if !ok {
		return models.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	return p, nil
}

func (m memProfiles) EnsureProfile(_ context.Context, id domain.Identity) (models.Profile, error) {
	if p, ok := m[id.UserID]; ok {
		return p, nil
	}
	p := models.Profile{ID: id.UserID, FullName: id.FullName, Role: models.RoleCustomer}
	m[id.UserID] = p
	return p, nil
}

func (m memProfiles) List(_ context.Context) ([]models.Profile, error) {
	out := []models.Profile{}
	for _, p := range m {
		out = append(out, p)
	}
	return out, nil
}

func (m memProfiles) UpdateRole(_ context.Context, id, role string) error {
	p, ok := m[id]
	if !ok {
		return domain.NotFoundError{Resource: "profile"}
	}
	p.Role = role
	m[id] = p
	return nil
}

type memStats struct{ stats models.DashboardStats }

func (m memStats) Dashboard(_ context.Context, _, _ string) (models.DashboardStats, error) {
	return m.stats, nil
}

type stubGateway struct {
	sessionErr error
	status     gateway.StatusResult
	statusErr  error
	badSig     bool
}

func (g *stubGateway) CreateSession(_ context.Context, req gateway.SessionRequest) (gateway.Session, error) {
	if g.sessionErr != nil {
		return gateway.Session{}, g.sessionErr
	}
	return gateway.Session{Token: "snap-" + req.OrderID, RedirectURL: "https://pay.test/" + req.OrderID}, nil
}

func (g *stubGateway) TransactionStatus(_ context.Context, orderID string) (gateway.StatusResult, error) {
	if g.statusErr != nil {
		return gateway.StatusResult{}, g.statusErr
	}
	st := g.status
	st.OrderID = orderID
	return st, nil
}

func (g *stubGateway) VerifySignature(_, _, _, _ string) bool { return !g.badSig }

func strPtr(s string) *string { return &s }
