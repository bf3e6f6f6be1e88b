package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/gateway"
)

const (
	avanzaID = "6f1c2f6e-8a51-4b59-9a57-0c1d9d3c6a11"
	beatID   = "0b7e8a3c-2d44-4e1f-8c6b-5a9f1e2d3c4b"
)

var testNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fakeVehicles struct {
	items map[string]models.Vehicle
	err   error
}

func newFakeVehicles(vs ...models.Vehicle) *fakeVehicles {
	f := &fakeVehicles{items: map[string]models.Vehicle{}}
	for _, v := range vs {
		f.items[v.ID] = v
	}
	return f
}

func (f *fakeVehicles) GetByID(_ context.Context, id string) (models.Vehicle, error) {
	if f.err != nil {
		return models.Vehicle{}, f.err
	}
	v, ok := f.items[id]
	if !ok {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: sql.ErrNoRows}
	}
	return v, nil
}

func (f *fakeVehicles) List(_ context.Context, _ models.VehicleFilter, _ domain.Pagination) ([]models.Vehicle, int, error) {
	out := []models.Vehicle{}
	for _, v := range f.items {
		out = append(out, v)
	}
	return out, len(out), f.err
}

func (f *fakeVehicles) Create(_ context.Context, v models.Vehicle) error {
	f.items[v.ID] = v
	return f.err
}

func (f *fakeVehicles) Update(_ context.Context, v models.Vehicle) error {
	if _, ok := f.items[v.ID]; !ok {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	f.items[v.ID] = v
	return nil
}

func (f *fakeVehicles) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeBookings struct {
	items     []models.Booking
	countErr  error
	createErr []error // consumed one per CreateIfAvailable call
	inserted  int
	updates   []models.BookingStatus
	updateErr error
}

func overlaps(b models.Booking, vehicleID, start, end string) bool {
	return b.VehicleID == vehicleID && b.Status.Occupies() && b.StartDate <= end && b.EndDate >= start
}

func (f *fakeBookings) CountOverlapping(_ context.Context, vehicleID, start, end string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, b := range f.items {
		if overlaps(b, vehicleID, start, end) {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) CreateIfAvailable(_ context.Context, b *models.Booking) error {
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.items {
		if existing.OrderID == b.OrderID {
			return domain.ConflictError{Resource: "booking", Err: domain.ErrDuplicateOrderID}
		}
		if overlaps(existing, b.VehicleID, b.StartDate, b.EndDate) {
			return domain.ConflictError{Resource: "booking", Err: domain.ErrDatesUnavailable}
		}
	}
	f.items = append(f.items, *b)
	f.inserted++
	return nil
}

func (f *fakeBookings) find(match func(models.Booking) bool) (models.Booking, error) {
	for _, b := range f.items {
		if match(b) {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: sql.ErrNoRows}
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (models.Booking, error) {
	return f.find(func(b models.Booking) bool { return b.ID == id })
}

func (f *fakeBookings) GetByOrderID(_ context.Context, orderID string) (models.Booking, error) {
	return f.find(func(b models.Booking) bool { return b.OrderID == orderID })
}

func (f *fakeBookings) FindGuestBooking(_ context.Context, orderID, phone string) (models.Booking, error) {
	return f.find(func(b models.Booking) bool {
		return b.OrderID == orderID && b.GuestPhone != nil && *b.GuestPhone == phone
	})
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			f.updates = append(f.updates, status)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "booking"}
}

func (f *fakeBookings) List(_ context.Context, filter models.BookingFilter, _ domain.Pagination) ([]models.Booking, int, error) {
	out := []models.Booking{}
	for _, b := range f.items {
		if filter.UserID != "" && (b.UserID == nil || *b.UserID != filter.UserID) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

type fakePayments struct {
	created   []models.Payment
	updates   []models.PaymentUpdate
	createErr error
	updateErr error
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePayments) UpdateByBookingID(_ context.Context, _ string, u models.PaymentUpdate) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	f.updates = append(f.updates, u)
	return 1, nil
}

func (f *fakePayments) ListByBookingID(_ context.Context, bookingID string) ([]models.Payment, error) {
	out := []models.Payment{}
	for _, p := range f.created {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePromos struct {
	items       map[string]models.Promo
	findErr     error
	incremented []string
}

func newFakePromos(ps ...models.Promo) *fakePromos {
	f := &fakePromos{items: map[string]models.Promo{}}
	for _, p := range ps {
		f.items[p.Code] = p
	}
	return f
}

func (f *fakePromos) FindByCode(_ context.Context, code string) (models.Promo, error) {
	if f.findErr != nil {
		return models.Promo{}, f.findErr
	}
	p, ok := f.items[code]
	if !ok {
		return models.Promo{}, domain.NotFoundError{Resource: "promo"}
	}
	return p, nil
}

func (f *fakePromos) GetByID(_ context.Context, id string) (models.Promo, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Promo{}, domain.NotFoundError{Resource: "promo"}
}

func (f *fakePromos) List(_ context.Context) ([]models.Promo, error) {
	out := []models.Promo{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePromos) Create(_ context.Context, p models.Promo) error {
	if _, ok := f.items[p.Code]; ok {
		return domain.ConflictError{Resource: "promo", Err: domain.ErrDuplicatePromoCode}
	}
	f.items[p.Code] = p
	return nil
}

func (f *fakePromos) Update(_ context.Context, p models.Promo) error {
	for code, existing := range f.items {
		if existing.ID == p.ID {
			delete(f.items, code)
			f.items[p.Code] = p
			return nil
		}
	}
	return domain.NotFoundError{Resource: "promo"}
}

func (f *fakePromos) Delete(_ context.Context, id string) error {
	for code, p := range f.items {
		if p.ID == id {
			delete(f.items, code)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "promo"}
}

func (f *fakePromos) IncrementUsage(_ context.Context, code string) error {
	f.incremented = append(f.incremented, code)
	p := f.items[code]
	p.UsedCount++
	f.items[code] = p
	return nil
}

type fakeProfiles struct {
	items map[string]models.Profile
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (models.Profile, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	return p, nil
}

func (f *fakeProfiles) EnsureProfile(_ context.Context, id domain.Identity) (models.Profile, error) {
	if p, ok := f.items[id.UserID]; ok {
		return p, nil
	}
	p := models.Profile{ID: id.UserID, FullName: id.FullName, Role: models.RoleCustomer}
	f.items[id.UserID] = p
	return p, nil
}

func (f *fakeProfiles) List(_ context.Context) ([]models.Profile, error) {
	out := []models.Profile{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) UpdateRole(_ context.Context, id, role string) error {
	p, ok := f.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "profile"}
	}
	p.Role = role
	f.items[id] = p
	return nil
}

type fakeGateway struct {
	sessions   []gateway.SessionRequest
	sessionErr error
	status     gateway.StatusResult
	statusErr  error
	badSig     bool
}

func (f *fakeGateway) CreateSession(_ context.Context, req gateway.SessionRequest) (gateway.Session, error) {
	f.sessions = append(f.sessions, req)
	if f.sessionErr != nil {
		return gateway.Session{}, f.sessionErr
	}
	return gateway.Session{Token: "snap-token-" + req.OrderID, RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/x"}, nil
}

func (f *fakeGateway) TransactionStatus(_ context.Context, orderID string) (gateway.StatusResult, error) {
	if f.statusErr != nil {
		return gateway.StatusResult{}, f.statusErr
	}
	st := f.status
	if st.OrderID == "" {
		st.OrderID = orderID
	}
	return st, nil
}

func (f *fakeGateway) VerifySignature(_, _, _, _ string) bool { return !f.badSig }

var errStorage = errors.New("storage down")

func avanza() models.Vehicle {
	return models.Vehicle{
		ID:           avanzaID,
		Name:         "Avanza",
		Type:         models.VehicleCar,
		Brand:        "Toyota",
		Model:        "Avanza G",
		Year:         2022,
		PricePerDay:  300000,
		IsAvailable:  true,
		Transmission: models.TransmissionManual,
	}
}

func welcomePromo() models.Promo {
	return models.Promo{
		ID:             "promo-1",
		Code:           "WELCOME50K",
		DiscountAmount: 50000,
		MinBookingDays: 1,
		IsActive:       true,
	}
}

func strPtr(s string) *string { return &s }
