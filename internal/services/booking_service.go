package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/gateway"
	"rentago/internal/utils"
)

const maxOrderIDAttempts = 3

var (
	phonePattern = regexp.MustCompile(`^[0-9+]+$`)
	validate     = validator.New()
)

// BookingInput is the booking form. Guest fields are only read when the
// requester is anonymous.
type BookingInput struct {
	VehicleID        string `json:"vehicle_id" form:"vehicle_id" binding:"required"`
	StartDate        string `json:"start_date" form:"start_date" binding:"required"`
	EndDate          string `json:"end_date" form:"end_date" binding:"required"`
	PickupLocation   string `json:"pickup_location" form:"pickup_location"`
	DeliveryLocation string `json:"delivery_location" form:"delivery_location"`
	Notes            string `json:"notes" form:"notes"`
	PromoCode        string `json:"promo_code" form:"promo_code"`
	GuestName        string `json:"guest_name" form:"guest_name"`
	GuestPhone       string `json:"guest_phone" form:"guest_phone"`
	GuestEmail       string `json:"guest_email" form:"guest_email"`
}

// BookingResult is what the client needs to open the hosted checkout.
type BookingResult struct {
	OrderID             string `json:"order_id"`
	BookingID           string `json:"booking_id"`
	PaymentSessionToken string `json:"payment_session_token"`
	RedirectURL         string `json:"redirect_url"`
}

type BookingService struct {
	Vehicles  VehicleStore
	Bookings  BookingStore
	Payments  PaymentStore
	Promos    PromoStore
	Profiles  ProfileStore
	Gateway   PaymentGateway
	AppURL    string
	RequestID string

	// test hooks
	Now        func() time.Time
	NewOrderID func() string
	NewID      func() string
}

func (s BookingService) orderID() string {
	if s.NewOrderID != nil {
		return s.NewOrderID()
	}
	return utils.NewOrderID()
}

func (s BookingService) id() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// ValidatePhone applies the contact phone rule shared by booking and tracking.
func ValidatePhone(phone string) string {
	switch {
	case len(phone) < 10:
		return "Nomor telepon minimal 10 digit"
	case !phonePattern.MatchString(phone):
		return "Nomor telepon tidak valid"
	}
	return ""
}

func validateBookingInput(in BookingInput, guest bool) map[string][]string {
	fields := map[string][]string{}
	add := func(field, msg string) { fields[field] = append(fields[field], msg) }

	if strings.TrimSpace(in.VehicleID) == "" {
		add("vehicle_id", "Kendaraan wajib dipilih")
	} else if err := validate.Var(in.VehicleID, "uuid"); err != nil {
		add("vehicle_id", "ID kendaraan tidak valid")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		add("start_date", "Tanggal mulai wajib diisi")
	} else if _, err := utils.ParseDate(in.StartDate); err != nil {
		add("start_date", "Format tanggal harus YYYY-MM-DD")
	}
	if strings.TrimSpace(in.EndDate) == "" {
		add("end_date", "Tanggal selesai wajib diisi")
	} else if _, err := utils.ParseDate(in.EndDate); err != nil {
		add("end_date", "Format tanggal harus YYYY-MM-DD")
	}

	if guest {
		if strings.TrimSpace(in.GuestName) == "" {
			add("guest_name", "Nama wajib diisi")
		}
		if msg := ValidatePhone(strings.TrimSpace(in.GuestPhone)); msg != "" {
			add("guest_phone", msg)
		}
		if err := validate.Var(strings.TrimSpace(in.GuestEmail), "required,email"); err != nil {
			add("guest_email", "Email tidak valid")
		}
	}
	return fields
}

// Submit validates, prices and stores a booking, then opens a payment
// session for it. A gateway failure leaves the booking row pending.
func (s BookingService) Submit(ctx context.Context, requester *domain.Identity, in BookingInput) (BookingResult, error) {
	guest := requester == nil || requester.UserID == ""
	if fields := validateBookingInput(in, guest); len(fields) > 0 {
		return BookingResult{}, domain.ValidationError{Msg: "Validation failed", Fields: fields}
	}
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return BookingResult{}, err
	}

	vehicle, err := s.Vehicles.GetByID(ctx, in.VehicleID)
	if err != nil {
		if domain.IsNotFound(err) {
			return BookingResult{}, err
		}
		return BookingResult{}, domain.InternalError{Msg: "gagal memuat kendaraan", Err: err}
	}
	if !vehicle.IsAvailable {
		return BookingResult{}, domain.ConflictError{Resource: "vehicle", Msg: "kendaraan tidak tersedia", Err: domain.ErrVehicleUnavailable}
	}

	avail := AvailabilityService{Bookings: s.Bookings, RequestID: s.RequestID}
	free, err := avail.IsAvailable(ctx, vehicle.ID, start, end)
	if err != nil {
		return BookingResult{}, err
	}
	if !free {
		return BookingResult{}, domain.ConflictError{Resource: "booking", Msg: "tanggal tidak tersedia", Err: domain.ErrDatesUnavailable}
	}

	promo := resolvePromo(ctx, s.Promos, in.PromoCode, s.RequestID)
	quote, err := CalculatePrice(start, end, vehicle.PricePerDay, promo, nowOr(s.Now))
	if err != nil {
		return BookingResult{}, err
	}

	booking := models.Booking{
		ID:               s.id(),
		VehicleID:        vehicle.ID,
		StartDate:        quote.StartDate,
		EndDate:          quote.EndDate,
		TotalDays:        quote.DayCount,
		TotalPrice:       quote.Subtotal,
		DiscountAmount:   quote.Discount,
		FinalPrice:       quote.FinalTotal,
		Status:           models.BookingPending,
		PickupLocation:   utils.OptionalString(in.PickupLocation),
		DeliveryLocation: utils.OptionalString(in.DeliveryLocation),
		Notes:            utils.OptionalString(in.Notes),
		PromoCode:        utils.OptionalString(quote.PromoCode),
	}
	if guest {
		booking.GuestName = utils.OptionalString(in.GuestName)
		booking.GuestPhone = utils.OptionalString(in.GuestPhone)
		booking.GuestEmail = utils.OptionalString(in.GuestEmail)
	} else {
		uid := requester.UserID
		booking.UserID = &uid
	}

	if err := s.insertWithFreshOrderID(ctx, &booking); err != nil {
		return BookingResult{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("order_id=%s vehicle_id=%s days=%d final=%d", booking.OrderID, vehicle.ID, quote.DayCount, quote.FinalTotal))

	session, err := s.Gateway.CreateSession(ctx, s.sessionRequest(ctx, booking, vehicle, quote, requester, in))
	if err != nil {
		utils.LogError(s.RequestID, "booking", "create_session", "snap gagal order_id="+booking.OrderID, err)
		return BookingResult{}, domain.GatewayError{Op: "create_session", Err: err}
	}

	token := session.Token
	orderID := booking.OrderID
	payment := models.Payment{
		ID:              s.id(),
		BookingID:       booking.ID,
		MidtransOrderID: &orderID,
		Amount:          quote.FinalTotal,
		Status:          string(gateway.TxPending),
		SnapToken:       &token,
	}
	if err := s.Payments.Create(ctx, &payment); err != nil {
		// The session is already open and usable; the webhook still finds the booking by order id.
		utils.LogError(s.RequestID, "booking", "create_payment", "simpan payment gagal order_id="+booking.OrderID, err)
	}

	return BookingResult{
		OrderID:             booking.OrderID,
		BookingID:           booking.ID,
		PaymentSessionToken: session.Token,
		RedirectURL:         session.RedirectURL,
	}, nil
}

func (s BookingService) insertWithFreshOrderID(ctx context.Context, b *models.Booking) error {
	var lastErr error
	for attempt := 1; attempt <= maxOrderIDAttempts; attempt++ {
		b.OrderID = s.orderID()
		err := s.Bookings.CreateIfAvailable(ctx, b)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrDuplicateOrderID) {
			utils.LogWarn(s.RequestID, "booking", "create", fmt.Sprintf("order id bentrok (%s), percobaan %d", b.OrderID, attempt))
			lastErr = err
			continue
		}
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			return err
		}
		utils.LogError(s.RequestID, "booking", "create", "insert booking gagal", err)
		return domain.InternalError{Msg: "gagal membuat booking", Err: err}
	}
	return domain.InternalError{Msg: "gagal membuat order id unik", Err: lastErr}
}

func (s BookingService) sessionRequest(ctx context.Context, b models.Booking, v models.Vehicle, q Quote, requester *domain.Identity, in BookingInput) gateway.SessionRequest {
	items := []gateway.Item{{
		ID:    v.ID,
		Name:  fmt.Sprintf("%s (%d days)", v.Name, q.DayCount),
		Price: v.PricePerDay,
		Qty:   int32(q.DayCount),
	}}
	if q.Discount > 0 {
		items = append(items, gateway.Item{ID: "DISCOUNT", Name: "Promo Discount", Price: -q.Discount, Qty: 1})
	}

	var customer gateway.Customer
	if b.IsGuest() {
		customer = gateway.Customer{
			Name:  strings.TrimSpace(in.GuestName),
			Email: strings.TrimSpace(in.GuestEmail),
			Phone: strings.TrimSpace(in.GuestPhone),
		}
	} else {
		customer = s.customerFor(ctx, requester)
	}

	finish := ""
	if s.AppURL != "" {
		finish = strings.TrimRight(s.AppURL, "/") + "/booking/status?order_id=" + b.OrderID
	}
	return gateway.SessionRequest{
		OrderID:     b.OrderID,
		GrossAmount: q.FinalTotal,
		Items:       items,
		Customer:    customer,
		FinishURL:   finish,
	}
}

// customerFor prefers the stored profile and falls back to token claims.
func (s BookingService) customerFor(ctx context.Context, id *domain.Identity) gateway.Customer {
	c := gateway.Customer{Name: id.FullName, Email: id.Email, Phone: id.Phone}
	if s.Profiles != nil {
		if p, err := s.Profiles.GetByID(ctx, id.UserID); err == nil {
			if strings.TrimSpace(p.FullName) != "" {
				c.Name = p.FullName
			}
			if p.Phone != nil && *p.Phone != "" {
				c.Phone = *p.Phone
			}
		}
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = "Customer"
	}
	return c
}

// ListMine returns the requester's own bookings with their vehicles.
func (s BookingService) ListMine(ctx context.Context, id domain.Identity, page domain.Pagination) ([]models.BookingWithVehicle, domain.Pagination, error) {
	page = page.Normalize(10, 50)
	list, total, err := s.Bookings.List(ctx, models.BookingFilter{UserID: id.UserID}, page)
	if err != nil {
		return nil, page, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	page.Total = total
	return withVehicles(ctx, s.Vehicles, list), page, nil
}

// withVehicles attaches vehicle snapshots; a missing vehicle leaves the field empty.
func withVehicles(ctx context.Context, vehicles VehicleStore, list []models.Booking) []models.BookingWithVehicle {
	cache := map[string]*models.Vehicle{}
	out := make([]models.BookingWithVehicle, 0, len(list))
	for _, b := range list {
		v, ok := cache[b.VehicleID]
		if !ok {
			if got, err := vehicles.GetByID(ctx, b.VehicleID); err == nil {
				v = &got
			}
			cache[b.VehicleID] = v
		}
		out = append(out, models.BookingWithVehicle{Booking: b, Vehicle: v})
	}
	return out
}
