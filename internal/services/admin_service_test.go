package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
)

func TestUpdateBookingStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		ok       bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPaid, models.BookingConfirmed, true},
		{models.BookingConfirmed, models.BookingActive, true},
		{models.BookingActive, models.BookingCompleted, true},
		{models.BookingActive, models.BookingCancelled, true},
		{models.BookingCompleted, models.BookingCancelled, false},
		{models.BookingCancelled, models.BookingConfirmed, false},
		{models.BookingPending, models.BookingCompleted, false},
	}
	for _, tc := range cases {
		bookings := &fakeBookings{items: []models.Booking{{ID: "bk-1", VehicleID: avanzaID, Status: tc.from}}}
		svc := AdminService{Bookings: bookings, Vehicles: newFakeVehicles(avanza())}

		got, err := svc.UpdateBookingStatus(t.Context(), "bk-1", tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, got.Status)
			assert.Equal(t, tc.to, bookings.items[0].Status)
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.from, bookings.items[0].Status)
		}
	}
}

func TestUpdateBookingStatus_UnknownStatusAndSameStatus(t *testing.T) {
	bookings := &fakeBookings{items: []models.Booking{{ID: "bk-1", Status: models.BookingPaid}}}
	svc := AdminService{Bookings: bookings}

	_, err := svc.UpdateBookingStatus(t.Context(), "bk-1", "shipped")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateBookingStatus(t.Context(), "bk-1", models.BookingPaid)
	require.NoError(t, err)
	assert.Empty(t, bookings.updates)

	_, err = svc.UpdateBookingStatus(t.Context(), "missing", models.BookingConfirmed)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetBooking_IncludesPayments(t *testing.T) {
	payments := &fakePayments{created: []models.Payment{{ID: "p1", BookingID: "bk-1", Status: "settlement"}}}
	svc := AdminService{
		Bookings: &fakeBookings{items: []models.Booking{{ID: "bk-1", VehicleID: avanzaID, Status: models.BookingPaid}}},
		Vehicles: newFakeVehicles(avanza()),
		Payments: payments,
	}
	got, err := svc.GetBooking(t.Context(), "bk-1")
	require.NoError(t, err)
	assert.Len(t, got.Payments, 1)
	require.NotNil(t, got.Vehicle)
}

func TestToggleUserRole(t *testing.T) {
	profiles := &fakeProfiles{items: map[string]models.Profile{
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin},
		"user-1":  {ID: "user-1", Role: models.RoleCustomer},
	}}
	svc := AdminService{Profiles: profiles}
	actor := domain.Identity{UserID: "admin-1"}

	p, err := svc.ToggleUserRole(t.Context(), actor, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)

	p, err = svc.ToggleUserRole(t.Context(), actor, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, p.Role)

	_, err = svc.ToggleUserRole(t.Context(), actor, "admin-1")
	assert.True(t, domain.IsForbidden(err))
}

func TestProfileResolve_CreatesOnFirstSight(t *testing.T) {
	profiles := &fakeProfiles{items: map[string]models.Profile{}}
	svc := ProfileService{Profiles: profiles}

	p, err := svc.Resolve(t.Context(), domain.Identity{UserID: "new-user", FullName: "Rina"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, p.Role)
	assert.Contains(t, profiles.items, "new-user")
}

func TestPromoService_CreateNormalizesAndRejectsDuplicates(t *testing.T) {
	promos := newFakePromos()
	svc := PromoService{Promos: promos}
	in := models.PromoPayload{
		Code:           " lebaran25 ",
		Description:    "Diskon lebaran untuk semua kendaraan",
		DiscountAmount: 25000,
		MinBookingDays: 2,
	}

	p, err := svc.Create(t.Context(), in)
	require.NoError(t, err)
	assert.Equal(t, "LEBARAN25", p.Code)
	assert.True(t, p.IsActive)

	_, err = svc.Create(t.Context(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicatePromoCode)

	in.DiscountAmount = 10
	in.Description = "short"
	_, err = svc.Create(t.Context(), in)
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "discount_amount")
	assert.Contains(t, verr.FieldErrors(), "description")
}

func TestVehicleService_Availability(t *testing.T) {
	svc := VehicleService{
		Vehicles: newFakeVehicles(avanza()),
		Bookings: &fakeBookings{items: []models.Booking{{
			VehicleID: avanzaID, StartDate: "2025-01-03", EndDate: "2025-01-05", Status: models.BookingConfirmed,
		}}},
		Now: fixedNow,
	}

	got, err := svc.Availability(t.Context(), avanzaID, "2025-01-01", "2025-01-03")
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "dates_unavailable", got.Reason)

	got, err = svc.Availability(t.Context(), avanzaID, "2025-01-06", "2025-01-08")
	require.NoError(t, err)
	assert.True(t, got.Available)

	_, err = svc.Availability(t.Context(), avanzaID, "2025-01-08", "2025-01-06")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestVehicleService_CreateValidatesYear(t *testing.T) {
	svc := VehicleService{Vehicles: newFakeVehicles(), Now: fixedNow}
	_, err := svc.Create(t.Context(), models.VehiclePayload{
		Name: "Jazz", Type: "car", Brand: "Honda", Model: "RS", Year: 2027,
		PricePerDay: 250000, Transmission: "automatic",
	})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "year")
}
