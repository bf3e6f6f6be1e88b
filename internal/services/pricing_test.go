package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

func day(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculatePrice_InclusiveDayCount(t *testing.T) {
	q, err := CalculatePrice(day("2025-01-01"), day("2025-01-03"), 300000, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, q.DayCount)
	assert.Equal(t, int64(900000), q.Subtotal)
	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, int64(900000), q.FinalTotal)

	q, err = CalculatePrice(day("2025-01-01"), day("2025-01-01"), 300000, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, q.DayCount, "same-day rental is one day")
}

func TestCalculatePrice_AcrossMonthAndLeapDay(t *testing.T) {
	q, err := CalculatePrice(day("2024-02-28"), day("2024-03-01"), 100000, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, q.DayCount)
}

func TestCalculatePrice_EndBeforeStart(t *testing.T) {
	_, err := CalculatePrice(day("2025-01-03"), day("2025-01-01"), 300000, nil, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	assert.True(t, domain.IsValidation(err))
}

func TestCalculatePrice_NonPositiveRate(t *testing.T) {
	_, err := CalculatePrice(day("2025-01-01"), day("2025-01-02"), 0, nil, testNow)
	assert.True(t, domain.IsValidation(err))
}

func TestCalculatePrice_PromoEligibility(t *testing.T) {
	limit := 5
	past := testNow.Add(-48 * time.Hour)
	future := testNow.Add(48 * time.Hour)

	cases := []struct {
		name  string
		promo models.Promo
		want  int64
	}{
		{"eligible", welcomePromo(), 50000},
		{"inactive", func() models.Promo { p := welcomePromo(); p.IsActive = false; return p }(), 0},
		{"expired", func() models.Promo { p := welcomePromo(); p.ValidUntil = &past; return p }(), 0},
		{"not yet valid", func() models.Promo { p := welcomePromo(); p.ValidFrom = &future; return p }(), 0},
		{"too few days", func() models.Promo { p := welcomePromo(); p.MinBookingDays = 4; return p }(), 0},
		{"usage exhausted", func() models.Promo { p := welcomePromo(); p.UsageLimit = &limit; p.UsedCount = 5; return p }(), 0},
		{"usage left", func() models.Promo { p := welcomePromo(); p.UsageLimit = &limit; p.UsedCount = 4; return p }(), 50000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.promo
			q, err := CalculatePrice(day("2025-01-01"), day("2025-01-03"), 300000, &p, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.Discount)
			assert.Equal(t, q.Subtotal-tc.want, q.FinalTotal)
		})
	}
}

func TestCalculatePrice_DiscountNeverGoesNegative(t *testing.T) {
	p := welcomePromo()
	p.DiscountAmount = 1_000_000
	q, err := CalculatePrice(day("2025-01-01"), day("2025-01-01"), 300000, &p, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), q.Discount)
	assert.Equal(t, int64(0), q.FinalTotal)
}

func TestCalculatePrice_SamePromoSameResult(t *testing.T) {
	p := welcomePromo()
	a, _ := CalculatePrice(day("2025-01-01"), day("2025-01-03"), 300000, &p, testNow)
	b, _ := CalculatePrice(day("2025-01-01"), day("2025-01-03"), 300000, &p, testNow)
	assert.Equal(t, a, b)
}

func TestResolvePromo_DegradesToNoPromo(t *testing.T) {
	promos := newFakePromos(welcomePromo())
	assert.Nil(t, resolvePromo(t.Context(), promos, "", "rid"))
	assert.Nil(t, resolvePromo(t.Context(), promos, "NOPE", "rid"))
	require.NotNil(t, resolvePromo(t.Context(), promos, " welcome50k ", "rid"), "codes are normalized")

	promos.findErr = errStorage
	assert.Nil(t, resolvePromo(t.Context(), promos, "WELCOME50K", "rid"))
}

func TestAvailability_BoundaryAndStatuses(t *testing.T) {
	bookings := &fakeBookings{items: []models.Booking{
		{ID: "b1", VehicleID: avanzaID, StartDate: "2025-01-03", EndDate: "2025-01-05", Status: models.BookingPaid},
		{ID: "b2", VehicleID: avanzaID, StartDate: "2025-01-10", EndDate: "2025-01-12", Status: models.BookingCancelled},
		{ID: "b3", VehicleID: avanzaID, StartDate: "2025-01-20", EndDate: "2025-01-22", Status: models.BookingExpired},
	}}
	svc := AvailabilityService{Bookings: bookings}

	cases := []struct {
		start, end string
		free       bool
	}{
		{"2025-01-01", "2025-01-03", false}, // ends on the day b1 starts
		{"2025-01-05", "2025-01-07", false}, // starts on the day b1 ends
		{"2025-01-01", "2025-01-02", true},
		{"2025-01-06", "2025-01-09", true},
		{"2025-01-10", "2025-01-12", true}, // cancelled does not occupy
		{"2025-01-21", "2025-01-21", true}, // expired does not occupy
	}
	for _, tc := range cases {
		free, err := svc.IsAvailable(t.Context(), avanzaID, day(tc.start), day(tc.end))
		require.NoError(t, err)
		assert.Equal(t, tc.free, free, "%s..%s", tc.start, tc.end)
	}
}

func TestAvailability_StorageErrorIsNotAvailable(t *testing.T) {
	svc := AvailabilityService{Bookings: &fakeBookings{countErr: errStorage}}
	free, err := svc.IsAvailable(t.Context(), avanzaID, day("2025-01-01"), day("2025-01-02"))
	assert.False(t, free)
	assert.True(t, domain.IsInternal(err))
}
