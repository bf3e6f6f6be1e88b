package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
)

func newTrackingService() TrackingService {
	return TrackingService{
		Bookings: &fakeBookings{items: []models.Booking{{
			ID:         "bk-1",
			OrderID:    "ORD-ABC123",
			VehicleID:  avanzaID,
			GuestName:  strPtr("Budi"),
			GuestPhone: strPtr("081234567890"),
			StartDate:  "2025-01-01",
			EndDate:    "2025-01-03",
			TotalDays:  3,
			TotalPrice: 900000,
			FinalPrice: 900000,
			Status:     models.BookingPaid,
		}}},
		Vehicles:  newFakeVehicles(avanza()),
		RequestID: "test",
	}
}

func TestTrack_ExactMatch(t *testing.T) {
	got, err := newTrackingService().Track(t.Context(), TrackInput{OrderID: "ORD-ABC123", Phone: "081234567890"})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", got.ID)
	require.NotNil(t, got.Vehicle)
	assert.Equal(t, avanzaID, got.Vehicle.ID)
}

func TestTrack_MismatchIsGenericNotFound(t *testing.T) {
	svc := newTrackingService()

	_, wrongPhone := svc.Track(t.Context(), TrackInput{OrderID: "ORD-ABC123", Phone: "089999999999"})
	_, wrongOrder := svc.Track(t.Context(), TrackInput{OrderID: "ORD-ZZZ999", Phone: "081234567890"})

	require.True(t, domain.IsNotFound(wrongPhone))
	require.True(t, domain.IsNotFound(wrongOrder))
	assert.Equal(t, wrongPhone.Error(), wrongOrder.Error())
}

func TestTrack_ValidatesShape(t *testing.T) {
	svc := newTrackingService()

	_, err := svc.Track(t.Context(), TrackInput{OrderID: "ord-abc123", Phone: "081234567890"})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "order_id")

	_, err = svc.Track(t.Context(), TrackInput{OrderID: "ORD-ABC123", Phone: "12345"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "phone")
}
