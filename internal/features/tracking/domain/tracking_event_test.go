package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCarrierStatus(t *testing.T) {
	tests := []struct {
		statusType string
		want       Status
		ok         bool
	}{
		{"D", StatusDelivered, true},
		{"I", StatusInTransit, true},
		{"P", StatusInTransit, true},
		{"M", StatusCreated, true},
		{"X", StatusException, true},
		{"RS", StatusReturned, true},
		{"O", StatusOutForDelivery, true},
		{"ZZ", StatusInTransit, true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.statusType, func(t *testing.T) {
			got, ok := MapCarrierStatus(tt.statusType, "08")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusVoided, StatusReturned, StatusExceptionResolved} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []Status{StatusCreated, StatusInTransit, StatusOutForDelivery, StatusException} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("lost").Valid())
}

func TestActivity_Timestamp(t *testing.T) {
	ts, err := Activity{Date: "20240315", Time: "142530"}.Timestamp()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC), ts)

	ts, err = Activity{Date: "20240315"}.Timestamp()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ts)

	_, err = Activity{Time: "142530"}.Timestamp()
	assert.ErrorIs(t, err, ErrNoTimestamp)

	_, err = Activity{Date: "2024-03-15"}.Timestamp()
	assert.ErrorIs(t, err, ErrNoTimestamp)
}

func TestNewTrackingEvent(t *testing.T) {
	shipment := Shipment{ID: "s-1", TrackingNumber: "1Z999", Status: StatusInTransit}
	activity := Activity{
		StatusType:        "D",
		StatusCode:        "FS",
		StatusDescription: "Delivered",
		Location:          Location{City: "Austin", State: "TX", Country: "US"},
		Date:              "20240315",
		Time:              "142530",
	}
	now := time.Date(2024, 3, 16, 8, 0, 0, 0, time.FixedZone("CST", -6*3600))

	event, err := NewTrackingEvent("e-1", shipment, activity, now)
	require.NoError(t, err)

	assert.Equal(t, "e-1", event.ID)
	assert.Equal(t, "s-1", event.ShipmentID)
	assert.Equal(t, "1Z999", event.TrackingNumber)
	assert.Equal(t, "Austin", event.LocationCity)
	assert.Equal(t, time.UTC, event.CreatedAt.Location())
	assert.Equal(t, EventKey{
		TrackingNumber:    "1Z999",
		ActivityTimestamp: time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC),
		StatusCode:        "FS",
	}, event.Key())

	_, err = NewTrackingEvent("e-2", shipment, Activity{StatusType: "I"}, now)
	assert.ErrorIs(t, err, ErrNoTimestamp)
}
