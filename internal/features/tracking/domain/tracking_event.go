package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTimestamp is returned when a carrier activity has no parseable date.
var ErrNoTimestamp = errors.New("activity has no valid timestamp")

const (
	carrierDateLayout = "20060102"
	carrierTimeLayout = "150405"
)

// Location is where a carrier activity was scanned.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Activity is one carrier scan as reported, most recent first.
type Activity struct {
	StatusType        string   `json:"status_type"`
	StatusCode        string   `json:"status_code"`
	StatusDescription string   `json:"status_description"`
	Location          Location `json:"location"`
	// Date is YYYYMMDD and Time is HHMMSS, both in carrier local time, stored as UTC.
	Date string `json:"date"`
	Time string `json:"time"`
}

// Timestamp combines Date and Time into a UTC instant. A missing time means midnight.
func (a Activity) Timestamp() (time.Time, error) {
	if a.Date == "" {
		return time.Time{}, ErrNoTimestamp
	}

	clock := a.Time
	if clock == "" {
		clock = "000000"
	}

	ts, err := time.ParseInLocation(carrierDateLayout+carrierTimeLayout, a.Date+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrNoTimestamp, a.Date, a.Time)
	}
	return ts, nil
}

// TrackingEvent is a persisted carrier activity. Immutable once written and
// unique on (TrackingNumber, ActivityTimestamp, StatusCode).
type TrackingEvent struct {
	ID                string    `json:"id"`
	ShipmentID        string    `json:"shipment_id"`
	TrackingNumber    string    `json:"tracking_number"`
	StatusCode        string    `json:"status_code"`
	StatusType        string    `json:"status_type"`
	StatusDescription string    `json:"status_description"`
	LocationCity      string    `json:"location_city"`
	LocationState     string    `json:"location_state"`
	LocationCountry   string    `json:"location_country"`
	ActivityTimestamp time.Time `json:"activity_timestamp"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewTrackingEvent builds the event recorded for an activity.
func NewTrackingEvent(id string, s Shipment, a Activity, createdAt time.Time) (TrackingEvent, error) {
	ts, err := a.Timestamp()
	if err != nil {
		return TrackingEvent{}, err
	}

	return TrackingEvent{
		ID:                id,
		ShipmentID:        s.ID,
		TrackingNumber:    s.TrackingNumber,
		StatusCode:        a.StatusCode,
		StatusType:        a.StatusType,
		StatusDescription: a.StatusDescription,
		LocationCity:      a.Location.City,
		LocationState:     a.Location.State,
		LocationCountry:   a.Location.Country,
		ActivityTimestamp: ts,
		CreatedAt:         createdAt.UTC(),
	}, nil
}

// EventKey is the dedup key of a tracking event.
type EventKey struct {
	TrackingNumber    string
	ActivityTimestamp time.Time
	StatusCode        string
}

// Key returns the dedup key of e.
func (e TrackingEvent) Key() EventKey {
	return EventKey{
		TrackingNumber:    e.TrackingNumber,
		ActivityTimestamp: e.ActivityTimestamp.UTC(),
		StatusCode:        e.StatusCode,
	}
}
