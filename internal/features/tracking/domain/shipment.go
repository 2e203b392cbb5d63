package domain

import "time"

// Shipment is a tracked parcel. It is created elsewhere and only its status
// fields are mutated by reconciliation.
type Shipment struct {
	ID             string     `json:"id"`
	TrackingNumber string     `json:"tracking_number"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	VoidedAt       *time.Time `json:"voided_at,omitempty"`
}

// StatusUpdate is the single write applied on a status transition.
type StatusUpdate struct {
	Status Status
	// DeliveredAt is set only when Status is delivered.
	DeliveredAt *time.Time
}

// StatusChange describes an applied transition for downstream notification.
type StatusChange struct {
	ShipmentID     string    `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         Status    `json:"status"`
	PreviousStatus Status    `json:"previous_status"`
	Latest         Activity  `json:"latest"`
	ChangedAt      time.Time `json:"changed_at"`
}
