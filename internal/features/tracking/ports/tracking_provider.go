package ports

import (
	"context"
	"errors"
	"time"

	"shipdesk/internal/features/tracking/domain"
)

var (
	// ErrShipmentNotFound is returned when no shipment has the tracking number.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrLockHeld is returned by RunLock.Acquire when another holder owns the lock.
	ErrLockHeld = errors.New("lock held by another runner")
)

// TrackingProvider defines the interface for carrier tracking implementations.
type TrackingProvider interface {
	// GetActivity returns the carrier activities of a shipment, most recent first.
	GetActivity(ctx context.Context, trackingNumber string) ([]domain.Activity, error)
}

// ShipmentStore persists shipments.
type ShipmentStore interface {
	// GetActiveShipments returns every shipment whose status is not terminal.
	GetActiveShipments(ctx context.Context) ([]domain.Shipment, error)
	// GetByTrackingNumber returns ErrShipmentNotFound when absent.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Shipment, error)
	// UpdateStatus applies a transition in a single write.
	UpdateStatus(ctx context.Context, trackingNumber string, update domain.StatusUpdate) error
}

// ShipmentRegistry registers tracking numbers to be polled.
type ShipmentRegistry interface {
	// CreateShipment stores a shipment in the created state. An existing
	// tracking number returns the stored shipment unchanged.
	CreateShipment(ctx context.Context, trackingNumber string, createdAt time.Time) (domain.Shipment, error)
}

// EventStore persists tracking events.
type EventStore interface {
	ExistsEvent(ctx context.Context, key domain.EventKey) (bool, error)
	// InsertEvent inserts the event unless its key already exists and reports whether it was written.
	InsertEvent(ctx context.Context, event domain.TrackingEvent) (bool, error)
	// ListEvents returns the recorded events of a shipment, most recent activity first.
	ListEvents(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error)
}

// NotifyResult is the outcome of a notification attempt.
type NotifyResult struct {
	Success    bool
	StatusCode int
	Body       string
	Err        error
}

// Notifier forwards status changes downstream. It reports failures in the
// result and never returns an error past its boundary.
type Notifier interface {
	Notify(ctx context.Context, change domain.StatusChange) NotifyResult
}

// RunLock guards a batch against concurrent runners in other processes.
type RunLock interface {
	// Acquire returns ErrLockHeld when another runner holds the lock.
	Acquire(ctx context.Context, ttl time.Duration) (release func(context.Context) error, err error)
}
