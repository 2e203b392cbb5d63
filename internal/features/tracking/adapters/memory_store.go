package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"

	"github.com/google/uuid"
)

// MemoryStore is an in-process ShipmentStore and EventStore for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	shipments map[string]domain.Shipment
	order     []string
	events    map[domain.EventKey]domain.TrackingEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shipments: make(map[string]domain.Shipment),
		events:    make(map[domain.EventKey]domain.TrackingEvent),
	}
}

// CreateShipment implements ports.ShipmentRegistry.
func (s *MemoryStore) CreateShipment(ctx context.Context, trackingNumber string, createdAt time.Time) (domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh, ok := s.shipments[trackingNumber]; ok {
		return sh, nil
	}
	sh := domain.Shipment{
		ID:             uuid.NewString(),
		TrackingNumber: trackingNumber,
		Status:         domain.StatusCreated,
		CreatedAt:      createdAt.UTC(),
	}
	s.shipments[trackingNumber] = sh
	s.order = append(s.order, trackingNumber)
	return sh, nil
}

// GetActiveShipments implements ports.ShipmentStore, in creation order.
func (s *MemoryStore) GetActiveShipments(ctx context.Context) ([]domain.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Shipment
	for _, tn := range s.order {
		if sh := s.shipments[tn]; !sh.Status.IsTerminal() {
			out = append(out, sh)
		}
	}
	return out, nil
}

// GetByTrackingNumber implements ports.ShipmentStore.
func (s *MemoryStore) GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shipments[trackingNumber]
	if !ok {
		return domain.Shipment{}, fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, trackingNumber)
	}
	return sh, nil
}

// UpdateStatus implements ports.ShipmentStore.
func (s *MemoryStore) UpdateStatus(ctx context.Context, trackingNumber string, update domain.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shipments[trackingNumber]
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, trackingNumber)
	}
	sh.Status = update.Status
	if update.DeliveredAt != nil {
		at := *update.DeliveredAt
		sh.DeliveredAt = &at
	}
	s.shipments[trackingNumber] = sh
	return nil
}

// ExistsEvent implements ports.EventStore.
func (s *MemoryStore) ExistsEvent(ctx context.Context, key domain.EventKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.events[key]
	return ok, nil
}

// InsertEvent implements ports.EventStore.
func (s *MemoryStore) InsertEvent(ctx context.Context, e domain.TrackingEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := e.Key()
	if _, ok := s.events[key]; ok {
		return false, nil
	}
	s.events[key] = e
	return true, nil
}

// ListEvents implements ports.EventStore, most recent activity first.
func (s *MemoryStore) ListEvents(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TrackingEvent
	for _, e := range s.events {
		if e.TrackingNumber == trackingNumber {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ActivityTimestamp.Equal(out[j].ActivityTimestamp) {
			return out[i].ActivityTimestamp.After(out[j].ActivityTimestamp)
		}
		return out[i].StatusCode < out[j].StatusCode
	})
	return out, nil
}
