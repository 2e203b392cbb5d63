package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default bounds applied when ReconcilerConfig leaves them zero.
const (
	DefaultCarrierTimeout = 20 * time.Second
	DefaultNotifyTimeout  = 15 * time.Second
)

// ReconcilerConfig bounds the outbound calls of one reconciliation.
type ReconcilerConfig struct {
	CarrierTimeout time.Duration
	NotifyTimeout  time.Duration
	// Delay is waited between carrier calls within a batch.
	Delay time.Duration
}

// Outcome is what reconciling one shipment did.
type Outcome struct {
	EventsRecorded int
	// Change is set when the status transitioned.
	Change *domain.StatusChange
}

// BatchResult summarizes one pass over the active shipments.
type BatchResult struct {
	Polled         int `json:"polled"`
	Updated        int `json:"updated"`
	EventsRecorded int `json:"events_recorded"`
	Errors         int `json:"errors"`
}

// Reconciler brings persisted shipment state in line with carrier activity.
type Reconciler struct {
	provider  ports.TrackingProvider
	shipments ports.ShipmentStore
	events    ports.EventStore
	notifier  ports.Notifier
	cfg       ReconcilerConfig
	clock     clock.Clock
	newID     func() string
}

// NewReconciler creates a Reconciler. A nil notifier disables notifications and
// a nil clock means the wall clock.
func NewReconciler(
	provider ports.TrackingProvider,
	shipments ports.ShipmentStore,
	events ports.EventStore,
	notifier ports.Notifier,
	cfg ReconcilerConfig,
	clk clock.Clock,
) *Reconciler {
	if cfg.CarrierTimeout <= 0 {
		cfg.CarrierTimeout = DefaultCarrierTimeout
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Reconciler{
		provider:  provider,
		shipments: shipments,
		events:    events,
		notifier:  notifier,
		cfg:       cfg,
		clock:     clk,
		newID:     uuid.NewString,
	}
}

// ReconcileShipment fetches the shipment's activity, records unseen events,
// applies a status transition when the latest activity maps to a different
// status and notifies on transition. A failed notification is logged and
// does not undo the transition.
func (r *Reconciler) ReconcileShipment(ctx context.Context, shipment domain.Shipment) (Outcome, error) {
	log := logger.Named("reconciler").With(zap.String("tracking_number", shipment.TrackingNumber))
	var out Outcome

	activities, err := r.fetch(ctx, shipment.TrackingNumber)
	if err != nil {
		return out, fmt.Errorf("failed to fetch activity: %w", err)
	}

	for _, activity := range activities {
		event, err := domain.NewTrackingEvent(r.newID(), shipment, activity, r.clock.Now())
		if err != nil {
			log.Debug("Skipping activity without timestamp",
				zap.String("status_code", activity.StatusCode),
				zap.String("description", activity.StatusDescription))
			continue
		}

		exists, err := r.events.ExistsEvent(ctx, event.Key())
		if err != nil {
			return out, fmt.Errorf("failed to check event: %w", err)
		}
		if exists {
			continue
		}

		inserted, err := r.events.InsertEvent(ctx, event)
		if err != nil {
			return out, fmt.Errorf("failed to insert event: %w", err)
		}
		if inserted {
			out.EventsRecorded++
		}
	}

	if len(activities) == 0 {
		return out, nil
	}

	latest := activities[0]
	next, ok := domain.MapCarrierStatus(latest.StatusType, latest.StatusCode)
	if !ok || next == shipment.Status {
		return out, nil
	}

	now := r.clock.Now().UTC()
	update := domain.StatusUpdate{Status: next}
	if next == domain.StatusDelivered {
		update.DeliveredAt = &now
	}

	if err := r.shipments.UpdateStatus(ctx, shipment.TrackingNumber, update); err != nil {
		return out, fmt.Errorf("failed to update status: %w", err)
	}

	change := domain.StatusChange{
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		Status:         next,
		PreviousStatus: shipment.Status,
		Latest:         latest,
		ChangedAt:      now,
	}
	out.Change = &change

	log.Info("Shipment status changed",
		zap.String("previous_status", string(shipment.Status)),
		zap.String("status", string(next)))

	r.notify(ctx, change, log)
	return out, nil
}

// RunBatch reconciles every active shipment sequentially. Failing to load the
// active set aborts the batch; per-shipment failures are counted and skipped.
// Cancellation is honored between shipments and during the inter-call delay.
func (r *Reconciler) RunBatch(ctx context.Context) (BatchResult, error) {
	log := logger.Named("reconciler")
	var result BatchResult

	shipments, err := r.shipments.GetActiveShipments(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load active shipments: %w", err)
	}

	log.Info("Tracking batch started", zap.Int("shipments", len(shipments)))

	for i, shipment := range shipments {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 {
			if err := r.wait(ctx); err != nil {
				return result, err
			}
		}

		result.Polled++
		out, err := r.ReconcileShipment(ctx, shipment)
		result.EventsRecorded += out.EventsRecorded
		if err != nil {
			result.Errors++
			log.Error("Failed to reconcile shipment",
				zap.String("tracking_number", shipment.TrackingNumber),
				zap.Error(err))
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return result, ctx.Err()
			}
			continue
		}
		if out.Change != nil {
			result.Updated++
		}
	}

	log.Info("Tracking batch finished",
		zap.Int("polled", result.Polled),
		zap.Int("updated", result.Updated),
		zap.Int("events_recorded", result.EventsRecorded),
		zap.Int("errors", result.Errors))

	return result, nil
}

func (r *Reconciler) fetch(ctx context.Context, trackingNumber string) ([]domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.CarrierTimeout)
	defer cancel()
	return r.provider.GetActivity(ctx, trackingNumber)
}

func (r *Reconciler) notify(ctx context.Context, change domain.StatusChange, log *zap.Logger) {
	if r.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.NotifyTimeout)
	defer cancel()

	res := r.notifier.Notify(ctx, change)
	if !res.Success {
		log.Warn("Status notification failed",
			zap.Int("status_code", res.StatusCode),
			zap.String("body", res.Body),
			zap.Error(res.Err))
	}
}

func (r *Reconciler) wait(ctx context.Context) error {
	if r.cfg.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.clock.After(r.cfg.Delay):
		return nil
	}
}
