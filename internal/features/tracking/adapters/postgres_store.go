package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements ports.ShipmentStore and ports.EventStore on Postgres.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const shipmentColumns = `id::text, tracking_number, status, created_at, delivered_at, voided_at`

const (
	selectActiveShipments = `SELECT ` + shipmentColumns + ` FROM shipments
		WHERE status <> ALL($1) ORDER BY created_at, id`

	selectShipmentByTrackingNumber = `SELECT ` + shipmentColumns + ` FROM shipments
		WHERE tracking_number = $1`

	updateShipmentStatus = `UPDATE shipments
		SET status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = now()
		WHERE tracking_number = $1`

	insertShipment = `INSERT INTO shipments (tracking_number, status, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tracking_number) DO NOTHING
		RETURNING ` + shipmentColumns

	existsEvent = `SELECT EXISTS (SELECT 1 FROM tracking_events
		WHERE tracking_number = $1 AND activity_timestamp = $2 AND status_code = $3)`

	insertEvent = `INSERT INTO tracking_events (
			id, shipment_id, tracking_number, status_code, status_type, status_description,
			location_city, location_state, location_country, activity_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tracking_number, activity_timestamp, status_code) DO NOTHING`

	selectEvents = `SELECT id::text, shipment_id::text, tracking_number, status_code, status_type,
			status_description, location_city, location_state, location_country,
			activity_timestamp, created_at
		FROM tracking_events
		WHERE tracking_number = $1
		ORDER BY activity_timestamp DESC, status_code`
)

func terminalStatusStrings() []string {
	out := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		out[i] = string(s)
	}
	return out
}

// GetActiveShipments implements ports.ShipmentStore.
func (s *PostgresStore) GetActiveShipments(ctx context.Context) ([]domain.Shipment, error) {
	rows, err := s.db.Query(ctx, selectActiveShipments, terminalStatusStrings())
	if err != nil {
		return nil, fmt.Errorf("failed to query active shipments: %w", err)
	}
	defer rows.Close()

	var shipments []domain.Shipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active shipments: %w", err)
	}
	return shipments, nil
}

// GetByTrackingNumber implements ports.ShipmentStore.
func (s *PostgresStore) GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Shipment, error) {
	sh, err := scanShipment(s.db.QueryRow(ctx, selectShipmentByTrackingNumber, trackingNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shipment{}, fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, trackingNumber)
	}
	return sh, err
}

// UpdateStatus implements ports.ShipmentStore.
func (s *PostgresStore) UpdateStatus(ctx context.Context, trackingNumber string, update domain.StatusUpdate) error {
	tag, err := s.db.Exec(ctx, updateShipmentStatus, trackingNumber, string(update.Status), update.DeliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update shipment %s: %w", trackingNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, trackingNumber)
	}
	return nil
}

// CreateShipment registers a tracking number in the created state. An
// existing tracking number returns the stored shipment unchanged.
func (s *PostgresStore) CreateShipment(ctx context.Context, trackingNumber string, createdAt time.Time) (domain.Shipment, error) {
	sh, err := scanShipment(s.db.QueryRow(ctx, insertShipment, trackingNumber, string(domain.StatusCreated), createdAt.UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return s.GetByTrackingNumber(ctx, trackingNumber)
	}
	return sh, err
}

// ExistsEvent implements ports.EventStore.
func (s *PostgresStore) ExistsEvent(ctx context.Context, key domain.EventKey) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, existsEvent, key.TrackingNumber, key.ActivityTimestamp.UTC(), key.StatusCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event: %w", err)
	}
	return exists, nil
}

// InsertEvent implements ports.EventStore. A duplicate key is not an error.
func (s *PostgresStore) InsertEvent(ctx context.Context, e domain.TrackingEvent) (bool, error) {
	tag, err := s.db.Exec(ctx, insertEvent,
		e.ID,
		e.ShipmentID,
		e.TrackingNumber,
		e.StatusCode,
		e.StatusType,
		e.StatusDescription,
		e.LocationCity,
		e.LocationState,
		e.LocationCountry,
		e.ActivityTimestamp.UTC(),
		e.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListEvents implements ports.EventStore.
func (s *PostgresStore) ListEvents(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	rows, err := s.db.Query(ctx, selectEvents, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.TrackingEvent
	for rows.Next() {
		var e domain.TrackingEvent
		if err := rows.Scan(
			&e.ID,
			&e.ShipmentID,
			&e.TrackingNumber,
			&e.StatusCode,
			&e.StatusType,
			&e.StatusDescription,
			&e.LocationCity,
			&e.LocationState,
			&e.LocationCountry,
			&e.ActivityTimestamp,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

func scanShipment(row pgx.Row) (domain.Shipment, error) {
	var (
		sh     domain.Shipment
		status string
	)
	if err := row.Scan(&sh.ID, &sh.TrackingNumber, &status, &sh.CreatedAt, &sh.DeliveredAt, &sh.VoidedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Shipment{}, err
		}
		return domain.Shipment{}, fmt.Errorf("failed to scan shipment: %w", err)
	}
	sh.Status = domain.Status(status)
	return sh, nil
}
