package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records statements and replays canned results.
type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execTag  pgconn.CommandTag
	execErr  error

	querySQL  string
	queryArgs []any
	rows      [][]any
	queryErr  error

	row    []any
	rowErr error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.querySQL = sql
	f.queryArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.querySQL = sql
	f.queryArgs = args
	return fakeRow{values: f.row, err: f.rowErr}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.idx++; return r.idx < len(r.rows) }
func (r *fakeRows) Scan(dest ...any) error                       { return assign(r.rows[r.idx], dest) }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.idx], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			if v == nil {
				*d = nil
			} else {
				t := v.(time.Time)
				*d = &t
			}
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPostgresStore_GetActiveShipments(t *testing.T) {
	delivered := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: [][]any{
		{"id-1", "1Z1", "in_transit", created, nil, nil},
		{"id-2", "1Z2", "created", created, delivered, nil},
	}}
	store := NewPostgresStore(db)

	shipments, err := store.GetActiveShipments(context.Background())

	require.NoError(t, err)
	require.Len(t, shipments, 2)
	assert.Equal(t, domain.StatusInTransit, shipments[0].Status)
	assert.Nil(t, shipments[0].DeliveredAt)
	require.NotNil(t, shipments[1].DeliveredAt)
	assert.Equal(t, delivered, *shipments[1].DeliveredAt)

	assert.Contains(t, db.querySQL, "status <> ALL($1)")
	assert.ElementsMatch(t, []string{"delivered", "voided", "returned", "exception_resolved"}, db.queryArgs[0])
}

func TestPostgresStore_GetActiveShipments_QueryError(t *testing.T) {
	store := NewPostgresStore(&fakeDB{queryErr: errors.New("connection reset")})

	_, err := store.GetActiveShipments(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresStore_GetByTrackingNumber(t *testing.T) {
	store := NewPostgresStore(&fakeDB{row: []any{"id-1", "1Z1", "created", created, nil, nil}})

	sh, err := store.GetByTrackingNumber(context.Background(), "1Z1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", sh.ID)

	store = NewPostgresStore(&fakeDB{rowErr: pgx.ErrNoRows})
	_, err = store.GetByTrackingNumber(context.Background(), "1Z404")
	assert.ErrorIs(t, err, ports.ErrShipmentNotFound)
}

func TestPostgresStore_UpdateStatus(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 1")}
	store := NewPostgresStore(db)
	at := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

	err := store.UpdateStatus(context.Background(), "1Z1", domain.StatusUpdate{Status: domain.StatusDelivered, DeliveredAt: &at})

	require.NoError(t, err)
	require.Len(t, db.execSQL, 1)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(db.execSQL[0]), "UPDATE shipments"))
	assert.Equal(t, []any{"1Z1", "delivered", &at}, db.execArgs[0])

	db.execTag = pgconn.NewCommandTag("UPDATE 0")
	err = store.UpdateStatus(context.Background(), "1Z404", domain.StatusUpdate{Status: domain.StatusInTransit})
	assert.ErrorIs(t, err, ports.ErrShipmentNotFound)
}

func TestPostgresStore_InsertEvent(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	store := NewPostgresStore(db)
	event := domain.TrackingEvent{
		ID:                "e-1",
		ShipmentID:        "id-1",
		TrackingNumber:    "1Z1",
		StatusCode:        "FS",
		ActivityTimestamp: time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC),
		CreatedAt:         created,
	}

	inserted, err := store.InsertEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Contains(t, db.execSQL[0], "ON CONFLICT (tracking_number, activity_timestamp, status_code) DO NOTHING")

	db.execTag = pgconn.NewCommandTag("INSERT 0 0")
	inserted, err = store.InsertEvent(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, inserted, "a conflicting row is reported as not inserted")

	db.execErr = errors.New("foreign key violation")
	_, err = store.InsertEvent(context.Background(), event)
	assert.Error(t, err)
}

func TestPostgresStore_ExistsEvent(t *testing.T) {
	db := &fakeDB{row: []any{true}}
	store := NewPostgresStore(db)
	ts := time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC)

	exists, err := store.ExistsEvent(context.Background(), domain.EventKey{TrackingNumber: "1Z1", ActivityTimestamp: ts, StatusCode: "FS"})

	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []any{"1Z1", ts, "FS"}, db.queryArgs)
}

func TestPostgresStore_ListEvents(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC)
	db := &fakeDB{rows: [][]any{
		{"e-1", "id-1", "1Z1", "FS", "D", "Delivered", "Austin", "TX", "US", ts, created},
	}}
	store := NewPostgresStore(db)

	events, err := store.ListEvents(context.Background(), "1Z1")

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Delivered", events[0].StatusDescription)
	assert.Equal(t, ts, events[0].ActivityTimestamp)
	assert.Contains(t, db.querySQL, "ORDER BY activity_timestamp DESC")
}

func TestPostgresStore_CreateShipment(t *testing.T) {
	db := &fakeDB{row: []any{"id-9", "1Z9", "created", created, nil, nil}}
	store := NewPostgresStore(db)

	sh, err := store.CreateShipment(context.Background(), "1Z9", created)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, sh.Status)
	assert.Equal(t, []any{"1Z9", "created", created}, db.queryArgs)
}
