package remote

import (
	"context"
	"errors"
)

// Table names in the durable store.
const (
	TablePackages       = "packages"
	TableBookings       = "bookings"
	TableSubscribers    = "subscribers"
	TableProfiles       = "profiles"
	TableAgencies       = "agencies"
	TableWalletRequests = "wallet_requests"
)

// ErrNoMatch is returned when a targeted update finds no row with the given id.
var ErrNoMatch = errors.New("remote: no row matched")

// Record is a store-shaped row: snake_case keys, JSON-compatible values.
type Record map[string]any

// ID returns the row identifier, or "" when absent.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Store is the durable remote store. Every call is bounded by ctx.
type Store interface {
	// SelectAll returns every row of table, newest first by orderBy.
	SelectAll(ctx context.Context, table, orderBy string) ([]Record, error)
	// SelectWhere returns rows whose field equals value.
	SelectWhere(ctx context.Context, table, field string, value any) ([]Record, error)
	// SelectByEmail matches the email column case-insensitively. Returns nil, nil when absent.
	SelectByEmail(ctx context.Context, table, email string) (Record, error)
	Upsert(ctx context.Context, table string, row Record) error
	UpsertMany(ctx context.Context, table string, rows []Record) error
	Delete(ctx context.Context, table, id string) error
	UpdatePartial(ctx context.Context, table, id string, fields Record) error
	// Increment adds delta to a numeric column.
	Increment(ctx context.Context, table, id, field string, delta int64) error
	// SelectProfilesJoined returns profiles merged with their agencies row (same id).
	SelectProfilesJoined(ctx context.Context) ([]Record, error)
}
