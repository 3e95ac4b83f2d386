package remote

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Offline for every call.
var ErrUnavailable = errors.New("remote: store not configured")

// Offline is a Store with no backend. It makes every read degrade to the cache.
type Offline struct{}

func (Offline) SelectAll(context.Context, string, string) ([]Record, error) {
	return nil, ErrUnavailable
}

func (Offline) SelectWhere(context.Context, string, string, any) ([]Record, error) {
	return nil, ErrUnavailable
}

func (Offline) SelectByEmail(context.Context, string, string) (Record, error) {
	return nil, ErrUnavailable
}

func (Offline) Upsert(context.Context, string, Record) error { return ErrUnavailable }

func (Offline) UpsertMany(context.Context, string, []Record) error { return ErrUnavailable }

func (Offline) Delete(context.Context, string, string) error { return ErrUnavailable }

func (Offline) UpdatePartial(context.Context, string, string, Record) error {
	return ErrUnavailable
}

func (Offline) Increment(context.Context, string, string, string, int64) error {
	return ErrUnavailable
}

func (Offline) SelectProfilesJoined(context.Context) ([]Record, error) {
	return nil, ErrUnavailable
}
