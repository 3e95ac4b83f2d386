package reservation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"travelagency/database/repository/remote"
)

var errRemoteDown = errors.New("remote down")

// fakeRemote is an in-memory remote.Store with switchable failures.
type fakeRemote struct {
	mu     sync.Mutex
	tables map[string][]remote.Record

	failReads     bool
	failUpserts   bool
	failDeletes   bool
	failUpdates   bool
	failIncrement bool

	upsertManyCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{tables: map[string][]remote.Record{}}
}

func copyRecord(r remote.Record) remote.Record {
	out := make(remote.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (f *fakeRemote) put(table string, row remote.Record) {
	rows := f.tables[table]
	for i := range rows {
		if rows[i].ID() == row.ID() {
			rows[i] = copyRecord(row)
			return
		}
	}
	f.tables[table] = append(rows, copyRecord(row))
}

func (f *fakeRemote) row(table, id string) remote.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.tables[table] {
		if r.ID() == id {
			return copyRecord(r)
		}
	}
	return nil
}

func (f *fakeRemote) SelectAll(_ context.Context, table, _ string) ([]remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errRemoteDown
	}
	out := make([]remote.Record, 0, len(f.tables[table]))
	for _, r := range f.tables[table] {
		out = append(out, copyRecord(r))
	}
	return out, nil
}

func (f *fakeRemote) SelectWhere(_ context.Context, table, field string, value any) ([]remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errRemoteDown
	}
	var out []remote.Record
	for _, r := range f.tables[table] {
		if r[field] == value {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (f *fakeRemote) SelectByEmail(_ context.Context, table, email string) (remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errRemoteDown
	}
	for _, r := range f.tables[table] {
		if e, ok := r["email"].(string); ok && strings.EqualFold(e, email) {
			return copyRecord(r), nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) Upsert(_ context.Context, table string, row remote.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts {
		return errRemoteDown
	}
	f.put(table, row)
	return nil
}

func (f *fakeRemote) UpsertMany(_ context.Context, table string, rows []remote.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertManyCalls++
	if f.failUpserts {
		return errRemoteDown
	}
	for _, r := range rows {
		f.put(table, r)
	}
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes {
		return errRemoteDown
	}
	rows := f.tables[table]
	for i := range rows {
		if rows[i].ID() == id {
			f.tables[table] = append(rows[:i], rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) UpdatePartial(_ context.Context, table, id string, fields remote.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates {
		return errRemoteDown
	}
	for _, r := range f.tables[table] {
		if r.ID() == id {
			for k, v := range fields {
				r[k] = v
			}
			return nil
		}
	}
	return remote.ErrNoMatch
}

func (f *fakeRemote) Increment(_ context.Context, table, id, field string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement {
		return errRemoteDown
	}
	for _, r := range f.tables[table] {
		if r.ID() == id {
			r[field] = toInt64(r[field]) + delta
			return nil
		}
	}
	return remote.ErrNoMatch
}

func (f *fakeRemote) SelectProfilesJoined(ctx context.Context) ([]remote.Record, error) {
	profiles, err := f.SelectAll(ctx, remote.TableProfiles, "")
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if a := f.row(remote.TableAgencies, p.ID()); a != nil {
			for k, v := range a {
				if _, ok := p[k]; !ok {
					p[k] = v
				}
			}
		}
	}
	return profiles, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
