package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"travelagency/database/repository/remote"

	"go.uber.org/zap"
)

// Entity is anything the store keeps in a collection.
type Entity interface {
	GetID() string
	Deleted() bool
}

// collection reconciles one entity type between the remote store and the local cache.
type collection[T Entity] struct {
	name    string
	table   string
	orderBy string
	seed    []T

	remote remote.Store
	cache  LocalCache
	policy ReconcilePolicy
	logger *zap.Logger

	// Overrides for entities stored across more than one table.
	fetch     func(ctx context.Context) ([]remote.Record, error)
	upsert    func(ctx context.Context, rows []remote.Record) error
	deleteRow func(ctx context.Context, id string) error

	mu sync.Mutex
}

func newCollection[T Entity](name, table, orderBy string, deps storeDeps) *collection[T] {
	c := &collection[T]{
		name:    name,
		table:   table,
		orderBy: orderBy,
		remote:  deps.remote,
		cache:   deps.cache,
		policy:  deps.policy,
		logger:  deps.logger.With(zap.String("collection", name)),
	}
	c.fetch = func(ctx context.Context) ([]remote.Record, error) {
		return c.remote.SelectAll(ctx, c.table, c.orderBy)
	}
	c.upsert = func(ctx context.Context, rows []remote.Record) error {
		if len(rows) == 1 {
			return c.remote.Upsert(ctx, c.table, rows[0])
		}
		return c.remote.UpsertMany(ctx, c.table, rows)
	}
	c.deleteRow = func(ctx context.Context, id string) error {
		return c.remote.Delete(ctx, c.table, id)
	}
	return c
}

func (c *collection[T]) cacheKey() string { return c.name }
func (c *collection[T]) blockListKey() string { return "deleted_ids:" + c.name }
func (c *collection[T]) migratedKey() string { return "migrated:" + c.name }

// list runs the read contract and returns the filtered collection.
func (c *collection[T]) list(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(ctx)
}

func (c *collection[T]) listLocked(ctx context.Context) ([]T, error) {
	rows, remoteErr := c.fetch(ctx)
	remoteItems := c.decodeRows(rows)

	cached, found, cacheErr := c.readCache(ctx)
	if cacheErr != nil {
		c.logger.Warn("local cache read failed", zap.Error(cacheErr))
	}
	cached = c.filter(ctx, cached)

	st := ReadState{
		RemoteErr:  remoteErr,
		RemoteRows: len(remoteItems),
		CacheFound: found,
		CacheRows:  len(cached),
		SeedRows:   len(c.seed),
		Migrated:   c.migrated(ctx),
	}
	outcome := c.policy.Resolve(st)

	var items []T
	switch outcome {
	case AdoptRemote:
		items = remoteItems
		if len(remoteItems) > 0 && !st.Migrated {
			c.markMigrated(ctx)
		}
	case MigrateCache:
		items = cached
	case MigrateSeed:
		items = append([]T(nil), c.seed...)
	case FallbackCache:
		c.logger.Warn("remote read failed, serving local cache", zap.Error(remoteErr))
		if cacheErr != nil {
			return nil, fmt.Errorf("%s unavailable: remote: %v, cache: %w", c.name, remoteErr, cacheErr)
		}
		items = cached
	case FallbackSeed:
		c.logger.Warn("remote read failed, serving seed data", zap.Error(remoteErr))
		items = append([]T(nil), c.seed...)
	}

	if outcome.Migrates() {
		if err := c.upsert(ctx, c.encodeAll(items)); err != nil {
			c.logger.Warn("migration to remote failed", zap.String("source", outcome.String()), zap.Error(err))
		} else {
			c.logger.Info("migrated local data to remote", zap.String("source", outcome.String()), zap.Int("rows", len(items)))
			c.markMigrated(ctx)
		}
	}

	items = c.filter(ctx, items)
	c.writeCache(ctx, items)
	return items, nil
}

// find returns the entity with id from a fresh read.
func (c *collection[T]) find(ctx context.Context, id string) (T, bool, error) {
	items, err := c.list(ctx)
	var zero T
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if it.GetID() == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// save upserts remotely, then merges the entity into the cached set.
func (c *collection[T]) save(ctx context.Context, item T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row, err := encode(item)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", c.name, item.GetID(), err)
	}
	if err := c.upsert(ctx, []remote.Record{row}); err != nil {
		c.logger.Warn("remote upsert failed, keeping local write", zap.String("id", item.GetID()), zap.Error(err))
	}
	return c.mergeCachedLocked(ctx, item), nil
}

// putCached merges the entity into the cache without touching the remote.
func (c *collection[T]) putCached(ctx context.Context, item T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mergeCachedLocked(ctx, item)
}

// updateCached applies fn to the cached entity with id. It reports whether the id was cached.
func (c *collection[T]) updateCached(ctx context.Context, id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, _, err := c.readCache(ctx)
	if err != nil {
		c.logger.Warn("local cache read failed", zap.Error(err))
		return false
	}
	for i := range cached {
		if cached[i].GetID() == id {
			fn(&cached[i])
			c.writeCache(ctx, c.filter(ctx, cached))
			return true
		}
	}
	return false
}

// mergeCachedLocked merges the entity into the current read set. A cold cache
// is filled by a full read first.
func (c *collection[T]) mergeCachedLocked(ctx context.Context, item T) []T {
	cached, found, err := c.readCache(ctx)
	if err != nil {
		c.logger.Warn("local cache read failed", zap.Error(err))
	}
	if !found {
		if read, err := c.listLocked(ctx); err == nil {
			cached = read
		} else {
			c.logger.Warn("read before merge failed", zap.Error(err))
		}
	}
	items := c.filter(ctx, cached)

	replaced := false
	for i := range items {
		if items[i].GetID() == item.GetID() {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append([]T{item}, items...)
	}
	if item.Deleted() {
		items = removeID(items, item.GetID())
	}
	c.writeCache(ctx, items)
	return items
}

// hardDelete block-lists the id, drops it from the cache, then deletes it remotely.
// A remote failure is returned as a *RemoteSyncWarning; the local removal stands.
func (c *collection[T]) hardDelete(ctx context.Context, id string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.block(ctx, id)

	cached, _, err := c.readCache(ctx)
	if err != nil {
		c.logger.Warn("local cache read failed", zap.Error(err))
	}
	items := removeID(c.filter(ctx, cached), id)
	c.writeCache(ctx, items)

	if err := c.deleteRow(ctx, id); err != nil {
		c.logger.Warn("remote delete failed", zap.String("id", id), zap.Error(err))
		return items, &RemoteSyncWarning{Table: c.table, ID: id, Err: err}
	}
	return items, nil
}

func (c *collection[T]) filter(ctx context.Context, items []T) []T {
	blocked := c.blocked(ctx)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Deleted() || blocked[it.GetID()] {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c *collection[T]) readCache(ctx context.Context) ([]T, bool, error) {
	raw, ok, err := c.cache.Get(ctx, c.cacheKey())
	if err != nil || !ok {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", c.cacheKey(), err)
	}
	return items, true, nil
}

func (c *collection[T]) writeCache(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("failed to encode cache", zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(), string(data)); err != nil {
		c.logger.Warn("local cache write failed", zap.Error(err))
	}
}

func (c *collection[T]) blocked(ctx context.Context) map[string]bool {
	set := map[string]bool{}
	raw, ok, err := c.cache.Get(ctx, c.blockListKey())
	if err != nil || !ok {
		return set
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		c.logger.Warn("corrupt deleted-ids list", zap.Error(err))
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (c *collection[T]) block(ctx context.Context, id string) {
	set := c.blocked(ctx)
	if set[id] {
		return
	}
	ids := make([]string, 0, len(set)+1)
	for k := range set {
		ids = append(ids, k)
	}
	ids = append(ids, id)
	data, _ := json.Marshal(ids)
	if err := c.cache.Set(ctx, c.blockListKey(), string(data)); err != nil {
		c.logger.Warn("failed to persist deleted-ids list", zap.String("id", id), zap.Error(err))
	}
}

func (c *collection[T]) migrated(ctx context.Context) bool {
	v, ok, err := c.cache.Get(ctx, c.migratedKey())
	return err == nil && ok && v == "true"
}

func (c *collection[T]) markMigrated(ctx context.Context) {
	if err := c.cache.Set(ctx, c.migratedKey(), "true"); err != nil {
		c.logger.Warn("failed to persist migration flag", zap.Error(err))
	}
}

func (c *collection[T]) decodeRows(rows []remote.Record) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := decode[T](row)
		if err != nil {
			c.logger.Warn("skipping undecodable row", zap.String("id", row.ID()), zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *collection[T]) encodeAll(items []T) []remote.Record {
	rows := make([]remote.Record, 0, len(items))
	for _, it := range items {
		row, err := encode(it)
		if err != nil {
			c.logger.Warn("skipping unencodable entity", zap.String("id", it.GetID()), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func removeID[T Entity](items []T, id string) []T {
	out := items[:0]
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return out
}

// encode converts an entity to a store-shaped record.
func encode[T any](item T) (remote.Record, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var app map[string]any
	if err := dec.Decode(&app); err != nil {
		return nil, err
	}
	return ToStore(plainNumbers(app).(map[string]any)), nil
}

// decode converts a store-shaped record to an entity.
func decode[T any](row remote.Record) (T, error) {
	var item T
	data, err := json.Marshal(FromStore(row))
	if err != nil {
		return item, err
	}
	err = json.Unmarshal(data, &item)
	return item, err
}

// plainNumbers replaces json.Number with int64 when integral, float64 otherwise.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = plainNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = plainNumbers(val)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
