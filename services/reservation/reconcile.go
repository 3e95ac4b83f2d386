package reservation

// Outcome is the source a read adopts.
type Outcome int

const (
	// AdoptRemote takes the remote rows as they are.
	AdoptRemote Outcome = iota
	// MigrateCache pushes the cached rows to the empty remote and adopts them.
	MigrateCache
	// MigrateSeed pushes the seed rows to the empty remote and adopts them.
	MigrateSeed
	// FallbackCache serves the cache because the remote read failed.
	FallbackCache
	// FallbackSeed serves the seed because the remote failed and nothing was ever cached.
	FallbackSeed
)

func (o Outcome) String() string {
	switch o {
	case AdoptRemote:
		return "adopt_remote"
	case MigrateCache:
		return "migrate_cache"
	case MigrateSeed:
		return "migrate_seed"
	case FallbackCache:
		return "fallback_cache"
	case FallbackSeed:
		return "fallback_seed"
	}
	return "unknown"
}

// Migrates reports whether the outcome writes to the remote store.
func (o Outcome) Migrates() bool {
	return o == MigrateCache || o == MigrateSeed
}

// ReadState is what a collection read observed before deciding.
type ReadState struct {
	RemoteErr  error
	RemoteRows int
	CacheFound bool // the cache key exists, even if it holds an empty list
	CacheRows  int
	SeedRows   int
	Migrated   bool
}

// ReconcilePolicy decides which of remote, cache and seed a read adopts.
// Remote wins when reachable. An empty remote is filled once from the cache,
// or from the seed when the cache is empty. A failed remote degrades to the cache.
type ReconcilePolicy struct{}

func (ReconcilePolicy) Resolve(st ReadState) Outcome {
	if st.RemoteErr != nil {
		if !st.CacheFound && st.SeedRows > 0 {
			return FallbackSeed
		}
		return FallbackCache
	}
	if st.RemoteRows > 0 || st.Migrated {
		return AdoptRemote
	}
	if st.CacheRows > 0 {
		return MigrateCache
	}
	if st.SeedRows > 0 {
		return MigrateSeed
	}
	return AdoptRemote
}
