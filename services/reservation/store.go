package reservation

import (
	"context"
	"strings"
	"time"

	"travelagency/database/repository/remote"
	"travelagency/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tune a Store.
type Options struct {
	SeedPackages []models.TravelPackage
	MinTopUp     int64
	Logger       *zap.Logger
	Now          func() time.Time
}

type storeDeps struct {
	remote remote.Store
	cache  LocalCache
	policy ReconcilePolicy
	logger *zap.Logger
}

// Store is the single façade over the remote store and the local cache for
// packages, bookings, subscribers, profiles and wallet requests.
type Store struct {
	remote   remote.Store
	logger   *zap.Logger
	minTopUp int64
	now      func() time.Time

	packages       *collection[models.TravelPackage]
	bookings       *collection[models.Booking]
	subscribers    *collection[models.Subscriber]
	profiles       *collection[models.User]
	walletRequests *collection[models.WalletRequest]
}

// NewStore wires the collections. A nil remote behaves as permanently offline;
// a nil cache is replaced by an in-memory one.
func NewStore(r remote.Store, cache LocalCache, opts Options) *Store {
	if r == nil {
		r = remote.Offline{}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	deps := storeDeps{remote: r, cache: cache, logger: logger.Named("reservation")}

	s := &Store{
		remote:   r,
		logger:   deps.logger,
		minTopUp: opts.MinTopUp,
		now:      now,
	}
	s.packages = newCollection[models.TravelPackage]("packages", remote.TablePackages, "created_at", deps)
	s.packages.seed = opts.SeedPackages
	s.bookings = newCollection[models.Booking]("bookings", remote.TableBookings, "date", deps)
	s.subscribers = newCollection[models.Subscriber]("subscribers", remote.TableSubscribers, "created_at", deps)
	s.walletRequests = newCollection[models.WalletRequest]("wallet_requests", remote.TableWalletRequests, "date", deps)
	s.profiles = newProfileCollection(deps)
	return s
}

func (s *Store) newID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Sync refreshes every collection from the remote, running any pending migration.
func (s *Store) Sync(ctx context.Context) {
	if _, err := s.packages.list(ctx); err != nil {
		s.logger.Warn("package sync failed", zap.Error(err))
	}
	if _, err := s.bookings.list(ctx); err != nil {
		s.logger.Warn("booking sync failed", zap.Error(err))
	}
	if _, err := s.subscribers.list(ctx); err != nil {
		s.logger.Warn("subscriber sync failed", zap.Error(err))
	}
	if _, err := s.profiles.list(ctx); err != nil {
		s.logger.Warn("profile sync failed", zap.Error(err))
	}
	if _, err := s.walletRequests.list(ctx); err != nil {
		s.logger.Warn("wallet request sync failed", zap.Error(err))
	}
}
