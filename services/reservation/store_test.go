package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"travelagency/database/repository/remote"
	"travelagency/models"
	"travelagency/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(r *fakeRemote, seed ...models.TravelPackage) (*Store, *MemoryCache) {
	cache := NewMemoryCache()
	s := NewStore(r, cache, Options{SeedPackages: seed, MinTopUp: 10000})
	return s, cache
}

func pkg(id string, stock int) models.TravelPackage {
	return models.TravelPackage{
		ID:        id,
		Title:     "Trip " + id,
		Price:     100000,
		Type:      models.ServiceOrganizedTrip,
		Stock:     stock,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func putRemote[T any](t *testing.T, r *fakeRemote, table string, item T) {
	t.Helper()
	row, err := encode(item)
	require.NoError(t, err)
	r.put(table, row)
}

func packageIDs(items []models.TravelPackage) []string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func travelers(adults, children int) []models.Traveler {
	var out []models.Traveler
	for i := 0; i < adults; i++ {
		out = append(out, models.Traveler{Type: models.TravelerAdult, FirstName: "Adult", LastName: fmt.Sprint(i)})
	}
	for i := 0; i < children; i++ {
		out = append(out, models.Traveler{Type: models.TravelerChild, FirstName: "Child", LastName: fmt.Sprint(i)})
	}
	return out
}

func approvedAgent(balance int64) models.User {
	return models.User{
		ID:            "AG-1",
		Name:          "Karim",
		Email:         "sahara@x.com",
		Role:          utils.RoleAgent,
		AgencyName:    "Sahara Voyages",
		WalletBalance: balance,
		Status:        models.ApprovalApproved,
	}
}

func TestCreateBookingDecrementsStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		adults    int
		children  int
		wantStock int
	}{
		{"exact stock", 3, 2, 1, 0},
		{"partial stock", 5, 2, 0, 3},
		{"overbooked clamps at zero", 1, 2, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r := newFakeRemote()
			putRemote(t, r, remote.TablePackages, pkg("PKG-1", tt.stock))
			s, _ := newTestStore(r)

			_, created, err := s.CreateBooking(ctx, models.Booking{
				Type:      models.ServiceOrganizedTrip,
				Amount:    270000,
				PackageID: "PKG-1",
				Travelers: travelers(tt.adults, tt.children),
			})
			require.NoError(t, err)
			assert.Equal(t, models.BookingPending, created.Status)
			assert.Contains(t, created.ID, "BK-")
			assert.Equal(t, "Adult 0", created.CustomerName)

			p, err := s.GetPackage(ctx, "PKG-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, p.Stock)
			assert.Equal(t, int64(tt.wantStock), toInt64(r.row(remote.TablePackages, "PKG-1")["stock"]))
		})
	}
}

func TestCreateBookingSurvivesMissingPackage(t *testing.T) {
	s, _ := newTestStore(newFakeRemote())

	bookings, created, err := s.CreateBooking(context.Background(), models.Booking{
		Amount:    1000,
		PackageID: "PKG-GONE",
		Travelers: travelers(1, 0),
	})

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, created.ID, bookings[0].ID)
}

func TestGetPackagesFallsBackToCacheWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	r.failReads = true

	cache := NewMemoryCache()
	var cached []models.TravelPackage
	for i := 1; i <= 5; i++ {
		cached = append(cached, pkg(fmt.Sprintf("PKG-%d", i), 10))
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "packages", string(data)))

	s := NewStore(r, cache, Options{SeedPackages: DefaultSeedPackages()})
	got, err := s.GetPackages(ctx)

	require.NoError(t, err)
	assert.Equal(t, packageIDs(cached), packageIDs(got))
}

func TestHardDeleteIsImmediateEvenWhenRemoteDeleteFails(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	putRemote(t, r, remote.TablePackages, pkg("PKG-1", 3))
	putRemote(t, r, remote.TablePackages, pkg("PKG-2", 3))
	s, _ := newTestStore(r)
	_, err := s.GetPackages(ctx)
	require.NoError(t, err)

	r.failDeletes = true
	remaining, err := s.DeletePackage(ctx, "PKG-1")

	var warn *RemoteSyncWarning
	require.ErrorAs(t, err, &warn)
	assert.Equal(t, "PKG-1", warn.ID)
	assert.Equal(t, []string{"PKG-2"}, packageIDs(remaining))

	got, err := s.GetPackages(ctx)
	require.NoError(t, err)
	assert.NotContains(t, packageIDs(got), "PKG-1")
	assert.NotNil(t, r.row(remote.TablePackages, "PKG-1"), "remote row survives the failed delete")
}

func TestHardDeleteRemovesRemoteRow(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	putRemote(t, r, remote.TablePackages, pkg("PKG-1", 3))
	s, _ := newTestStore(r)

	_, err := s.DeletePackage(ctx, "PKG-1")

	require.NoError(t, err)
	assert.Nil(t, r.row(remote.TablePackages, "PKG-1"))
}

func TestEmptyRemoteMigratesSeedOnce(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, cache := newTestStore(r, pkg("PKG-A", 1), pkg("PKG-B", 1))

	got, err := s.GetPackages(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PKG-A", "PKG-B"}, packageIDs(got))
	assert.Len(t, r.tables[remote.TablePackages], 2)
	assert.Equal(t, 1, r.upsertManyCalls)

	flag, ok, err := cache.Get(ctx, "migrated:packages")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", flag)

	// An operator empties the remote table; the seed must not come back.
	r.tables[remote.TablePackages] = nil
	got, err = s.GetPackages(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, r.upsertManyCalls)
}

func TestEmptyRemoteMigratesCacheBeforeSeed(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, cache := newTestStore(r, pkg("PKG-SEED", 1))
	data, err := json.Marshal([]models.TravelPackage{pkg("PKG-LOCAL", 4)})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "packages", string(data)))

	got, err := s.GetPackages(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"PKG-LOCAL"}, packageIDs(got))
	assert.NotNil(t, r.row(remote.TablePackages, "PKG-LOCAL"))
	assert.Nil(t, r.row(remote.TablePackages, "PKG-SEED"))
}

func TestSavePackageReplacesPrependsAndDropsArchived(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)

	list, err := s.SavePackage(ctx, pkg("PKG-1", 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"PKG-1"}, packageIDs(list))

	list, err = s.SavePackage(ctx, pkg("PKG-2", 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"PKG-2", "PKG-1"}, packageIDs(list))

	list, err = s.SavePackage(ctx, pkg("PKG-1", 9))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 9, list[1].Stock)

	list, err = s.ArchivePackage(ctx, "PKG-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"PKG-2"}, packageIDs(list))

	got, err := s.GetPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PKG-2"}, packageIDs(got))
	assert.Equal(t, true, r.row(remote.TablePackages, "PKG-1")["is_deleted"])
}

func TestSavePackageKeepsLocalWriteWhenRemoteFails(t *testing.T) {
	r := newFakeRemote()
	r.failUpserts = true
	s, _ := newTestStore(r)

	list, err := s.SavePackage(context.Background(), models.TravelPackage{Title: "Bali", Type: models.ServiceOrganizedTrip, Stock: 2})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].ID, "PKG-")
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestSavePackageOnColdCacheKeepsRemoteRows(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	for _, id := range []string{"PKG-A", "PKG-B", "PKG-C"} {
		putRemote(t, r, remote.TablePackages, pkg(id, 4))
	}
	s, _ := newTestStore(r)

	list, err := s.SavePackage(ctx, pkg("PKG-NEW", 2))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PKG-A", "PKG-B", "PKG-C", "PKG-NEW"}, packageIDs(list))

	r.failReads = true
	got, err := s.GetPackages(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PKG-A", "PKG-B", "PKG-C", "PKG-NEW"}, packageIDs(got))
}

func TestSavePackageValidates(t *testing.T) {
	s, _ := newTestStore(newFakeRemote())

	_, err := s.SavePackage(context.Background(), models.TravelPackage{Title: "X", Type: "CRUISE"})
	assert.True(t, utils.IsValidation(err))

	_, err = s.SavePackage(context.Background(), models.TravelPackage{Title: "X", Type: models.ServiceVisa, Stock: -1})
	assert.True(t, utils.IsValidation(err))
}

func TestWalletApprovalCreditsAgency(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)
	assert.NotContains(t, r.row(remote.TableProfiles, "AG-1"), "wallet_balance")
	assert.Equal(t, int64(20000), toInt64(r.row(remote.TableAgencies, "AG-1")["wallet_balance"]))

	req, err := s.CreateWalletRequest(ctx, "AG-1", 50000, "proof.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, req.Status)
	assert.Equal(t, "Sahara Voyages", req.AgencyName)

	approved, err := s.ApproveWalletRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, approved.Status)

	agent, err := s.GetProfile(ctx, "AG-1")
	require.NoError(t, err)
	assert.Equal(t, int64(70000), agent.WalletBalance)

	_, err = s.ApproveWalletRequest(ctx, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	_, err = s.RejectWalletRequest(ctx, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	agent, err = s.GetProfile(ctx, "AG-1")
	require.NoError(t, err)
	assert.Equal(t, int64(70000), agent.WalletBalance)
}

func TestWalletRejectionLeavesBalance(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)
	req, err := s.CreateWalletRequest(ctx, "AG-1", 50000, "")
	require.NoError(t, err)

	rejected, err := s.RejectWalletRequest(ctx, req.ID)

	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, rejected.Status)
	agent, err := s.GetProfile(ctx, "AG-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), agent.WalletBalance)
}

func TestWalletApprovalReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)
	req, err := s.CreateWalletRequest(ctx, "AG-1", 50000, "")
	require.NoError(t, err)

	r.failIncrement = true
	_, err = s.ApproveWalletRequest(ctx, req.ID)

	var partial *PartialUpdateError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, req.ID, partial.RequestID)
	assert.Equal(t, models.ApprovalApproved, r.row(remote.TableWalletRequests, req.ID)["status"])
	assert.Equal(t, int64(20000), toInt64(r.row(remote.TableAgencies, "AG-1")["wallet_balance"]))
}

func TestWalletApprovalFailsCleanlyWhenStatusUpdateFails(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)
	req, err := s.CreateWalletRequest(ctx, "AG-1", 50000, "")
	require.NoError(t, err)

	r.failUpdates = true
	_, err = s.ApproveWalletRequest(ctx, req.ID)

	require.Error(t, err)
	var partial *PartialUpdateError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, models.ApprovalPending, r.row(remote.TableWalletRequests, req.ID)["status"])
}

func TestProfileSaveKeepsRemoteBalance(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)
	assert.EqualValues(t, 20000, r.row(remote.TableAgencies, "AG-1")["wallet_balance"])

	stale, err := s.GetProfile(ctx, "AG-1")
	require.NoError(t, err)

	// A credit lands between the read and the save.
	require.NoError(t, r.Increment(ctx, remote.TableAgencies, "AG-1", "wallet_balance", 50000))

	stale.AgencyName = "Sahara Voyages Plus"
	_, err = s.SaveProfile(ctx, *stale)
	require.NoError(t, err)

	row := r.row(remote.TableAgencies, "AG-1")
	assert.EqualValues(t, 70000, row["wallet_balance"])
	assert.Equal(t, "Sahara Voyages Plus", row["agency_name"])
}

func TestCreateWalletRequestEnforcesMinimum(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(newFakeRemote())
	_, err := s.SaveProfile(ctx, approvedAgent(0))
	require.NoError(t, err)

	_, err = s.CreateWalletRequest(ctx, "AG-1", 5000, "")

	assert.True(t, utils.IsValidation(err))
}

func TestAgencyBookingDebitsWallet(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)

	_, _, err = s.CreateBooking(ctx, models.Booking{AgencyID: "AG-1", Amount: 30000, Travelers: travelers(1, 0)})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	bookings, err := s.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	_, created, err := s.CreateBooking(ctx, models.Booking{
		AgencyID:      "AG-1",
		Amount:        15000,
		Travelers:     travelers(1, 0),
		PaymentMethod: models.PaymentCashAgency,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sahara Voyages", created.AgencyName)
	assert.Equal(t, models.PaymentWallet, created.PaymentMethod)

	agent, err := s.GetProfile(ctx, "AG-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), agent.WalletBalance)

	mine, err := s.GetBookingsByAgency(ctx, "AG-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, created, err := s.CreateBooking(ctx, models.Booking{Amount: 1000, Travelers: travelers(1, 0)})
	require.NoError(t, err)

	list, err := s.UpdateBookingStatus(ctx, created.ID, models.BookingConfirmed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.BookingConfirmed, list[0].Status)
	assert.Equal(t, models.BookingConfirmed, r.row(remote.TableBookings, created.ID)["status"])

	_, err = s.UpdateBookingStatus(ctx, created.ID, "Lost")
	assert.True(t, utils.IsValidation(err))
}

func TestSubscribeIsIdempotentPerEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(newFakeRemote())

	first, err := s.Subscribe(ctx, "A@X.com")
	require.NoError(t, err)
	second, err := s.Subscribe(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	emails, err := s.SubscriberEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails)

	_, err = s.Subscribe(ctx, "not-an-email")
	assert.True(t, utils.IsValidation(err))

	remaining, err := s.DeleteSubscriber(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestFindProfileByEmail(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(20000))
	require.NoError(t, err)

	u, err := s.FindProfileByEmail(ctx, "SAHARA@X.COM")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(20000), u.WalletBalance)
	assert.Equal(t, "Sahara Voyages", u.AgencyName)

	u, err = s.FindProfileByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	r.failReads = true
	u, err = s.FindProfileByEmail(ctx, "sahara@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "AG-1", u.ID)
}

func TestDeleteAgentRemovesBothRows(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	_, err := s.SaveProfile(ctx, approvedAgent(0))
	require.NoError(t, err)

	remaining, err := s.DeleteAgent(ctx, "AG-1")

	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Nil(t, r.row(remote.TableProfiles, "AG-1"))
	assert.Nil(t, r.row(remote.TableAgencies, "AG-1"))
}

func TestSetApprovalStatus(t *testing.T) {
	ctx := context.Background()
	r := newFakeRemote()
	s, _ := newTestStore(r)
	agent := approvedAgent(0)
	agent.Status = models.ApprovalPending
	_, err := s.SaveProfile(ctx, agent)
	require.NoError(t, err)

	u, err := s.SetApprovalStatus(ctx, "AG-1", models.ApprovalApproved)

	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, u.Status)
	assert.Equal(t, models.ApprovalApproved, r.row(remote.TableAgencies, "AG-1")["status"])
}
