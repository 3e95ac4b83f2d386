package reservation

import (
	"context"
	"errors"
	"strings"

	"travelagency/database/repository/remote"
	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

// Columns kept in the agencies table rather than on the profile row.
var agencyColumns = map[string]bool{
	"agency_name":       true,
	"agency_address":    true,
	"agency_phone":      true,
	"wallet_balance":    true,
	"agency_markup_pct": true,
	"status":            true,
}

func newProfileCollection(deps storeDeps) *collection[models.User] {
	c := newCollection[models.User]("profiles", remote.TableProfiles, "", deps)
	c.fetch = func(ctx context.Context) ([]remote.Record, error) {
		return c.remote.SelectProfilesJoined(ctx)
	}
	c.upsert = func(ctx context.Context, rows []remote.Record) error {
		var errs []error
		for _, row := range rows {
			profile, agency := splitProfile(row)
			if err := c.remote.Upsert(ctx, remote.TableProfiles, profile); err != nil {
				errs = append(errs, err)
				continue
			}
			if agency != nil {
				if err := upsertAgency(ctx, c.remote, agency); err != nil {
					errs = append(errs, err)
				}
			}
		}
		return errors.Join(errs...)
	}
	c.deleteRow = func(ctx context.Context, id string) error {
		err := c.remote.Delete(ctx, remote.TableProfiles, id)
		return errors.Join(err, c.remote.Delete(ctx, remote.TableAgencies, id))
	}
	return c
}

// upsertAgency updates an existing agencies row without touching its balance, which
// only moves through Increment. The full row, balance included, is written on first save.
func upsertAgency(ctx context.Context, store remote.Store, agency remote.Record) error {
	fields := remote.Record{}
	for k, v := range agency {
		if k != "wallet_balance" {
			fields[k] = v
		}
	}
	err := store.UpdatePartial(ctx, remote.TableAgencies, agency.ID(), fields)
	if errors.Is(err, remote.ErrNoMatch) {
		return store.Upsert(ctx, remote.TableAgencies, agency)
	}
	return err
}

// splitProfile separates agency columns of an AGENT row into their own record.
// Non-agent rows carry no agency columns at all.
func splitProfile(row remote.Record) (profile, agency remote.Record) {
	profile = remote.Record{}
	isAgent := row["role"] == utils.RoleAgent
	if isAgent {
		agency = remote.Record{"id": row["id"]}
	}
	for k, v := range row {
		if !agencyColumns[k] {
			profile[k] = v
			continue
		}
		if isAgent {
			agency[k] = v
		}
	}
	return profile, agency
}

func (s *Store) GetProfiles(ctx context.Context) ([]models.User, error) {
	return s.profiles.list(ctx)
}

// GetAgents returns agency profiles.
func (s *Store) GetAgents(ctx context.Context) ([]models.User, error) {
	all, err := s.profiles.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.User
	for _, u := range all {
		if u.Role == utils.RoleAgent {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.User, error) {
	u, ok, err := s.profiles.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.NotFoundError{Entity: "profile", ID: id}
	}
	return &u, nil
}

// FindProfileByEmail looks a profile up case-insensitively. It returns nil, nil when
// no profile matches. A failed remote lookup falls back to the cached profiles.
func (s *Store) FindProfileByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := s.remote.SelectByEmail(ctx, remote.TableProfiles, email)
	if err == nil {
		if row == nil || s.profiles.blocked(ctx)[row.ID()] {
			return nil, nil
		}
		if row["role"] == utils.RoleAgent {
			agencies, aerr := s.remote.SelectWhere(ctx, remote.TableAgencies, "id", row.ID())
			if aerr != nil {
				s.logger.Warn("agency lookup failed", zap.String("id", row.ID()), zap.Error(aerr))
			} else if len(agencies) > 0 {
				for k, v := range agencies[0] {
					if _, ok := row[k]; !ok {
						row[k] = v
					}
				}
			}
		}
		u, derr := decode[models.User](row)
		if derr != nil {
			return nil, derr
		}
		if u.IsDeleted {
			return nil, nil
		}
		return &u, nil
	}

	s.logger.Warn("remote email lookup failed, searching local cache", zap.Error(err))
	cached, _, cerr := s.profiles.readCache(ctx)
	if cerr != nil {
		return nil, cerr
	}
	for _, u := range s.profiles.filter(ctx, cached) {
		if equalFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

// SaveProfile creates or replaces a profile.
func (s *Store) SaveProfile(ctx context.Context, u models.User) ([]models.User, error) {
	if u.ID == "" {
		u.ID = s.newID("USR-")
	}
	return s.profiles.save(ctx, u)
}

// SetApprovalStatus records an operator's decision on an agency account.
func (s *Store) SetApprovalStatus(ctx context.Context, id, status string) (*models.User, error) {
	switch status {
	case models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
	default:
		return nil, utils.NewValidationError("status", "unknown approval status %q", status)
	}
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != utils.RoleAgent {
		return nil, ErrNotAgent
	}
	u.Status = status
	if _, err := s.profiles.save(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAgent hard-deletes an agency account.
func (s *Store) DeleteAgent(ctx context.Context, id string) ([]models.User, error) {
	return s.profiles.hardDelete(ctx, id)
}

// adjustWallet applies delta to an agency balance remotely, then mirrors it in the cache.
func (s *Store) adjustWallet(ctx context.Context, agencyID string, delta int64) error {
	if err := s.remote.Increment(ctx, remote.TableAgencies, agencyID, "wallet_balance", delta); err != nil {
		return err
	}
	found := s.profiles.updateCached(ctx, agencyID, func(u *models.User) {
		u.WalletBalance += delta
	})
	if !found {
		_, err := s.profiles.list(ctx)
		return err
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
