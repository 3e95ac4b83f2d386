package reservation

import (
	"context"

	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

func (s *Store) GetPackages(ctx context.Context) ([]models.TravelPackage, error) {
	return s.packages.list(ctx)
}

// GetPackagesByType returns live packages of one service type.
func (s *Store) GetPackagesByType(ctx context.Context, serviceType string) ([]models.TravelPackage, error) {
	all, err := s.packages.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TravelPackage, 0, len(all))
	for _, p := range all {
		if p.Type == serviceType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetPackage(ctx context.Context, id string) (*models.TravelPackage, error) {
	p, ok, err := s.packages.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.NotFoundError{Entity: "package", ID: id}
	}
	return &p, nil
}

// SavePackage creates or replaces a package.
func (s *Store) SavePackage(ctx context.Context, p models.TravelPackage) ([]models.TravelPackage, error) {
	if p.Title == "" {
		return nil, utils.NewValidationError("title", "is required")
	}
	if !models.ValidServiceType(p.Type) {
		return nil, utils.NewValidationError("type", "unknown service type %q", p.Type)
	}
	if p.Stock < 0 {
		return nil, utils.NewValidationError("stock", "must not be negative")
	}
	if p.ID == "" {
		p.ID = s.newID("PKG-")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	return s.packages.save(ctx, p)
}

// ArchivePackage soft-deletes a package; reads filter it from then on.
func (s *Store) ArchivePackage(ctx context.Context, id string) ([]models.TravelPackage, error) {
	p, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsDeleted = true
	return s.packages.save(ctx, *p)
}

func (s *Store) DeletePackage(ctx context.Context, id string) ([]models.TravelPackage, error) {
	return s.packages.hardDelete(ctx, id)
}

// DecrementStock lowers a package's stock by n, never below zero.
func (s *Store) DecrementStock(ctx context.Context, packageID string, n int) error {
	p, err := s.GetPackage(ctx, packageID)
	if err != nil {
		return err
	}
	before := p.Stock
	p.Stock -= n
	if p.Stock < 0 {
		p.Stock = 0
	}
	if _, err := s.packages.save(ctx, *p); err != nil {
		return err
	}
	s.logger.Debug("stock decremented", zap.String("package", packageID), zap.Int("from", before), zap.Int("to", p.Stock))
	return nil
}
