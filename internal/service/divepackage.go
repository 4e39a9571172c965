package service

import (
	"context"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

type divePackageService struct {
	store repository.Store
}

func NewDivePackageService(store repository.Store) DivePackageService {
	return &divePackageService{store: store}
}

func (s *divePackageService) CreatePackage(ctx context.Context, centerID int32, p *domain.DivePackage) error {
	if p.TotalDives <= 0 {
		return domain.NewValidationError("total_dives", "must be positive")
	}
	if _, err := s.store.Customers().GetByID(ctx, centerID, p.CustomerID); err != nil {
		return err
	}
	p.CenterID = centerID
	p.DivesUsed = 0
	p.Status = domain.DivePackageStatusActive
	return s.store.DivePackages().Create(ctx, p)
}

func (s *divePackageService) GetPackage(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	return s.store.DivePackages().GetByID(ctx, centerID, id)
}

func (s *divePackageService) ListPackagesByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.DivePackage, error) {
	return s.store.DivePackages().ListByCustomer(ctx, centerID, customerID)
}

// CanConsumePackage is the pre-check the dive-logging side runs before
// persisting a dive. A package past its expiry date is treated as expired
// even if the nightly expiry job has not swept it yet.
func (s *divePackageService) CanConsumePackage(ctx context.Context, centerID, id int32) (bool, error) {
	p, err := s.store.DivePackages().GetByID(ctx, centerID, id)
	if err != nil {
		return false, err
	}
	return p.Consumable() && !expired(p, today()), nil
}

// ConsumePackage burns exactly one dive. The increment and the possible flip
// to COMPLETED are one indivisible step under the package row lock; calling
// it on a non-consumable package is a caller bug and is rejected before any
// mutation.
func (s *divePackageService) ConsumePackage(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	var consumed *domain.DivePackage
	err := s.store.InTx(ctx, func(st repository.Store) error {
		p, err := st.DivePackages().GetByIDForUpdate(ctx, centerID, id)
		if err != nil {
			return err
		}
		if expired(p, today()) {
			if p.Status == domain.DivePackageStatusActive {
				p.Status = domain.DivePackageStatusExpired
				if err := st.DivePackages().Update(ctx, p); err != nil {
					return err
				}
			}
			return domain.NewStateError("dive package %d is expired", p.ID)
		}
		if !p.Consumable() {
			return domain.NewStateError("dive package %d is %s with %d of %d dives used", p.ID, p.Status, p.DivesUsed, p.TotalDives)
		}

		p.DivesUsed++
		if p.DivesUsed >= p.TotalDives {
			p.Status = domain.DivePackageStatusCompleted
		}
		if err := st.DivePackages().Update(ctx, p); err != nil {
			return err
		}
		consumed = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "dive consumed from package", "package_id", id, "center_id", centerID,
		"dives_used", consumed.DivesUsed, "total_dives", consumed.TotalDives, "status", consumed.Status)
	return consumed, nil
}

func expired(p *domain.DivePackage, asOf time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(asOf)
}
