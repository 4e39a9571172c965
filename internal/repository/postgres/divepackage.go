package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

const packageColumns = `id, center_id, customer_id, name, total_dives, dives_used, price_cents, status, expiry_date, created_on, updated_on`

type divePackageRepository struct {
	db DBTX
}

func NewDivePackageRepository(db DBTX) repository.DivePackageRepository {
	return &divePackageRepository{db: db}
}

func (r *divePackageRepository) Create(ctx context.Context, p *domain.DivePackage) error {
	query := `INSERT INTO dive_packages (center_id, customer_id, name, total_dives, dives_used, price_cents, status, expiry_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	p.CreatedOn = now
	p.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		p.CenterID, p.CustomerID, p.Name, p.TotalDives, p.DivesUsed, p.PriceCents, p.Status, p.ExpiryDate, now, now,
	).Scan(&p.ID)
}

func (r *divePackageRepository) GetByID(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM dive_packages WHERE id = $1 AND center_id = $2`
	return r.get(ctx, query, id, centerID)
}

func (r *divePackageRepository) GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM dive_packages WHERE id = $1 AND center_id = $2 FOR UPDATE`
	return r.get(ctx, query, id, centerID)
}

func (r *divePackageRepository) get(ctx context.Context, query string, args ...any) (*domain.DivePackage, error) {
	p := &domain.DivePackage{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.CenterID, &p.CustomerID, &p.Name, &p.TotalDives, &p.DivesUsed, &p.PriceCents, &p.Status, &p.ExpiryDate, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *divePackageRepository) ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.DivePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM dive_packages WHERE center_id = $1 AND customer_id = $2 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, centerID, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []domain.DivePackage
	for rows.Next() {
		var p domain.DivePackage
		if err := rows.Scan(&p.ID, &p.CenterID, &p.CustomerID, &p.Name, &p.TotalDives, &p.DivesUsed, &p.PriceCents, &p.Status, &p.ExpiryDate, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (r *divePackageRepository) Update(ctx context.Context, p *domain.DivePackage) error {
	query := `UPDATE dive_packages SET dives_used=$1, status=$2, expiry_date=$3, updated_on=$4 WHERE id=$5 AND center_id=$6`
	p.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, p.DivesUsed, p.Status, p.ExpiryDate, p.UpdatedOn, p.ID, p.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExpireDue flips ACTIVE packages past their expiry date to EXPIRED. Used by
// the nightly job; runs across all centers.
func (r *divePackageRepository) ExpireDue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE dive_packages SET status='EXPIRED', updated_on=$1 WHERE status='ACTIVE' AND expiry_date IS NOT NULL AND expiry_date < $2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
