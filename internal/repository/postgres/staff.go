package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

type staffRepository struct {
	db DBTX
}

func NewStaffRepository(db DBTX) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, u *domain.StaffUser) error {
	query := `INSERT INTO staff_users (center_id, name, email, password_hash, role, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	u.CreatedOn = now
	u.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, u.CenterID, u.Name, u.Email, u.PasswordHash, u.Role, now, now).Scan(&u.ID)
}

func (r *staffRepository) GetByID(ctx context.Context, id int32) (*domain.StaffUser, error) {
	query := `SELECT id, center_id, name, email, password_hash, role, created_on, updated_on FROM staff_users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	query := `SELECT id, center_id, name, email, password_hash, role, created_on, updated_on FROM staff_users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *staffRepository) get(ctx context.Context, query string, args ...any) (*domain.StaffUser, error) {
	u := &domain.StaffUser{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CenterID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
