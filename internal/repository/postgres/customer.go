package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (center_id, name, email, phone, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, c.CenterID, c.Name, c.Email, c.Phone, now, now).Scan(&c.ID)
}

func (r *customerRepository) GetByID(ctx context.Context, centerID, id int32) (*domain.Customer, error) {
	query := `SELECT id, center_id, name, email, phone, created_on, updated_on FROM customers WHERE id = $1 AND center_id = $2`
	c := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, id, centerID).Scan(&c.ID, &c.CenterID, &c.Name, &c.Email, &c.Phone, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context, centerID int32, page, pageSize int32) ([]domain.Customer, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers WHERE center_id = $1`, centerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, center_id, name, email, phone, created_on, updated_on FROM customers
	          WHERE center_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, centerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers, err := collectCustomers(rows)
	return customers, count, err
}

func (r *customerRepository) Search(ctx context.Context, centerID int32, query string) ([]domain.Customer, error) {
	sqlQuery := `SELECT id, center_id, name, email, phone, created_on, updated_on FROM customers
	             WHERE center_id = $1 AND (name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
	             ORDER BY name LIMIT 50`
	rows, err := r.db.QueryContext(ctx, sqlQuery, centerID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, email=$2, phone=$3, updated_on=$4 WHERE id=$5 AND center_id=$6`
	c.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.UpdatedOn, c.ID, c.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.CenterID, &c.Name, &c.Email, &c.Phone, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
