package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

const basketColumns = `id, center_id, basket_number, customer_id, booking_id, status, checkout_date, expected_return_date, actual_return_date, created_on, updated_on`

type basketRepository struct {
	db DBTX
}

func NewBasketRepository(db DBTX) repository.BasketRepository {
	return &basketRepository{db: db}
}

func (r *basketRepository) Create(ctx context.Context, b *domain.RentalBasket) error {
	query := `INSERT INTO rental_baskets (center_id, basket_number, customer_id, booking_id, status, checkout_date, expected_return_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		b.CenterID, b.BasketNumber, b.CustomerID, b.BookingID, b.Status, b.CheckoutDate, b.ExpectedReturnDate, now, now,
	).Scan(&b.ID)
}

func (r *basketRepository) GetByID(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error) {
	query := `SELECT ` + basketColumns + ` FROM rental_baskets WHERE id = $1 AND center_id = $2`
	return r.get(ctx, query, id, centerID)
}

func (r *basketRepository) GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error) {
	query := `SELECT ` + basketColumns + ` FROM rental_baskets WHERE id = $1 AND center_id = $2 FOR UPDATE`
	return r.get(ctx, query, id, centerID)
}

func (r *basketRepository) get(ctx context.Context, query string, args ...any) (*domain.RentalBasket, error) {
	b := &domain.RentalBasket{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.CenterID, &b.BasketNumber, &b.CustomerID, &b.BookingID, &b.Status,
		&b.CheckoutDate, &b.ExpectedReturnDate, &b.ActualReturnDate, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// basketNumberLockClass namespaces the advisory locks taken while allocating
// basket numbers, away from any other advisory lock user in the database.
const basketNumberLockClass int32 = 1

// NextBasketNumber allocates the next sequential basket number for a center.
// A transaction-scoped advisory lock keyed by center serializes concurrent
// allocations: a plain MAX+1 read under READ COMMITTED lets two transactions
// see the same MAX and collide on the (center_id, basket_number) unique
// constraint. Callers must run it inside the transaction that performs the
// Create so the lock is held until that transaction ends.
func (r *basketRepository) NextBasketNumber(ctx context.Context, centerID int32) (int32, error) {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, basketNumberLockClass, centerID); err != nil {
		return 0, err
	}
	logger.DatabaseCall("SELECT", "rental_baskets MAX(basket_number)", "centerID", centerID)
	query := `SELECT COALESCE(MAX(basket_number), 0) + 1 FROM rental_baskets WHERE center_id = $1`
	var n int32
	if err := r.db.QueryRowContext(ctx, query, centerID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *basketRepository) List(ctx context.Context, centerID int32, status string, page, pageSize int32) ([]domain.RentalBasket, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + basketColumns + ` FROM rental_baskets WHERE center_id = $1`
	args := []any{centerID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY basket_number DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var baskets []domain.RentalBasket
	for rows.Next() {
		var b domain.RentalBasket
		if err := rows.Scan(&b.ID, &b.CenterID, &b.BasketNumber, &b.CustomerID, &b.BookingID, &b.Status,
			&b.CheckoutDate, &b.ExpectedReturnDate, &b.ActualReturnDate, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, 0, err
		}
		baskets = append(baskets, b)
	}
	return baskets, count, rows.Err()
}

func (r *basketRepository) Update(ctx context.Context, b *domain.RentalBasket) error {
	query := `UPDATE rental_baskets SET status=$1, actual_return_date=$2, updated_on=$3 WHERE id=$4 AND center_id=$5`
	b.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, b.Status, b.ActualReturnDate, b.UpdatedOn, b.ID, b.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
