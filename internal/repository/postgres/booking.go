package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (center_id, customer_id, start_date, end_date, status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, b.CenterID, b.CustomerID, b.StartDate, b.EndDate, b.Status, b.Notes, now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, centerID, id int32) (*domain.Booking, error) {
	query := `SELECT id, center_id, customer_id, start_date, end_date, status, notes, created_on, updated_on
	          FROM bookings WHERE id = $1 AND center_id = $2`
	b := &domain.Booking{}
	err := r.db.QueryRowContext(ctx, query, id, centerID).Scan(&b.ID, &b.CenterID, &b.CustomerID, &b.StartDate, &b.EndDate, &b.Status, &b.Notes, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.Booking, error) {
	query := `SELECT id, center_id, customer_id, start_date, end_date, status, notes, created_on, updated_on
	          FROM bookings WHERE center_id = $1 AND customer_id = $2 ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, centerID, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.CenterID, &b.CustomerID, &b.StartDate, &b.EndDate, &b.Status, &b.Notes, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET start_date=$1, end_date=$2, status=$3, notes=$4, updated_on=$5 WHERE id=$6 AND center_id=$7`
	b.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, b.StartDate, b.EndDate, b.Status, b.Notes, b.UpdatedOn, b.ID, b.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
