package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

const assignmentColumns = `id, center_id, customer_id, booking_id, basket_id, source, equipment_item_id, customer_equipment_desc,
	checkout_date, return_date, actual_return_date, status, damage_reported, damage_description, damage_cost_cents,
	charge_customer, damage_charge_cents, damage_charged, price_cents, created_on, updated_on`

type assignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.EquipmentAssignment) error {
	query := `INSERT INTO equipment_assignments (center_id, customer_id, booking_id, basket_id, source, equipment_item_id,
	            customer_equipment_desc, checkout_date, return_date, status, price_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		a.CenterID, a.CustomerID, a.BookingID, a.BasketID, a.Source, a.EquipmentItemID,
		a.CustomerEquipmentDesc, a.CheckoutDate, a.ReturnDate, a.Status, a.PriceCents, now, now,
	).Scan(&a.ID)
}

func (r *assignmentRepository) GetByID(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM equipment_assignments WHERE id = $1 AND center_id = $2`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id, centerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *assignmentRepository) Update(ctx context.Context, a *domain.EquipmentAssignment) error {
	query := `UPDATE equipment_assignments
	          SET status=$1, actual_return_date=$2, damage_reported=$3, damage_description=$4, damage_cost_cents=$5,
	              charge_customer=$6, damage_charge_cents=$7, damage_charged=$8, updated_on=$9
	          WHERE id=$10 AND center_id=$11`
	a.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		a.Status, a.ActualReturnDate, a.DamageReported, a.DamageDescription, a.DamageCostCents,
		a.ChargeCustomer, a.DamageChargeCents, a.DamageCharged, a.UpdatedOn, a.ID, a.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) ListActiveByItem(ctx context.Context, centerID, itemID int32) ([]domain.EquipmentAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM equipment_assignments
	          WHERE center_id = $1 AND equipment_item_id = $2 AND status IN ('PENDING', 'CHECKED_OUT')
	          ORDER BY checkout_date`
	return r.list(ctx, query, centerID, itemID)
}

func (r *assignmentRepository) ListActiveConflicts(ctx context.Context, centerID, itemID int32) ([]domain.AssignmentConflict, error) {
	query := `SELECT a.id, a.customer_id, c.name, b.basket_number, a.checkout_date, a.return_date, a.status
	          FROM equipment_assignments a
	          JOIN customers c ON c.id = a.customer_id
	          LEFT JOIN rental_baskets b ON b.id = a.basket_id
	          WHERE a.center_id = $1 AND a.equipment_item_id = $2
	            AND a.status IN ('PENDING', 'CHECKED_OUT')
	          ORDER BY a.checkout_date`
	rows, err := r.db.QueryContext(ctx, query, centerID, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []domain.AssignmentConflict
	for rows.Next() {
		var c domain.AssignmentConflict
		if err := rows.Scan(&c.AssignmentID, &c.CustomerID, &c.CustomerName, &c.BasketNumber, &c.CheckoutDate, &c.ReturnDate, &c.Status); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

func (r *assignmentRepository) ListByBasket(ctx context.Context, centerID, basketID int32) ([]domain.EquipmentAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM equipment_assignments
	          WHERE center_id = $1 AND basket_id = $2 ORDER BY id`
	return r.list(ctx, query, centerID, basketID)
}

func (r *assignmentRepository) ListByBooking(ctx context.Context, centerID, bookingID int32) ([]domain.EquipmentAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM equipment_assignments
	          WHERE center_id = $1 AND booking_id = $2 ORDER BY id`
	return r.list(ctx, query, centerID, bookingID)
}

func (r *assignmentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.EquipmentAssignment, error) {
	logger.DatabaseCall("SELECT", "equipment_assignments overdue scan", "asOf", asOf)
	query := `SELECT ` + assignmentColumns + ` FROM equipment_assignments
	          WHERE status = 'CHECKED_OUT' AND return_date < $1 ORDER BY center_id, return_date`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.EquipmentAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*domain.EquipmentAssignment, error) {
	a := &domain.EquipmentAssignment{}
	err := row.Scan(&a.ID, &a.CenterID, &a.CustomerID, &a.BookingID, &a.BasketID, &a.Source, &a.EquipmentItemID,
		&a.CustomerEquipmentDesc, &a.CheckoutDate, &a.ReturnDate, &a.ActualReturnDate, &a.Status,
		&a.DamageReported, &a.DamageDescription, &a.DamageCostCents, &a.ChargeCustomer, &a.DamageChargeCents,
		&a.DamageCharged, &a.PriceCents, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func collectAssignments(rows *sql.Rows) ([]domain.EquipmentAssignment, error) {
	var assignments []domain.EquipmentAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
