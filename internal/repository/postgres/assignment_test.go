package postgres_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository/postgres"
)

var assignmentCols = []string{
	"id", "center_id", "customer_id", "booking_id", "basket_id", "source", "equipment_item_id", "customer_equipment_desc",
	"checkout_date", "return_date", "actual_return_date", "status", "damage_reported", "damage_description", "damage_cost_cents",
	"charge_customer", "damage_charge_cents", "damage_charged", "price_cents", "created_on", "updated_on",
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assignmentRow(id int32, status domain.AssignmentStatus) []driverValue {
	now := time.Now()
	return []driverValue{
		id, int32(1), int32(3), nil, nil, "CENTER", int32(7), "",
		day(2024, 3, 1), day(2024, 3, 3), nil, string(status), false, "", int32(0),
		false, int32(0), false, int32(2500), now, now,
	}
}

type driverValue = driver.Value

func addRows(rows *sqlmock.Rows, vals ...[]driverValue) *sqlmock.Rows {
	for _, v := range vals {
		rows.AddRow(v...)
	}
	return rows
}

func TestAssignmentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		itemID := int32(7)
		bookingID := int32(9)
		a := &domain.EquipmentAssignment{
			CenterID:        1,
			CustomerID:      3,
			BookingID:       &bookingID,
			Source:          domain.EquipmentSourceCenter,
			EquipmentItemID: &itemID,
			CheckoutDate:    day(2024, 3, 1),
			ReturnDate:      day(2024, 3, 3),
			Status:          domain.AssignmentStatusPending,
			PriceCents:      2500,
		}

		mock.ExpectQuery("INSERT INTO equipment_assignments").
			WithArgs(a.CenterID, a.CustomerID, a.BookingID, a.BasketID, a.Source, a.EquipmentItemID,
				a.CustomerEquipmentDesc, a.CheckoutDate, a.ReturnDate, a.Status, a.PriceCents,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

		err := repo.Create(ctx, a)
		assert.NoError(t, err)
		assert.Equal(t, int32(100), a.ID)
	})
}

func TestAssignmentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM equipment_assignments WHERE id").
			WithArgs(int32(100), int32(1)).
			WillReturnRows(addRows(sqlmock.NewRows(assignmentCols), assignmentRow(100, domain.AssignmentStatusCheckedOut)))

		a, err := repo.GetByID(ctx, 1, 100)
		assert.NoError(t, err)
		assert.Equal(t, int32(100), a.ID)
		assert.Equal(t, domain.AssignmentStatusCheckedOut, a.Status)
		assert.Equal(t, int32(7), *a.EquipmentItemID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM equipment_assignments WHERE id").
			WithArgs(int32(999), int32(1)).
			WillReturnRows(sqlmock.NewRows(assignmentCols))

		_, err := repo.GetByID(ctx, 1, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAssignmentRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := day(2024, 3, 2)
		a := &domain.EquipmentAssignment{
			ID: 100, CenterID: 1,
			Status:            domain.AssignmentStatusReturned,
			ActualReturnDate:  &now,
			DamageReported:    true,
			DamageDescription: "cracked gauge",
		}

		mock.ExpectExec("UPDATE equipment_assignments").
			WithArgs(a.Status, a.ActualReturnDate, a.DamageReported, a.DamageDescription, a.DamageCostCents,
				a.ChargeCustomer, a.DamageChargeCents, a.DamageCharged, sqlmock.AnyArg(), a.ID, a.CenterID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, a)
		assert.NoError(t, err)
	})

	t.Run("WrongCenter", func(t *testing.T) {
		a := &domain.EquipmentAssignment{ID: 100, CenterID: 2, Status: domain.AssignmentStatusReturned}

		mock.ExpectExec("UPDATE equipment_assignments").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, a)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAssignmentRepository_ListActiveConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	t.Run("ReturnsAllActive", func(t *testing.T) {
		basketNumber := int32(14)
		rows := sqlmock.NewRows([]string{"id", "customer_id", "name", "basket_number", "checkout_date", "return_date", "status"}).
			AddRow(40, 3, "Ann Reef", nil, day(2024, 3, 1), day(2024, 3, 3), "CHECKED_OUT").
			AddRow(41, 4, "Ben Wreck", basketNumber, day(2024, 3, 10), day(2024, 3, 12), "PENDING")

		mock.ExpectQuery("SELECT a.id, a.customer_id, c.name, b.basket_number").
			WithArgs(int32(1), int32(7)).
			WillReturnRows(rows)

		conflicts, err := repo.ListActiveConflicts(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Len(t, conflicts, 2)
		assert.Equal(t, "Ann Reef", conflicts[0].CustomerName)
		assert.Nil(t, conflicts[0].BasketNumber)
		assert.Equal(t, int32(14), *conflicts[1].BasketNumber)
	})
}

func TestAssignmentRepository_ListActiveByItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM equipment_assignments\\s+WHERE center_id = \\$1 AND equipment_item_id = \\$2 AND status IN").
		WithArgs(int32(1), int32(7)).
		WillReturnRows(addRows(sqlmock.NewRows(assignmentCols),
			assignmentRow(100, domain.AssignmentStatusPending),
			assignmentRow(101, domain.AssignmentStatusCheckedOut)))

	active, err := repo.ListActiveByItem(ctx, 1, 7)
	assert.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, domain.AssignmentStatusPending, active[0].Status)
}

func TestAssignmentRepository_ListByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM equipment_assignments\\s+WHERE center_id = \\$1 AND booking_id = \\$2").
		WithArgs(int32(1), int32(9)).
		WillReturnRows(addRows(sqlmock.NewRows(assignmentCols),
			assignmentRow(100, domain.AssignmentStatusReturned)))

	list, err := repo.ListByBooking(ctx, 1, 9)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int32(100), list[0].ID)
}

func TestAssignmentRepository_ListOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	asOf := day(2024, 3, 10)
	mock.ExpectQuery("SELECT (.+) FROM equipment_assignments").
		WithArgs(asOf).
		WillReturnRows(addRows(sqlmock.NewRows(assignmentCols), assignmentRow(100, domain.AssignmentStatusCheckedOut)))

	overdue, err := repo.ListOverdue(ctx, asOf)
	assert.NoError(t, err)
	assert.Len(t, overdue, 1)
	assert.Equal(t, int32(100), overdue[0].ID)
}
