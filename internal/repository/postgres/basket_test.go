package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository/postgres"
)

var errLockTimeout = errors.New("canceling statement due to lock timeout")

var basketCols = []string{
	"id", "center_id", "basket_number", "customer_id", "booking_id", "status",
	"checkout_date", "expected_return_date", "actual_return_date", "created_on", "updated_on",
}

func basketRow(id, number int32, status domain.BasketStatus) []driverValue {
	now := time.Now()
	return []driverValue{
		id, int32(1), number, int32(3), nil, string(status),
		day(2024, 3, 1), day(2024, 3, 4), nil, now, now,
	}
}

func TestBasketRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBasketRepository(db)
	ctx := context.Background()

	b := &domain.RentalBasket{
		CenterID:           1,
		BasketNumber:       14,
		CustomerID:         3,
		Status:             domain.BasketStatusActive,
		CheckoutDate:       day(2024, 3, 1),
		ExpectedReturnDate: day(2024, 3, 4),
	}

	mock.ExpectQuery("INSERT INTO rental_baskets").
		WithArgs(b.CenterID, b.BasketNumber, b.CustomerID, b.BookingID, b.Status,
			b.CheckoutDate, b.ExpectedReturnDate, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	err = repo.Create(ctx, b)
	assert.NoError(t, err)
	assert.Equal(t, int32(5), b.ID)
}

func TestBasketRepository_GetByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBasketRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM rental_baskets WHERE id = \\$1 AND center_id = \\$2 FOR UPDATE").
		WithArgs(int32(5), int32(1)).
		WillReturnRows(addRows(sqlmock.NewRows(basketCols), basketRow(5, 14, domain.BasketStatusActive)))

	b, err := repo.GetByIDForUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, int32(5), b.ID)
	assert.Equal(t, domain.BasketStatusActive, b.Status)
}

func TestBasketRepository_NextBasketNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBasketRepository(db)
	ctx := context.Background()

	t.Run("FirstBasket", func(t *testing.T) {
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(int32(1), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(basket_number\\), 0\\) \\+ 1 FROM rental_baskets").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))

		n, err := repo.NextBasketNumber(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), n)
	})

	t.Run("Sequential", func(t *testing.T) {
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(int32(1), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(basket_number\\), 0\\) \\+ 1 FROM rental_baskets").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(15))

		n, err := repo.NextBasketNumber(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(15), n)
	})

	// The per-center lock must be taken before the MAX read; ordered
	// expectations fail if the read ever runs first.
	t.Run("LocksBeforeReading", func(t *testing.T) {
		mock.MatchExpectationsInOrder(true)
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(int32(1), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(basket_number\\), 0\\) \\+ 1 FROM rental_baskets").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(7))

		n, err := repo.NextBasketNumber(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LockFailureAborts", func(t *testing.T) {
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(int32(1), int32(3)).
			WillReturnError(errLockTimeout)

		_, err := repo.NextBasketNumber(ctx, 3)
		assert.ErrorIs(t, err, errLockTimeout)
	})
}

func TestBasketRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBasketRepository(db)
	ctx := context.Background()

	t.Run("WithStatusFilter", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM").
			WithArgs(int32(1), "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM rental_baskets WHERE center_id = \\$1 AND status = \\$2").
			WithArgs(int32(1), "ACTIVE", int32(50), int32(0)).
			WillReturnRows(addRows(sqlmock.NewRows(basketCols),
				basketRow(6, 15, domain.BasketStatusActive),
				basketRow(5, 14, domain.BasketStatusActive)))

		baskets, total, err := repo.List(ctx, 1, "ACTIVE", 1, 50)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), total)
		assert.Len(t, baskets, 2)
		assert.Equal(t, int32(15), baskets[0].BasketNumber)
	})
}

func TestBasketRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBasketRepository(db)
	ctx := context.Background()

	returnDate := day(2024, 3, 3)
	b := &domain.RentalBasket{
		ID: 5, CenterID: 1,
		Status:           domain.BasketStatusReturned,
		ActualReturnDate: &returnDate,
	}

	mock.ExpectExec("UPDATE rental_baskets").
		WithArgs(b.Status, b.ActualReturnDate, sqlmock.AnyArg(), b.ID, b.CenterID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(ctx, b)
	assert.NoError(t, err)
}
