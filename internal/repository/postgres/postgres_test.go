package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"divecenter-backend/internal/repository"
	"divecenter-backend/internal/repository/postgres"
)

func TestStore_InTx(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(int32(1), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(basket_number\\), 0\\) \\+ 1 FROM rental_baskets").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(14))
		mock.ExpectCommit()

		err = store.InTx(ctx, func(st repository.Store) error {
			n, err := st.Baskets().NextBasketNumber(ctx, 1)
			assert.Equal(t, int32(14), n)
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		store := postgres.NewStore(db)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err = store.InTx(ctx, func(repository.Store) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NestedReusesTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = store.InTx(ctx, func(st repository.Store) error {
			// a service helper calling InTx again must not open a second tx
			return st.InTx(ctx, func(repository.Store) error { return nil })
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
