package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"divecenter-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction-scoped Store.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB // nil when the Store is transaction-scoped

	customers    repository.CustomerRepository
	bookings     repository.BookingRepository
	equipment    repository.EquipmentRepository
	assignments  repository.AssignmentRepository
	baskets      repository.BasketRepository
	divePackages repository.DivePackageRepository
	staff        repository.StaffRepository
}

func NewStore(db *sql.DB) *Store {
	s := newStoreWith(db)
	s.db = db
	return s
}

func newStoreWith(dbtx DBTX) *Store {
	return &Store{
		customers:    NewCustomerRepository(dbtx),
		bookings:     NewBookingRepository(dbtx),
		equipment:    NewEquipmentRepository(dbtx),
		assignments:  NewAssignmentRepository(dbtx),
		baskets:      NewBasketRepository(dbtx),
		divePackages: NewDivePackageRepository(dbtx),
		staff:        NewStaffRepository(dbtx),
	}
}

func (s *Store) Customers() repository.CustomerRepository       { return s.customers }
func (s *Store) Bookings() repository.BookingRepository         { return s.bookings }
func (s *Store) Equipment() repository.EquipmentRepository      { return s.equipment }
func (s *Store) Assignments() repository.AssignmentRepository   { return s.assignments }
func (s *Store) Baskets() repository.BasketRepository           { return s.baskets }
func (s *Store) DivePackages() repository.DivePackageRepository { return s.divePackages }
func (s *Store) Staff() repository.StaffRepository              { return s.staff }

// InTx runs fn with a Store bound to a single transaction. The transaction
// commits iff fn returns nil; any error (or panic) rolls the whole unit back.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		// Already inside a transaction; reuse it.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newStoreWith(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
