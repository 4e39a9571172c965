package repository

import (
	"context"
	"time"

	"divecenter-backend/internal/domain"
)

// Store aggregates all repositories and scopes them to one transaction when
// used through InTx. Implementations must guarantee that the Store passed to
// the InTx callback runs every repository call on the same transaction, and
// that the transaction commits iff the callback returns nil.
type Store interface {
	Customers() CustomerRepository
	Bookings() BookingRepository
	Equipment() EquipmentRepository
	Assignments() AssignmentRepository
	Baskets() BasketRepository
	DivePackages() DivePackageRepository
	Staff() StaffRepository

	InTx(ctx context.Context, fn func(Store) error) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, centerID, id int32) (*domain.Customer, error)
	List(ctx context.Context, centerID int32, page, pageSize int32) ([]domain.Customer, int32, error)
	Search(ctx context.Context, centerID int32, query string) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, centerID, id int32) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

type EquipmentRepository interface {
	CreateType(ctx context.Context, t *domain.EquipmentType) error
	GetTypeByID(ctx context.Context, centerID, id int32) (*domain.EquipmentType, error)
	ListTypes(ctx context.Context, centerID int32) ([]domain.EquipmentType, error)
	UpdateType(ctx context.Context, t *domain.EquipmentType) error

	CreateItem(ctx context.Context, item *domain.EquipmentItem) error
	GetItemByID(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error)
	// GetItemForUpdate locks the item row for the duration of the enclosing
	// transaction. Every availability check that precedes an insert must go
	// through this lock so concurrent reservations serialize per item.
	GetItemForUpdate(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error)
	ListItems(ctx context.Context, centerID int32, typeID int32, status string, page, pageSize int32) ([]domain.EquipmentItem, int32, error)
	UpdateItem(ctx context.Context, item *domain.EquipmentItem) error
	SetItemStatus(ctx context.Context, centerID, id int32, status domain.EquipmentItemStatus) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.EquipmentAssignment) error
	GetByID(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error)
	Update(ctx context.Context, a *domain.EquipmentAssignment) error
	// ListActiveByItem returns PENDING and CHECKED_OUT assignments for one
	// equipment item, across both booking- and basket-linked records.
	ListActiveByItem(ctx context.Context, centerID, itemID int32) ([]domain.EquipmentAssignment, error)
	// ListActiveConflicts is ListActiveByItem enriched with customer name and
	// basket number. The overlap filter is applied by the caller so that the
	// pre-check endpoint and the create path share one predicate.
	ListActiveConflicts(ctx context.Context, centerID, itemID int32) ([]domain.AssignmentConflict, error)
	ListByBasket(ctx context.Context, centerID, basketID int32) ([]domain.EquipmentAssignment, error)
	ListByBooking(ctx context.Context, centerID, bookingID int32) ([]domain.EquipmentAssignment, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.EquipmentAssignment, error)
}

type BasketRepository interface {
	Create(ctx context.Context, b *domain.RentalBasket) error
	GetByID(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error)
	// GetByIDForUpdate locks the basket row so concurrent returns against the
	// same basket serialize before the all-members-returned re-check.
	GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error)
	NextBasketNumber(ctx context.Context, centerID int32) (int32, error)
	List(ctx context.Context, centerID int32, status string, page, pageSize int32) ([]domain.RentalBasket, int32, error)
	Update(ctx context.Context, b *domain.RentalBasket) error
}

type DivePackageRepository interface {
	Create(ctx context.Context, p *domain.DivePackage) error
	GetByID(ctx context.Context, centerID, id int32) (*domain.DivePackage, error)
	// GetByIDForUpdate locks the package row for the increment-then-check step.
	GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.DivePackage, error)
	ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.DivePackage, error)
	Update(ctx context.Context, p *domain.DivePackage) error
	ExpireDue(ctx context.Context, asOf time.Time) (int64, error)
}

type StaffRepository interface {
	Create(ctx context.Context, u *domain.StaffUser) error
	GetByID(ctx context.Context, id int32) (*domain.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
}
