package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

// MockStore satisfies repository.Store. InTx runs the callback against the
// same mock so services under test see the exact repositories they stubbed.
type MockStore struct {
	CustomerRepo   *MockCustomerRepo
	BookingRepo    *MockBookingRepo
	EquipmentRepo  *MockEquipmentRepo
	AssignmentRepo *MockAssignmentRepo
	BasketRepo     *MockBasketRepo
	PackageRepo    *MockDivePackageRepo
	StaffRepo      *MockStaffRepo
}

func newMockStore() *MockStore {
	return &MockStore{
		CustomerRepo:   new(MockCustomerRepo),
		BookingRepo:    new(MockBookingRepo),
		EquipmentRepo:  new(MockEquipmentRepo),
		AssignmentRepo: new(MockAssignmentRepo),
		BasketRepo:     new(MockBasketRepo),
		PackageRepo:    new(MockDivePackageRepo),
		StaffRepo:      new(MockStaffRepo),
	}
}

func (m *MockStore) Customers() repository.CustomerRepository       { return m.CustomerRepo }
func (m *MockStore) Bookings() repository.BookingRepository         { return m.BookingRepo }
func (m *MockStore) Equipment() repository.EquipmentRepository      { return m.EquipmentRepo }
func (m *MockStore) Assignments() repository.AssignmentRepository   { return m.AssignmentRepo }
func (m *MockStore) Baskets() repository.BasketRepository           { return m.BasketRepo }
func (m *MockStore) DivePackages() repository.DivePackageRepository { return m.PackageRepo }
func (m *MockStore) Staff() repository.StaffRepository              { return m.StaffRepo }

func (m *MockStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

type MockCustomerRepo struct{ mock.Mock }

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, centerID, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepo) List(ctx context.Context, centerID int32, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, centerID, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

func (m *MockCustomerRepo) Search(ctx context.Context, centerID int32, query string) ([]domain.Customer, error) {
	args := m.Called(ctx, centerID, query)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, centerID, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, centerID, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type MockEquipmentRepo struct{ mock.Mock }

func (m *MockEquipmentRepo) CreateType(ctx context.Context, t *domain.EquipmentType) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockEquipmentRepo) GetTypeByID(ctx context.Context, centerID, id int32) (*domain.EquipmentType, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentType), args.Error(1)
}

func (m *MockEquipmentRepo) ListTypes(ctx context.Context, centerID int32) ([]domain.EquipmentType, error) {
	args := m.Called(ctx, centerID)
	return args.Get(0).([]domain.EquipmentType), args.Error(1)
}

func (m *MockEquipmentRepo) UpdateType(ctx context.Context, t *domain.EquipmentType) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockEquipmentRepo) CreateItem(ctx context.Context, item *domain.EquipmentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockEquipmentRepo) GetItemByID(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentItem), args.Error(1)
}

func (m *MockEquipmentRepo) GetItemForUpdate(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentItem), args.Error(1)
}

func (m *MockEquipmentRepo) ListItems(ctx context.Context, centerID int32, typeID int32, status string, page, pageSize int32) ([]domain.EquipmentItem, int32, error) {
	args := m.Called(ctx, centerID, typeID, status, page, pageSize)
	return args.Get(0).([]domain.EquipmentItem), args.Get(1).(int32), args.Error(2)
}

func (m *MockEquipmentRepo) UpdateItem(ctx context.Context, item *domain.EquipmentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockEquipmentRepo) SetItemStatus(ctx context.Context, centerID, id int32, status domain.EquipmentItemStatus) error {
	return m.Called(ctx, centerID, id, status).Error(0)
}

type MockAssignmentRepo struct{ mock.Mock }

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.EquipmentAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssignmentRepo) GetByID(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentAssignment), args.Error(1)
}

func (m *MockAssignmentRepo) Update(ctx context.Context, a *domain.EquipmentAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssignmentRepo) ListActiveByItem(ctx context.Context, centerID, itemID int32) ([]domain.EquipmentAssignment, error) {
	args := m.Called(ctx, centerID, itemID)
	return args.Get(0).([]domain.EquipmentAssignment), args.Error(1)
}

func (m *MockAssignmentRepo) ListActiveConflicts(ctx context.Context, centerID, itemID int32) ([]domain.AssignmentConflict, error) {
	args := m.Called(ctx, centerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssignmentConflict), args.Error(1)
}

func (m *MockAssignmentRepo) ListByBasket(ctx context.Context, centerID, basketID int32) ([]domain.EquipmentAssignment, error) {
	args := m.Called(ctx, centerID, basketID)
	return args.Get(0).([]domain.EquipmentAssignment), args.Error(1)
}

func (m *MockAssignmentRepo) ListByBooking(ctx context.Context, centerID, bookingID int32) ([]domain.EquipmentAssignment, error) {
	args := m.Called(ctx, centerID, bookingID)
	return args.Get(0).([]domain.EquipmentAssignment), args.Error(1)
}

func (m *MockAssignmentRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.EquipmentAssignment, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.EquipmentAssignment), args.Error(1)
}

type MockBasketRepo struct{ mock.Mock }

func (m *MockBasketRepo) Create(ctx context.Context, b *domain.RentalBasket) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBasketRepo) GetByID(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalBasket), args.Error(1)
}

func (m *MockBasketRepo) GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.RentalBasket, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalBasket), args.Error(1)
}

func (m *MockBasketRepo) NextBasketNumber(ctx context.Context, centerID int32) (int32, error) {
	args := m.Called(ctx, centerID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockBasketRepo) List(ctx context.Context, centerID int32, status string, page, pageSize int32) ([]domain.RentalBasket, int32, error) {
	args := m.Called(ctx, centerID, status, page, pageSize)
	return args.Get(0).([]domain.RentalBasket), args.Get(1).(int32), args.Error(2)
}

func (m *MockBasketRepo) Update(ctx context.Context, b *domain.RentalBasket) error {
	return m.Called(ctx, b).Error(0)
}

type MockDivePackageRepo struct{ mock.Mock }

func (m *MockDivePackageRepo) Create(ctx context.Context, p *domain.DivePackage) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDivePackageRepo) GetByID(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DivePackage), args.Error(1)
}

func (m *MockDivePackageRepo) GetByIDForUpdate(ctx context.Context, centerID, id int32) (*domain.DivePackage, error) {
	args := m.Called(ctx, centerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DivePackage), args.Error(1)
}

func (m *MockDivePackageRepo) ListByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.DivePackage, error) {
	args := m.Called(ctx, centerID, customerID)
	return args.Get(0).([]domain.DivePackage), args.Error(1)
}

func (m *MockDivePackageRepo) Update(ctx context.Context, p *domain.DivePackage) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDivePackageRepo) ExpireDue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockStaffRepo struct{ mock.Mock }

func (m *MockStaffRepo) Create(ctx context.Context, u *domain.StaffUser) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockStaffRepo) GetByID(ctx context.Context, id int32) (*domain.StaffUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

// date builds a day-granular UTC timestamp, matching how rental windows are
// stored.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
