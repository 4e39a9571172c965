package service

import (
	"context"
	"time"

	"divecenter-backend/internal/domain"
)

// CreateAssignmentInput is the request payload for a single assignment
// create, standalone or as one element of a bulk create / basket checkout.
type CreateAssignmentInput struct {
	CustomerID            int32                   `json:"customer_id"`
	BookingID             *int32                  `json:"booking_id,omitempty"`
	BasketID              *int32                  `json:"basket_id,omitempty"`
	Source                domain.EquipmentSource  `json:"source"`
	EquipmentItemID       *int32                  `json:"equipment_item_id,omitempty"`
	CustomerEquipmentDesc string                  `json:"customer_equipment_desc,omitempty"`
	CheckoutDate          *time.Time              `json:"checkout_date,omitempty"`
	ReturnDate            *time.Time              `json:"return_date,omitempty"`
	Status                domain.AssignmentStatus `json:"status,omitempty"`
	PriceCents            int32                   `json:"price_cents"`
	Damage                *domain.DamageInput     `json:"damage,omitempty"`
}

// BulkFailure records one rejected element of a bulk operation.
type BulkFailure struct {
	Index  int    `json:"index"`
	ID     int32  `json:"id,omitempty"`
	Reason string `json:"reason"`
}

type BulkCreateResult struct {
	Created []domain.EquipmentAssignment `json:"created"`
	Failed  []BulkFailure                `json:"failed"`
}

type BulkReturnResult struct {
	Returned []domain.EquipmentAssignment `json:"returned"`
	Failed   []BulkFailure                `json:"failed"`
}

type AvailabilityRequest struct {
	EquipmentItemID int32     `json:"equipment_item_id"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
}

type AvailabilityResult struct {
	EquipmentItemID int32                       `json:"equipment_item_id"`
	Available       bool                        `json:"available"`
	Conflicts       []domain.AssignmentConflict `json:"conflicts,omitempty"`
	Error           string                      `json:"error,omitempty"`
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, centerID, itemID int32, from, to time.Time) (bool, []domain.AssignmentConflict, error)
	BulkCheckAvailability(ctx context.Context, centerID int32, reqs []AvailabilityRequest) ([]AvailabilityResult, error)
}

type AssignmentService interface {
	CreateAssignment(ctx context.Context, centerID int32, input CreateAssignmentInput) (*domain.EquipmentAssignment, error)
	GetAssignment(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error)
	ListAssignmentsByBooking(ctx context.Context, centerID, bookingID int32) ([]domain.EquipmentAssignment, error)
	ListActiveAssignmentsByItem(ctx context.Context, centerID, itemID int32) ([]domain.EquipmentAssignment, error)
	ReturnAssignment(ctx context.Context, centerID, id int32, damage *domain.DamageInput) (*domain.EquipmentAssignment, error)
	MarkAssignmentLost(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error)
	AttachDamageCharge(ctx context.Context, centerID, id int32, amountCents int32) (*domain.EquipmentAssignment, error)
	BulkCreateAssignments(ctx context.Context, centerID int32, inputs []CreateAssignmentInput) (*BulkCreateResult, error)
	BulkReturnAssignments(ctx context.Context, centerID int32, ids []int32, damageByID map[int32]domain.DamageInput) (*BulkReturnResult, error)
}

type CreateBasketInput struct {
	CustomerID         int32                   `json:"customer_id"`
	BookingID          *int32                  `json:"booking_id,omitempty"`
	CheckoutDate       *time.Time              `json:"checkout_date,omitempty"`
	ExpectedReturnDate *time.Time              `json:"expected_return_date,omitempty"`
	Items              []CreateAssignmentInput `json:"items"`
}

type BasketService interface {
	CreateBasket(ctx context.Context, centerID int32, input CreateBasketInput) (*domain.RentalBasket, *BulkCreateResult, error)
	GetBasket(ctx context.Context, centerID, id int32) (*domain.RentalBasket, []domain.EquipmentAssignment, error)
	ListBaskets(ctx context.Context, centerID int32, status string, page, pageSize int32) ([]domain.RentalBasket, int32, error)
	// ReturnBasket returns the listed member assignments, or every member when
	// itemIDs is empty, then re-evaluates basket completion.
	ReturnBasket(ctx context.Context, centerID, basketID int32, itemIDs []int32, damageByID map[int32]domain.DamageInput) (*domain.RentalBasket, error)
}

type DivePackageService interface {
	CreatePackage(ctx context.Context, centerID int32, p *domain.DivePackage) error
	GetPackage(ctx context.Context, centerID, id int32) (*domain.DivePackage, error)
	ListPackagesByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.DivePackage, error)
	CanConsumePackage(ctx context.Context, centerID, id int32) (bool, error)
	ConsumePackage(ctx context.Context, centerID, id int32) (*domain.DivePackage, error)
}

type EquipmentService interface {
	CreateType(ctx context.Context, t *domain.EquipmentType) error
	ListTypes(ctx context.Context, centerID int32) ([]domain.EquipmentType, error)
	UpdateType(ctx context.Context, t *domain.EquipmentType) error
	CreateItem(ctx context.Context, item *domain.EquipmentItem) error
	GetItem(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error)
	ListItems(ctx context.Context, centerID, typeID int32, status string, page, pageSize int32) ([]domain.EquipmentItem, int32, error)
	UpdateItem(ctx context.Context, item *domain.EquipmentItem) error
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, centerID, id int32) (*domain.Customer, error)
	ListCustomers(ctx context.Context, centerID int32, page, pageSize int32) ([]domain.Customer, int32, error)
	SearchCustomers(ctx context.Context, centerID int32, query string) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBooking(ctx context.Context, centerID, id int32) (*domain.Booking, error)
	ListBookingsByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, b *domain.Booking) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (access, refresh string, user *domain.StaffUser, err error)
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

type EmailService interface {
	SendOverdueRentalReminder(ctx context.Context, email, customerName, equipmentDesc string, dueDate time.Time) error
	SendDamageChargeNotice(ctx context.Context, email, customerName, equipmentDesc string, amountCents int32) error
}
