package domain

import "time"

type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusCheckedOut AssignmentStatus = "CHECKED_OUT"
	AssignmentStatusReturned   AssignmentStatus = "RETURNED"
	AssignmentStatusLost       AssignmentStatus = "LOST"
)

type EquipmentSource string

const (
	EquipmentSourceCenter      EquipmentSource = "CENTER"
	EquipmentSourceCustomerOwn EquipmentSource = "CUSTOMER_OWN"
)

// EquipmentAssignment commits one equipment item (or a customer-owned
// equivalent) to one customer for a date window. It is linked to a booking, a
// basket, or both — never neither.
type EquipmentAssignment struct {
	ID         int32           `json:"id"`
	CenterID   int32           `json:"center_id"`
	CustomerID int32           `json:"customer_id"`
	BookingID  *int32          `json:"booking_id,omitempty"`
	BasketID   *int32          `json:"basket_id,omitempty"`
	Source     EquipmentSource `json:"source"`

	// EquipmentItemID is set iff Source is CENTER. Customer-owned gear is a
	// free-form description and never participates in availability checking.
	EquipmentItemID       *int32 `json:"equipment_item_id,omitempty"`
	CustomerEquipmentDesc string `json:"customer_equipment_desc,omitempty"`

	CheckoutDate     time.Time  `json:"checkout_date"`
	ReturnDate       time.Time  `json:"return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`

	Status AssignmentStatus `json:"status"`

	DamageReported    bool   `json:"damage_reported"`
	DamageDescription string `json:"damage_description,omitempty"`
	DamageCostCents   int32  `json:"damage_cost_cents"`
	ChargeCustomer    bool   `json:"charge_customer"`
	DamageChargeCents int32  `json:"damage_charge_cents"`
	DamageCharged     bool   `json:"damage_charged"`

	PriceCents int32 `json:"price_cents"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Terminal reports whether the assignment can no longer change status.
func (a *EquipmentAssignment) Terminal() bool {
	return a.Status == AssignmentStatusReturned || a.Status == AssignmentStatusLost
}

// Active reports whether the assignment still holds its equipment item, i.e.
// whether it participates in availability checking.
func (a *EquipmentAssignment) Active() bool {
	return a.Status == AssignmentStatusPending || a.Status == AssignmentStatusCheckedOut
}

// AssignmentConflict is one overlapping commitment, enriched with enough
// identity for a human-readable rejection message.
type AssignmentConflict struct {
	AssignmentID int32            `json:"assignment_id"`
	CustomerID   int32            `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	BasketNumber *int32           `json:"basket_number,omitempty"`
	CheckoutDate time.Time        `json:"checkout_date"`
	ReturnDate   time.Time        `json:"return_date"`
	Status       AssignmentStatus `json:"status"`
}

// DamageInput is the optional damage payload accepted on return.
type DamageInput struct {
	Reported          bool   `json:"reported"`
	Description       string `json:"description,omitempty"`
	CostCents         int32  `json:"cost_cents"`
	ChargeCustomer    bool   `json:"charge_customer"`
	ChargeAmountCents int32  `json:"charge_amount_cents"`
}
