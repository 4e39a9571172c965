package domain

import "time"

type BasketStatus string

const (
	BasketStatusActive   BasketStatus = "ACTIVE"
	BasketStatusReturned BasketStatus = "RETURNED"
)

// RentalBasket groups equipment assignments for one customer checkout/return
// cycle. BasketNumber is sequential per center.
type RentalBasket struct {
	ID                 int32        `json:"id"`
	CenterID           int32        `json:"center_id"`
	BasketNumber       int32        `json:"basket_number"`
	CustomerID         int32        `json:"customer_id"`
	BookingID          *int32       `json:"booking_id,omitempty"`
	Status             BasketStatus `json:"status"`
	CheckoutDate       time.Time    `json:"checkout_date"`
	ExpectedReturnDate time.Time    `json:"expected_return_date"`
	ActualReturnDate   *time.Time   `json:"actual_return_date,omitempty"`
	CreatedOn          time.Time    `json:"created_on"`
	UpdatedOn          time.Time    `json:"updated_on"`
}
