package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a thin collaborator entity. The reservation engine only needs
// tenant-scoped existence checks against it for assignment linkage.
type Booking struct {
	ID         int32         `json:"id"`
	CenterID   int32         `json:"center_id"`
	CustomerID int32         `json:"customer_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedOn  time.Time     `json:"created_on"`
	UpdatedOn  time.Time     `json:"updated_on"`
}
