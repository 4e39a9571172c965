package domain

import "time"

type EquipmentItemStatus string

const (
	EquipmentItemStatusAvailable   EquipmentItemStatus = "AVAILABLE"
	EquipmentItemStatusRented      EquipmentItemStatus = "RENTED"
	EquipmentItemStatusMaintenance EquipmentItemStatus = "MAINTENANCE"
)

// EquipmentType is static reference data (BCD, regulator, wetsuit, ...)
// shared by all items of that kind within a center.
type EquipmentType struct {
	ID               int32     `json:"id"`
	CenterID         int32     `json:"center_id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	DailyPriceCents  int32     `json:"daily_price_cents"`
	ReplacementCents int32     `json:"replacement_cents"`
	CreatedOn        time.Time `json:"created_on"`
}

// EquipmentItem is a single physical, serialized unit. Status is derived from
// its assignments and is never written directly by API clients.
type EquipmentItem struct {
	ID           int32               `json:"id"`
	CenterID     int32               `json:"center_id"`
	TypeID       int32               `json:"type_id"`
	SerialNumber string              `json:"serial_number"`
	Size         string              `json:"size,omitempty"`
	Brand        string              `json:"brand,omitempty"`
	Status       EquipmentItemStatus `json:"status"`
	CreatedOn    time.Time           `json:"created_on"`
	UpdatedOn    time.Time           `json:"updated_on"`
}
