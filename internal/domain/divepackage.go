package domain

import "time"

type DivePackageStatus string

const (
	DivePackageStatusActive    DivePackageStatus = "ACTIVE"
	DivePackageStatusCompleted DivePackageStatus = "COMPLETED"
	DivePackageStatusExpired   DivePackageStatus = "EXPIRED"
	DivePackageStatusCancelled DivePackageStatus = "CANCELLED"
)

// DivePackage is a pre-purchased bundle of dives. DivesUsed only ever grows;
// the status flips to COMPLETED exactly when DivesUsed reaches TotalDives.
type DivePackage struct {
	ID         int32             `json:"id"`
	CenterID   int32             `json:"center_id"`
	CustomerID int32             `json:"customer_id"`
	Name       string            `json:"name"`
	TotalDives int32             `json:"total_dives"`
	DivesUsed  int32             `json:"dives_used"`
	PriceCents int32             `json:"price_cents"`
	Status     DivePackageStatus `json:"status"`
	ExpiryDate *time.Time        `json:"expiry_date,omitempty"`
	CreatedOn  time.Time         `json:"created_on"`
	UpdatedOn  time.Time         `json:"updated_on"`
}

// Consumable reports whether one more dive may be logged against the package.
func (p *DivePackage) Consumable() bool {
	return p.Status == DivePackageStatusActive && p.DivesUsed < p.TotalDives
}
