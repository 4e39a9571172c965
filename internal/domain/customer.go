package domain

import "time"

type Customer struct {
	ID        int32     `json:"id"`
	CenterID  int32     `json:"center_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
