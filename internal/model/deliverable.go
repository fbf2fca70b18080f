package model

import "time"

type Deliverable struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"projectId"`
	SellerID  int       `json:"sellerId"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`

	Seller *UserSummary `json:"seller,omitempty"`
}
