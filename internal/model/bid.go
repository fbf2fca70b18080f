package model

import "time"

type Bid struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"projectId"`
	SellerID  int       `json:"sellerId"`
	Amount    float64   `json:"amount"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`

	Seller *UserSummary `json:"seller,omitempty"`

	// Project is loaded by the repository when a bid is fetched for
	// mutation checks; it never appears in responses.
	Project *Project `json:"-"`
}
