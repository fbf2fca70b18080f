package model

import "time"

type ProjectStatus string

const (
	StatusOpen      ProjectStatus = "OPEN"
	StatusAssigned  ProjectStatus = "ASSIGNED"
	StatusCompleted ProjectStatus = "COMPLETED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from s to next is a legal edge.
// Status is monotonic: OPEN -> ASSIGNED -> COMPLETED, nothing else.
func (s ProjectStatus) CanTransition(next ProjectStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusAssigned
	case StatusAssigned:
		return next == StatusCompleted
	default:
		return false
	}
}

type Project struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	BudgetMin     float64       `json:"budgetMin"`
	BudgetMax     float64       `json:"budgetMax"`
	Deadline      time.Time     `json:"deadline"`
	BuyerID       int           `json:"buyerId"`
	Status        ProjectStatus `json:"status"`
	SelectedBidID *int          `json:"selectedBidId"`
	CreatedAt     time.Time     `json:"createdAt"`

	Buyer        *UserSummary   `json:"buyer,omitempty"`
	Bids         []*Bid         `json:"bids,omitempty"`
	SelectedBid  *Bid           `json:"selectedBid,omitempty"`
	Deliverables []*Deliverable `json:"deliverables,omitempty"`
}
