package requests

import (
	"time"

	"github.com/43bits/mess-calender-gec/internal/meal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request asks an admin to mark a meal after the self-service window closed.
type Request struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner"`
	Meal      meal.Meal  `json:"meal"`
	Date      string     `json:"date"`
	Reason    string     `json:"reason,omitempty"`
	Diet      *meal.Diet `json:"type,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	DecidedBy string     `json:"decidedBy,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// DietOrDefault is the type written to the ledger on approval.
func (r *Request) DietOrDefault() meal.Diet {
	if r.Diet == nil || !r.Diet.Valid() {
		return meal.Veg
	}
	return *r.Diet
}

// Key is the ledger slot the request targets.
func (r *Request) Key() (meal.Key, error) {
	d, err := meal.ParseDate(r.Date)
	if err != nil {
		return meal.Key{}, err
	}
	m, err := meal.ParseMeal(string(r.Meal))
	if err != nil {
		return meal.Key{}, err
	}
	return meal.NewKey(d, m), nil
}

// Listing is a request enriched with the requester's display name.
type Listing struct {
	*Request
	UserName string `json:"userName"`
}
