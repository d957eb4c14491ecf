package response

import (
	"time"

	"github.com/google/uuid"

	"splashboard/internal/domain/membership"
	"splashboard/internal/domain/season"
)

type MembershipResponse struct {
	ID            uuid.UUID           `json:"id"`
	Season        season.ID           `json:"season"`
	Type          membership.Type     `json:"type"`
	Status        membership.Status   `json:"status"`
	People        []membership.Person `json:"people"`
	Address       *membership.Address `json:"address,omitempty"`
	EstimatedCost int                 `json:"estimated_cost"`
	AmountOwed    int                 `json:"amount_owed"`
	OfferExpiry   *time.Time          `json:"offer_expiry,omitempty"`
}

func NewMembershipResponse(r *membership.Record) MembershipResponse {
	return MembershipResponse{
		ID:            r.ID(),
		Season:        r.Season(),
		Type:          r.MembershipType(),
		Status:        r.Status(),
		People:        r.People(),
		Address:       r.Address(),
		EstimatedCost: r.EstimatedCost(),
		AmountOwed:    r.AmountOwed(),
		OfferExpiry:   r.OfferExpiresAt(),
	}
}
