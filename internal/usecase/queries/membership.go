package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"splashboard/internal/domain/membership"
	"splashboard/internal/domain/season"
	"splashboard/internal/usecase/shared"
)

type MembershipView struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Season        season.ID           `json:"season"`
	Type          membership.Type     `json:"type"`
	Status        membership.Status   `json:"status"`
	People        []membership.Person `json:"people"`
	Address       *membership.Address `json:"address,omitempty"`
	EstimatedCost int                 `json:"estimated_cost"`
	AmountOwed    int                 `json:"amount_owed"`
	OfferExpiry   *time.Time          `json:"offer_expiry,omitempty"`
	SubmittedAt   time.Time           `json:"submitted_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type MembershipListItemView struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Season      season.ID         `json:"season"`
	Type        membership.Type   `json:"type"`
	Status      membership.Status `json:"status"`
	PeopleCount int               `json:"people_count"`
	AmountOwed  int               `json:"amount_owed"`
	OfferExpiry *time.Time        `json:"offer_expiry,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type MembershipReadStore interface {
	FindMine(ctx context.Context, sn season.ID, userID uuid.UUID) (*MembershipView, error)
	ListBySeason(ctx context.Context, sn season.ID, status membership.Status) ([]MembershipListItemView, error)
}

type MembershipQueries interface {
	Mine(ctx context.Context, sn season.ID, userID uuid.UUID) (*MembershipView, error)
	List(ctx context.Context, sn season.ID, status membership.Status) ([]MembershipListItemView, error)
}

type membershipQueriesImpl struct {
	readStore MembershipReadStore
	resolver  *shared.SeasonResolver
}

func NewMembershipQueries(readStore MembershipReadStore, resolver *shared.SeasonResolver) MembershipQueries {
	return &membershipQueriesImpl{readStore: readStore, resolver: resolver}
}

func (q *membershipQueriesImpl) Mine(ctx context.Context, sn season.ID, userID uuid.UUID) (*MembershipView, error) {
	resolved, err := q.resolver.ResolveID(ctx, sn)
	if err != nil {
		return nil, err
	}
	return q.readStore.FindMine(ctx, resolved, userID)
}

// List はシーズン内の申請一覧。status が空なら全件。
func (q *membershipQueriesImpl) List(ctx context.Context, sn season.ID, status membership.Status) ([]MembershipListItemView, error) {
	resolved, err := q.resolver.ResolveID(ctx, sn)
	if err != nil {
		return nil, err
	}
	items, err := q.readStore.ListBySeason(ctx, resolved, status)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []MembershipListItemView{}
	}
	return items, nil
}
