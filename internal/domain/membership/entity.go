package membership

import (
	"time"

	"splashboard/internal/domain/season"

	"github.com/google/uuid"
)

// Record is one user's membership application for one season, unique per
// (user, season). Plain conditional CRUD; all transitions go through the
// methods below.
type Record struct {
	id              uuid.UUID
	userID          uuid.UUID
	season          season.ID
	membershipType  Type
	status          Status
	people          []Person
	address         *Address
	estimatedCost   int
	amountOwed      int
	offerExpiresAt  *time.Time
	applicationDate *time.Time
	offeredAt       *time.Time
	acceptedAt      *time.Time
	rejectedAt      *time.Time
	revokedAt       *time.Time
	notes           string
}

func NewRecord(userID uuid.UUID, s season.ID, t Type, people []Person, address *Address, cost int, now time.Time) (*Record, error) {
	if len(people) == 0 {
		return nil, ErrNoPeople
	}
	for _, p := range people {
		switch p.Kind {
		case PersonSelf, PersonSpouse, PersonChild:
		default:
			return nil, ErrInvalidPersonKind
		}
	}

	return &Record{
		id:              uuid.New(),
		userID:          userID,
		season:          s,
		membershipType:  t,
		status:          StatusSubmitted,
		people:          people,
		address:         address,
		estimatedCost:   cost,
		applicationDate: &now,
	}, nil
}

// Rehydrate rebuilds a record from storage without validation.
func Rehydrate(
	id, userID uuid.UUID,
	s season.ID,
	t Type,
	status Status,
	people []Person,
	address *Address,
	estimatedCost, amountOwed int,
	offerExpiresAt, applicationDate, offeredAt, acceptedAt, rejectedAt, revokedAt *time.Time,
	notes string,
) *Record {
	return &Record{
		id:              id,
		userID:          userID,
		season:          s,
		membershipType:  t,
		status:          status,
		people:          people,
		address:         address,
		estimatedCost:   estimatedCost,
		amountOwed:      amountOwed,
		offerExpiresAt:  offerExpiresAt,
		applicationDate: applicationDate,
		offeredAt:       offeredAt,
		acceptedAt:      acceptedAt,
		rejectedAt:      rejectedAt,
		revokedAt:       revokedAt,
		notes:           notes,
	}
}

func (r *Record) ID() uuid.UUID              { return r.id }
func (r *Record) UserID() uuid.UUID          { return r.userID }
func (r *Record) Season() season.ID          { return r.season }
func (r *Record) MembershipType() Type       { return r.membershipType }
func (r *Record) Status() Status             { return r.status }
func (r *Record) People() []Person           { return r.people }
func (r *Record) Address() *Address          { return r.address }
func (r *Record) EstimatedCost() int         { return r.estimatedCost }
func (r *Record) AmountOwed() int            { return r.amountOwed }
func (r *Record) OfferExpiresAt() *time.Time { return r.offerExpiresAt }
func (r *Record) ApplicationDate() *time.Time {
	return r.applicationDate
}
func (r *Record) OfferedAt() *time.Time  { return r.offeredAt }
func (r *Record) AcceptedAt() *time.Time { return r.acceptedAt }
func (r *Record) RejectedAt() *time.Time { return r.rejectedAt }
func (r *Record) RevokedAt() *time.Time  { return r.revokedAt }
func (r *Record) Notes() string          { return r.notes }

// Waitlist moves a submitted application onto the waitlist.
func (r *Record) Waitlist() error {
	if r.status != StatusSubmitted {
		return ErrInvalidTransition
	}
	r.status = StatusWaitlist
	return nil
}

// Offer extends a membership offer; owed amount and expiry are fixed at
// offer time from the season settings in effect.
func (r *Record) Offer(amountOwed int, expiresAt time.Time, now time.Time) error {
	switch r.status {
	case StatusSubmitted, StatusWaitlist, StatusReturnOffer:
	default:
		return ErrInvalidTransition
	}
	r.status = StatusOffered
	r.amountOwed = amountOwed
	r.offerExpiresAt = &expiresAt
	r.offeredAt = &now
	return nil
}

// Accept is performed by the applicant on an open offer.
func (r *Record) Accept(now time.Time) error {
	if r.status != StatusOffered {
		return ErrInvalidTransition
	}
	if r.offerExpiresAt != nil && now.After(*r.offerExpiresAt) {
		r.status = StatusExpired
		return ErrInvalidTransition
	}
	r.status = StatusAccepted
	r.acceptedAt = &now
	return nil
}

func (r *Record) Reject(now time.Time) error {
	switch r.status {
	case StatusSubmitted, StatusWaitlist, StatusOffered:
	default:
		return ErrInvalidTransition
	}
	r.status = StatusRejected
	r.rejectedAt = &now
	return nil
}

func (r *Record) Revoke(now time.Time) error {
	if r.status != StatusAccepted {
		return ErrInvalidTransition
	}
	r.status = StatusRevoked
	r.revokedAt = &now
	return nil
}

// EstimateCost computes the season cost for an application: family pays a
// flat rate, individual pays per person (at least one).
func EstimateCost(t Type, people []Person, cost season.Cost) int {
	if t == TypeFamily {
		return cost.FamilyFlat
	}
	count := len(people)
	if count < 1 {
		count = 1
	}
	return cost.IndividualPerPerson * count
}

// OfferExpiry resolves the offer deadline: a hard deadline wins, otherwise
// the response window counts from now.
func OfferExpiry(now time.Time, d season.Deadlines, isReturn bool) time.Time {
	if isReturn {
		if d.HardReturnDeadline != nil {
			return *d.HardReturnDeadline
		}
		return now.Add(time.Duration(d.ReturnResponseDays) * 24 * time.Hour)
	}
	if d.HardOfferDeadline != nil {
		return *d.HardOfferDeadline
	}
	return now.Add(time.Duration(d.OfferResponseDays) * 24 * time.Hour)
}
