//go:build unit

package membership

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splashboard/internal/domain/season"
)

var testPeople = []Person{
	{Kind: PersonSelf, FirstName: "Dana", LastName: "Reyes"},
	{Kind: PersonSpouse, FirstName: "Sam", LastName: "Reyes"},
}

func newTestRecord(t *testing.T) *Record {
	t.Helper()
	r, err := NewRecord(uuid.New(), season.ID("2025"), TypeFamily, testPeople, nil, 620, time.Now())
	require.NoError(t, err)
	return r
}

func TestNewRecord(t *testing.T) {
	r := newTestRecord(t)
	assert.Equal(t, StatusSubmitted, r.Status())
	assert.NotNil(t, r.ApplicationDate())

	_, err := NewRecord(uuid.New(), season.ID("2025"), TypeFamily, nil, nil, 0, time.Now())
	assert.ErrorIs(t, err, ErrNoPeople)

	bad := []Person{{Kind: PersonKind("Pet"), FirstName: "Rex"}}
	_, err = NewRecord(uuid.New(), season.ID("2025"), TypeIndividual, bad, nil, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPersonKind)
}

func TestOfferAcceptFlow(t *testing.T) {
	r := newTestRecord(t)
	now := time.Now()
	expiry := now.Add(14 * 24 * time.Hour)

	require.NoError(t, r.Offer(620, expiry, now))
	assert.Equal(t, StatusOffered, r.Status())
	assert.Equal(t, 620, r.AmountOwed())
	require.NotNil(t, r.OfferExpiresAt())

	require.NoError(t, r.Accept(now.Add(time.Hour)))
	assert.Equal(t, StatusAccepted, r.Status())
	assert.NotNil(t, r.AcceptedAt())
}

func TestAcceptAfterExpiryMarksExpired(t *testing.T) {
	r := newTestRecord(t)
	now := time.Now()

	require.NoError(t, r.Offer(620, now.Add(time.Hour), now))

	err := r.Accept(now.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusExpired, r.Status())
}

func TestInvalidTransitions(t *testing.T) {
	now := time.Now()

	t.Run("accept without offer", func(t *testing.T) {
		r := newTestRecord(t)
		assert.ErrorIs(t, r.Accept(now), ErrInvalidTransition)
	})

	t.Run("waitlist after offer", func(t *testing.T) {
		r := newTestRecord(t)
		require.NoError(t, r.Offer(620, now.Add(time.Hour), now))
		assert.ErrorIs(t, r.Waitlist(), ErrInvalidTransition)
	})

	t.Run("revoke requires accepted", func(t *testing.T) {
		r := newTestRecord(t)
		assert.ErrorIs(t, r.Revoke(now), ErrInvalidTransition)
	})

	t.Run("reject then offer refused", func(t *testing.T) {
		r := newTestRecord(t)
		require.NoError(t, r.Reject(now))
		assert.ErrorIs(t, r.Offer(620, now.Add(time.Hour), now), ErrInvalidTransition)
	})
}

func TestEstimateCost(t *testing.T) {
	cost := season.Cost{IndividualPerPerson: 260, FamilyFlat: 620}

	tests := []struct {
		name   string
		mType  Type
		people []Person
		want   int
	}{
		{name: "family is flat", mType: TypeFamily, people: testPeople, want: 620},
		{name: "individual per person", mType: TypeIndividual, people: testPeople, want: 520},
		{name: "individual minimum one", mType: TypeIndividual, people: nil, want: 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCost(tt.mType, tt.people, cost))
		})
	}
}

func TestOfferExpiry(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	hard := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

	t.Run("response window from now", func(t *testing.T) {
		d := season.Deadlines{OfferResponseDays: 14, ReturnResponseDays: 21}
		assert.Equal(t, now.Add(14*24*time.Hour), OfferExpiry(now, d, false))
		assert.Equal(t, now.Add(21*24*time.Hour), OfferExpiry(now, d, true))
	})

	t.Run("hard deadline wins", func(t *testing.T) {
		d := season.Deadlines{OfferResponseDays: 14, ReturnResponseDays: 21, HardOfferDeadline: &hard, HardReturnDeadline: &hard}
		assert.Equal(t, hard, OfferExpiry(now, d, false))
		assert.Equal(t, hard, OfferExpiry(now, d, true))
	})
}
