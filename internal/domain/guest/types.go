package guest

import (
	"time"

	"splashboard/internal/domain/season"

	"github.com/google/uuid"
)

// Machine-readable reason codes for capacity conflicts, surfaced to
// clients so "day is full" and "personal limit" can be shown distinctly.
const (
	ReasonDayCapExceeded     = "day_cap_exceeded"
	ReasonPerUserCapExceeded = "per_user_cap_exceeded"
)

// RosterEntry is the durable per-user, per-day signup record; the sum of
// Guests over a (season, day) is the source of truth for that day's
// counter. A zero-guest entry is deleted, never stored.
type RosterEntry struct {
	Season    season.ID
	Day       season.Day
	UserID    uuid.UUID
	Guests    int
	UpdatedAt time.Time
}

// DaySnapshot is the post-mutation view returned synchronously from a
// signup call: the caller's own count plus the day aggregate.
type DaySnapshot struct {
	Season    season.ID
	Day       season.Day
	Guests    int
	Cap       int
	Used      int
	Remaining int
	Version   int64
}

// DayUpdate is the transient capacity event fanned out to live viewers of
// a season after a successful mutation.
type DayUpdate struct {
	Season    season.ID
	Day       season.Day
	Used      int
	Cap       int
	Remaining int
	Version   int64
}

func Remaining(cap, used int) int {
	if r := cap - used; r > 0 {
		return r
	}
	return 0
}
