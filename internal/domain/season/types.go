package season

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrInvalidSeason = errors.New("season must be a 4-digit year")
	ErrInvalidDay    = errors.New("day must be formatted as YYYY-MM-DD")
	ErrInvalidRange  = errors.New("season range end must be on or after start")
)

var seasonRegex = regexp.MustCompile(`^\d{4}$`)

const dayLayout = "2006-01-02"

// クラブの全日付境界はこのゾーンで計算する (UTCではない)。
const zoneName = "America/New_York"

var clubZone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		panic("failed to load club time zone: " + err.Error())
	}
	return loc
}

func Zone() *time.Location {
	return clubZone
}

// ID is a year-scoped operating period, e.g. "2025".
type ID string

func NewID(s string) (ID, error) {
	if !seasonRegex.MatchString(s) {
		return "", ErrInvalidSeason
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

func (id ID) Validate() error {
	if !seasonRegex.MatchString(string(id)) {
		return ErrInvalidSeason
	}
	return nil
}

func (id ID) Year() int {
	t, _ := time.Parse("2006", string(id))
	return t.Year()
}

// Default returns the working season for "now": the current year until
// September 20, the next year from then on.
func Default(now time.Time) ID {
	n := now.In(clubZone)
	cutoff := time.Date(n.Year(), time.September, 20, 0, 0, 0, 0, clubZone)
	if !n.Before(cutoff) {
		return ID(time.Date(n.Year()+1, 1, 1, 0, 0, 0, 0, clubZone).Format("2006"))
	}
	return ID(n.Format("2006"))
}

// Day is a calendar day in the club zone, canonical form "YYYY-MM-DD".
type Day string

func NewDay(s string) (Day, error) {
	t, err := time.ParseInLocation(dayLayout, s, clubZone)
	if err != nil {
		return "", ErrInvalidDay
	}
	// 正規化 ("2025-7-4" などは受け付けない)
	if t.Format(dayLayout) != s {
		return "", ErrInvalidDay
	}
	return Day(s), nil
}

func DayOf(t time.Time) Day {
	return Day(t.In(clubZone).Format(dayLayout))
}

func (d Day) String() string {
	return string(d)
}

// Time returns midnight of the day in the club zone.
func (d Day) Time() time.Time {
	t, _ := time.ParseInLocation(dayLayout, string(d), clubZone)
	return t
}

func (d Day) Before(other Day) bool { return string(d) < string(other) }
func (d Day) After(other Day) bool  { return string(d) > string(other) }

func (d Day) Next() Day {
	return DayOf(d.Time().AddDate(0, 0, 1))
}
