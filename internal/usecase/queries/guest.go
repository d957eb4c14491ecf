package queries

import (
	"context"

	"github.com/google/uuid"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	"splashboard/internal/pkg/errs"
	"splashboard/internal/usecase/shared"
)

var ErrDayOutOfRange = errs.New("day is outside the season range")

type AvailabilityDayView struct {
	Day       season.Day `json:"day"`
	Cap       int        `json:"cap"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
}

type AvailabilityView struct {
	Season     season.ID             `json:"season"`
	Start      season.Day            `json:"start"`
	End        season.Day            `json:"end"`
	PerDayCap  int                   `json:"per_day_cap"`
	PerUserMax int                   `json:"per_user_max"`
	Days       []AvailabilityDayView `json:"days"`
}

type MySignupView struct {
	Day    season.Day `json:"day"`
	Guests int        `json:"guests"`
}

type MySignupsView struct {
	Season  season.ID      `json:"season"`
	Signups []MySignupView `json:"signups"`
}

type DaySignupView struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Guests    int       `json:"guests"`
}

type DayRosterView struct {
	Season  season.ID       `json:"season"`
	Day     season.Day      `json:"day"`
	Cap     int             `json:"cap"`
	Used    int             `json:"used"`
	Signups []DaySignupView `json:"signups"`
}

// RosterReadStore は DB 上の申込行の読み取り口。
type RosterReadStore interface {
	FindMine(ctx context.Context, sn season.ID, userID uuid.UUID) ([]MySignupView, error)
	FindForDay(ctx context.Context, sn season.ID, day season.Day) ([]DaySignupView, error)
}

// CounterReader は Redis カウンタの読み取り口。
type CounterReader interface {
	UsedForDays(ctx context.Context, sn season.ID, days []season.Day) ([]int, error)
}

type GuestQueries interface {
	Availability(ctx context.Context, sn season.ID) (*AvailabilityView, error)
	MySignups(ctx context.Context, sn season.ID, userID uuid.UUID) (*MySignupsView, error)
	DayRoster(ctx context.Context, sn season.ID, day season.Day) (*DayRosterView, error)
}

type guestQueriesImpl struct {
	roster   RosterReadStore
	counter  CounterReader
	resolver *shared.SeasonResolver
}

func NewGuestQueries(roster RosterReadStore, counter CounterReader, resolver *shared.SeasonResolver) GuestQueries {
	return &guestQueriesImpl{roster: roster, counter: counter, resolver: resolver}
}

// Availability はシーズン全日の残席をカウンタの一括読み取りで組み立てる。
func (q *guestQueriesImpl) Availability(ctx context.Context, sn season.ID) (*AvailabilityView, error) {
	cfg, err := q.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, err
	}
	days := cfg.Days()
	used, err := q.counter.UsedForDays(ctx, cfg.Season, days)
	if err != nil {
		return nil, err
	}
	view := &AvailabilityView{
		Season:     cfg.Season,
		Start:      cfg.Start,
		End:        cfg.End,
		PerDayCap:  cfg.PerDayCap,
		PerUserMax: cfg.PerUserMax,
		Days:       make([]AvailabilityDayView, 0, len(days)),
	}
	for i, d := range days {
		view.Days = append(view.Days, AvailabilityDayView{
			Day:       d,
			Cap:       cfg.PerDayCap,
			Used:      used[i],
			Remaining: guest.Remaining(cfg.PerDayCap, used[i]),
		})
	}
	return view, nil
}

func (q *guestQueriesImpl) MySignups(ctx context.Context, sn season.ID, userID uuid.UUID) (*MySignupsView, error) {
	resolved, err := q.resolver.ResolveID(ctx, sn)
	if err != nil {
		return nil, err
	}
	signups, err := q.roster.FindMine(ctx, resolved, userID)
	if err != nil {
		return nil, err
	}
	if signups == nil {
		signups = []MySignupView{}
	}
	return &MySignupsView{Season: resolved, Signups: signups}, nil
}

func (q *guestQueriesImpl) DayRoster(ctx context.Context, sn season.ID, day season.Day) (*DayRosterView, error) {
	cfg, err := q.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, err
	}
	if !cfg.Contains(day) {
		return nil, ErrDayOutOfRange
	}
	signups, err := q.roster.FindForDay(ctx, cfg.Season, day)
	if err != nil {
		return nil, err
	}
	if signups == nil {
		signups = []DaySignupView{}
	}
	used, err := q.counter.UsedForDays(ctx, cfg.Season, []season.Day{day})
	if err != nil {
		return nil, err
	}
	return &DayRosterView{
		Season:  cfg.Season,
		Day:     day,
		Cap:     cfg.PerDayCap,
		Used:    used[0],
		Signups: signups,
	}, nil
}
