package season

import "time"

// Hardcoded fallback values applied when no admin has configured a season
// yet. The system must stay usable before configuration.
const (
	DefaultPerDayCap  = 25
	DefaultPerUserMax = 5

	DefaultCostIndividualPerPerson = 260
	DefaultCostFamilyFlat          = 620

	DefaultOfferResponseDays  = 14
	DefaultReturnResponseDays = 21
)

type Cost struct {
	IndividualPerPerson int
	FamilyFlat          int
}

type Deadlines struct {
	OfferResponseDays  int
	ReturnResponseDays int
	HardOfferDeadline  *time.Time
	HardReturnDeadline *time.Time
}

// Config is the per-season operating configuration: inclusive date range,
// guest caps, membership cost and offer deadlines.
type Config struct {
	Season     ID
	Start      Day
	End        Day
	PerDayCap  int
	PerUserMax int
	Cost       Cost
	Deadlines  Deadlines
	Visible    bool
}

// Fallback builds the default configuration for a season: June 1 through
// September 1 with the default caps.
func Fallback(id ID) Config {
	year := id.Year()
	return Config{
		Season:     id,
		Start:      DayOf(time.Date(year, time.June, 1, 0, 0, 0, 0, clubZone)),
		End:        DayOf(time.Date(year, time.September, 1, 0, 0, 0, 0, clubZone)),
		PerDayCap:  DefaultPerDayCap,
		PerUserMax: DefaultPerUserMax,
		Cost: Cost{
			IndividualPerPerson: DefaultCostIndividualPerPerson,
			FamilyFlat:          DefaultCostFamilyFlat,
		},
		Deadlines: Deadlines{
			OfferResponseDays:  DefaultOfferResponseDays,
			ReturnResponseDays: DefaultReturnResponseDays,
		},
		Visible: true,
	}
}

// ConfigPatch は設定の部分更新。nil のフィールドは既存値を保つ。
type ConfigPatch struct {
	Start              *Day
	End                *Day
	PerDayCap          *int
	PerUserMax         *int
	CostIndividual     *int
	CostFamily         *int
	OfferResponseDays  *int
	ReturnResponseDays *int
	HardOfferDeadline  *time.Time
	HardReturnDeadline *time.Time
	Visible            *bool
}

// ApplyTo は base に指定フィールドだけを上書きした設定を返す。
func (p ConfigPatch) ApplyTo(base Config) Config {
	cfg := base
	if p.Start != nil {
		cfg.Start = *p.Start
	}
	if p.End != nil {
		cfg.End = *p.End
	}
	if p.PerDayCap != nil {
		cfg.PerDayCap = *p.PerDayCap
	}
	if p.PerUserMax != nil {
		cfg.PerUserMax = *p.PerUserMax
	}
	if p.CostIndividual != nil {
		cfg.Cost.IndividualPerPerson = *p.CostIndividual
	}
	if p.CostFamily != nil {
		cfg.Cost.FamilyFlat = *p.CostFamily
	}
	if p.OfferResponseDays != nil {
		cfg.Deadlines.OfferResponseDays = *p.OfferResponseDays
	}
	if p.ReturnResponseDays != nil {
		cfg.Deadlines.ReturnResponseDays = *p.ReturnResponseDays
	}
	if p.HardOfferDeadline != nil {
		cfg.Deadlines.HardOfferDeadline = p.HardOfferDeadline
	}
	if p.HardReturnDeadline != nil {
		cfg.Deadlines.HardReturnDeadline = p.HardReturnDeadline
	}
	if p.Visible != nil {
		cfg.Visible = *p.Visible
	}
	return cfg
}

func (c Config) Validate() error {
	if c.End.Before(c.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether d falls inside the inclusive season range.
// Both bounds are accepted.
func (c Config) Contains(d Day) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}

// Days lists every calendar day from Start to End inclusive.
func (c Config) Days() []Day {
	return ListDaysInclusive(c.Start, c.End)
}

func ListDaysInclusive(start, end Day) []Day {
	if end.Before(start) {
		return nil
	}
	var out []Day
	for d := start; !d.After(end); d = d.Next() {
		out = append(out, d)
	}
	return out
}
