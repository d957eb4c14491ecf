package queries

import (
	"context"
	"time"

	"splashboard/internal/domain/season"
	"splashboard/internal/usecase/shared"
)

type SeasonConfigView struct {
	Season             season.ID  `json:"season"`
	Start              season.Day `json:"start"`
	End                season.Day `json:"end"`
	PerDayCap          int        `json:"per_day_cap"`
	PerUserMax         int        `json:"per_user_max"`
	CostIndividual     int        `json:"cost_individual_per_person"`
	CostFamily         int        `json:"cost_family_flat"`
	OfferResponseDays  int        `json:"offer_response_days"`
	ReturnResponseDays int        `json:"return_response_days"`
	HardOfferDeadline  *time.Time `json:"hard_offer_deadline,omitempty"`
	HardReturnDeadline *time.Time `json:"hard_return_deadline,omitempty"`
	Visible            bool       `json:"visible"`
}

func NewSeasonConfigView(cfg season.Config) *SeasonConfigView {
	return &SeasonConfigView{
		Season:             cfg.Season,
		Start:              cfg.Start,
		End:                cfg.End,
		PerDayCap:          cfg.PerDayCap,
		PerUserMax:         cfg.PerUserMax,
		CostIndividual:     cfg.Cost.IndividualPerPerson,
		CostFamily:         cfg.Cost.FamilyFlat,
		OfferResponseDays:  cfg.Deadlines.OfferResponseDays,
		ReturnResponseDays: cfg.Deadlines.ReturnResponseDays,
		HardOfferDeadline:  cfg.Deadlines.HardOfferDeadline,
		HardReturnDeadline: cfg.Deadlines.HardReturnDeadline,
		Visible:            cfg.Visible,
	}
}

type SeasonReadStore interface {
	shared.SeasonConfigStore
	ListConfigs(ctx context.Context) ([]season.Config, error)
}

type SeasonQueries interface {
	Config(ctx context.Context, sn season.ID) (*SeasonConfigView, error)
	List(ctx context.Context) ([]SeasonConfigView, error)
}

type seasonQueriesImpl struct {
	readStore SeasonReadStore
	resolver  *shared.SeasonResolver
}

func NewSeasonQueries(readStore SeasonReadStore, resolver *shared.SeasonResolver) SeasonQueries {
	return &seasonQueriesImpl{readStore: readStore, resolver: resolver}
}

// Config は未登録シーズンでもフォールバック設定を返す。
func (q *seasonQueriesImpl) Config(ctx context.Context, sn season.ID) (*SeasonConfigView, error) {
	cfg, err := q.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, err
	}
	return NewSeasonConfigView(cfg), nil
}

func (q *seasonQueriesImpl) List(ctx context.Context) ([]SeasonConfigView, error) {
	configs, err := q.readStore.ListConfigs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]SeasonConfigView, 0, len(configs))
	for _, cfg := range configs {
		views = append(views, *NewSeasonConfigView(cfg))
	}
	return views, nil
}
