package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
)

type SeasonRepository struct {
	pool *pgxpool.Pool
}

func NewSeasonRepository(pool *pgxpool.Pool) *SeasonRepository {
	return &SeasonRepository{pool: pool}
}

func (r *SeasonRepository) UpsertConfig(ctx context.Context, cfg season.Config) error {
	const query = `
		INSERT INTO season_settings (
			season, range_start, range_end,
			guest_cap_per_day, guest_cap_per_person,
			cost_individual_per_person, cost_family_flat,
			offer_response_days, return_response_days,
			hard_offer_deadline, hard_return_deadline,
			visible
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (season) DO UPDATE SET
			range_start = EXCLUDED.range_start,
			range_end = EXCLUDED.range_end,
			guest_cap_per_day = EXCLUDED.guest_cap_per_day,
			guest_cap_per_person = EXCLUDED.guest_cap_per_person,
			cost_individual_per_person = EXCLUDED.cost_individual_per_person,
			cost_family_flat = EXCLUDED.cost_family_flat,
			offer_response_days = EXCLUDED.offer_response_days,
			return_response_days = EXCLUDED.return_response_days,
			hard_offer_deadline = EXCLUDED.hard_offer_deadline,
			hard_return_deadline = EXCLUDED.hard_return_deadline,
			visible = EXCLUDED.visible,
			updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		cfg.Season.String(), cfg.Start.Time(), cfg.End.Time(),
		cfg.PerDayCap, cfg.PerUserMax,
		cfg.Cost.IndividualPerPerson, cfg.Cost.FamilyFlat,
		cfg.Deadlines.OfferResponseDays, cfg.Deadlines.ReturnResponseDays,
		cfg.Deadlines.HardOfferDeadline, cfg.Deadlines.HardReturnDeadline,
		cfg.Visible,
	)
	if err != nil {
		return wrapWriteErr("failed to upsert season config", err)
	}
	return nil
}

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// SetWorkingSeason は単一行 (id='global') の作業シーズンを書き替える。
func (r *SettingsRepository) SetWorkingSeason(ctx context.Context, sn season.ID) error {
	const query = `
		INSERT INTO app_settings (id, working_season)
		VALUES ('global', $1)
		ON CONFLICT (id) DO UPDATE SET
			working_season = EXCLUDED.working_season,
			updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, sn.String()); err != nil {
		return infra.WrapRepoErr("failed to set working season", err)
	}
	return nil
}
