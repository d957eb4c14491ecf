package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
)

type SeasonReadStore struct {
	pool *pgxpool.Pool
}

func NewSeasonReadStore(pool *pgxpool.Pool) *SeasonReadStore {
	return &SeasonReadStore{pool: pool}
}

const seasonConfigColumns = `
	season, range_start, range_end,
	guest_cap_per_day, guest_cap_per_person,
	cost_individual_per_person, cost_family_flat,
	offer_response_days, return_response_days,
	hard_offer_deadline, hard_return_deadline,
	visible`

func (r *SeasonReadStore) FindConfig(ctx context.Context, id season.ID) (*season.Config, error) {
	query := `SELECT` + seasonConfigColumns + `
		FROM season_settings
		WHERE season = $1`

	cfg, err := scanSeasonConfig(r.pool.QueryRow(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("season config not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find season config", err)
	}
	return cfg, nil
}

func (r *SeasonReadStore) ListConfigs(ctx context.Context) ([]season.Config, error) {
	query := `SELECT` + seasonConfigColumns + `
		FROM season_settings
		ORDER BY season`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list season configs", err)
	}
	defer rows.Close()

	var configs []season.Config
	for rows.Next() {
		cfg, err := scanSeasonConfig(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan season config", err)
		}
		configs = append(configs, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list season configs", err)
	}
	return configs, nil
}

func (r *SeasonReadStore) WorkingSeason(ctx context.Context) (season.ID, error) {
	const query = `SELECT working_season FROM app_settings WHERE id = 'global'`

	var raw string
	if err := r.pool.QueryRow(ctx, query).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr("working season not configured", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to find working season", err)
	}
	return season.ID(raw), nil
}

func scanSeasonConfig(row pgx.Row) (*season.Config, error) {
	var (
		cfg        season.Config
		start, end time.Time
	)
	err := row.Scan(
		&cfg.Season, &start, &end,
		&cfg.PerDayCap, &cfg.PerUserMax,
		&cfg.Cost.IndividualPerPerson, &cfg.Cost.FamilyFlat,
		&cfg.Deadlines.OfferResponseDays, &cfg.Deadlines.ReturnResponseDays,
		&cfg.Deadlines.HardOfferDeadline, &cfg.Deadlines.HardReturnDeadline,
		&cfg.Visible,
	)
	if err != nil {
		return nil, err
	}
	cfg.Start = dayFromDate(start)
	cfg.End = dayFromDate(end)
	return &cfg, nil
}

// DATE 列は pgx が UTC 深夜の time.Time にして返す。ゾーン変換すると日付が
// ずれるので、そのまま年月日だけを取り出す。
func dayFromDate(t time.Time) season.Day {
	return season.Day(t.Format("2006-01-02"))
}
