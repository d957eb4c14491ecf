package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
)

// RosterRepository persists guest signup rows. The rows are the durable
// source of truth the counter can be rebuilt from.
type RosterRepository struct {
	pool *pgxpool.Pool
}

func NewRosterRepository(pool *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

func (r *RosterRepository) Upsert(ctx context.Context, entry guest.RosterEntry) error {
	const query = `
		INSERT INTO guest_signups (season, day, user_id, guests)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season, day, user_id)
		DO UPDATE SET guests = EXCLUDED.guests, updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		entry.Season.String(), entry.Day.Time(), entry.UserID, entry.Guests,
	)
	if err != nil {
		return wrapWriteErr("failed to upsert signup", err)
	}
	return nil
}

// Delete は 0 人指定の正規化。行が無くても成功扱い。
func (r *RosterRepository) Delete(ctx context.Context, sn season.ID, d season.Day, userID uuid.UUID) error {
	const query = `
		DELETE FROM guest_signups
		WHERE season = $1 AND day = $2 AND user_id = $3`

	if _, err := r.pool.Exec(ctx, query, sn.String(), d.Time(), userID); err != nil {
		return infra.WrapRepoErr("failed to delete signup", err)
	}
	return nil
}

// SumsForSeason は再集計用に全行を (日, ユーザー) 別で返す。
func (r *RosterRepository) SumsForSeason(ctx context.Context, sn season.ID) (map[season.Day]map[uuid.UUID]int, error) {
	const query = `
		SELECT day, user_id, guests
		FROM guest_signups
		WHERE season = $1`

	rows, err := r.pool.Query(ctx, query, sn.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load signup sums", err)
	}
	defer rows.Close()

	sums := make(map[season.Day]map[uuid.UUID]int)
	for rows.Next() {
		var (
			day    time.Time
			userID uuid.UUID
			guests int
		)
		if err := rows.Scan(&day, &userID, &guests); err != nil {
			return nil, infra.WrapRepoErr("failed to scan signup row", err)
		}
		d := season.Day(day.Format("2006-01-02"))
		if sums[d] == nil {
			sums[d] = make(map[uuid.UUID]int)
		}
		sums[d][userID] = guests
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to load signup sums", err)
	}
	return sums, nil
}
