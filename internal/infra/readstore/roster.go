package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
	"splashboard/internal/usecase/queries"
)

type RosterReadStore struct {
	pool *pgxpool.Pool
}

func NewRosterReadStore(pool *pgxpool.Pool) *RosterReadStore {
	return &RosterReadStore{pool: pool}
}

func (r *RosterReadStore) FindMine(ctx context.Context, sn season.ID, userID uuid.UUID) ([]queries.MySignupView, error) {
	const query = `
		SELECT day, guests
		FROM guest_signups
		WHERE season = $1 AND user_id = $2
		ORDER BY day`

	rows, err := r.pool.Query(ctx, query, sn.String(), userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find signups", err)
	}
	defer rows.Close()

	var views []queries.MySignupView
	for rows.Next() {
		var (
			day time.Time
			v   queries.MySignupView
		)
		if err := rows.Scan(&day, &v.Guests); err != nil {
			return nil, infra.WrapRepoErr("failed to scan signup", err)
		}
		v.Day = dayFromDate(day)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to find signups", err)
	}
	return views, nil
}

func (r *RosterReadStore) FindForDay(ctx context.Context, sn season.ID, day season.Day) ([]queries.DaySignupView, error) {
	const query = `
		SELECT s.user_id, u.first_name, u.last_name, u.email, s.guests
		FROM guest_signups s
		JOIN users u ON u.id = s.user_id
		WHERE s.season = $1 AND s.day = $2
		ORDER BY u.last_name, u.first_name`

	rows, err := r.pool.Query(ctx, query, sn.String(), day.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find day roster", err)
	}
	defer rows.Close()

	var views []queries.DaySignupView
	for rows.Next() {
		var v queries.DaySignupView
		if err := rows.Scan(&v.UserID, &v.FirstName, &v.LastName, &v.Email, &v.Guests); err != nil {
			return nil, infra.WrapRepoErr("failed to scan day roster row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to find day roster", err)
	}
	return views, nil
}
