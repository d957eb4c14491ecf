package readstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/membership"
	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
	"splashboard/internal/usecase/queries"
)

type MembershipReadStore struct {
	pool *pgxpool.Pool
}

func NewMembershipReadStore(pool *pgxpool.Pool) *MembershipReadStore {
	return &MembershipReadStore{pool: pool}
}

func (r *MembershipReadStore) FindMine(ctx context.Context, sn season.ID, userID uuid.UUID) (*queries.MembershipView, error) {
	const query = `
		SELECT id, user_id, season, membership_type, status,
		       people, address, estimated_cost, amount_owed, offer_expires_at,
		       COALESCE(application_date, created_at), updated_at
		FROM membership_records
		WHERE season = $1 AND user_id = $2`

	var (
		view        queries.MembershipView
		peopleJSON  []byte
		addressJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, sn.String(), userID).Scan(
		&view.ID, &view.UserID, &view.Season, &view.Type, &view.Status,
		&peopleJSON, &addressJSON, &view.EstimatedCost, &view.AmountOwed, &view.OfferExpiry,
		&view.SubmittedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("membership application not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find membership application", err)
	}

	if err := json.Unmarshal(peopleJSON, &view.People); err != nil {
		return nil, infra.WrapRepoErr("failed to decode people", err)
	}
	if len(addressJSON) > 0 {
		var addr membership.Address
		if err := json.Unmarshal(addressJSON, &addr); err != nil {
			return nil, infra.WrapRepoErr("failed to decode address", err)
		}
		view.Address = &addr
	}
	return &view, nil
}

func (r *MembershipReadStore) ListBySeason(ctx context.Context, sn season.ID, status membership.Status) ([]queries.MembershipListItemView, error) {
	query := `
		SELECT m.id, m.user_id, u.email, u.first_name, u.last_name,
		       m.season, m.membership_type, m.status,
		       jsonb_array_length(m.people), m.amount_owed,
		       m.offer_expires_at, COALESCE(m.application_date, m.created_at)
		FROM membership_records m
		JOIN users u ON u.id = m.user_id
		WHERE m.season = $1`
	args := []any{sn.String()}
	if status != "" {
		query += ` AND m.status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY m.application_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list membership applications", err)
	}
	defer rows.Close()

	var views []queries.MembershipListItemView
	for rows.Next() {
		var v queries.MembershipListItemView
		err := rows.Scan(
			&v.ID, &v.UserID, &v.Email, &v.FirstName, &v.LastName,
			&v.Season, &v.Type, &v.Status,
			&v.PeopleCount, &v.AmountOwed,
			&v.OfferExpiry, &v.SubmittedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan membership application row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list membership applications", err)
	}
	return views, nil
}
