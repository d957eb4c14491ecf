package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/membership"
	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

func (r *MembershipRepository) Create(ctx context.Context, record *membership.Record) error {
	peopleJSON, addressJSON, err := encodePeopleAndAddress(record)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO membership_records (
			id, user_id, season, membership_type, status,
			people, address, estimated_cost, amount_owed,
			offer_expires_at, application_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		record.ID(), record.UserID(), record.Season().String(),
		string(record.MembershipType()), string(record.Status()),
		peopleJSON, addressJSON,
		record.EstimatedCost(), record.AmountOwed(),
		record.OfferExpiresAt(), record.ApplicationDate(), record.Notes(),
	)
	if err != nil {
		return wrapWriteErr("failed to create membership record", err)
	}
	return nil
}

func (r *MembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Record, error) {
	const query = `
		SELECT id, user_id, season, membership_type, status,
		       people, address, estimated_cost, amount_owed,
		       offer_expires_at, application_date, offered_at,
		       accepted_at, rejected_at, revoked_at, COALESCE(notes, '')
		FROM membership_records
		WHERE id = $1`

	return r.scanRecord(r.pool.QueryRow(ctx, query, id))
}

func (r *MembershipRepository) Update(ctx context.Context, record *membership.Record) error {
	peopleJSON, addressJSON, err := encodePeopleAndAddress(record)
	if err != nil {
		return err
	}

	const query = `
		UPDATE membership_records SET
			status = $2,
			people = $3,
			address = $4,
			estimated_cost = $5,
			amount_owed = $6,
			offer_expires_at = $7,
			offered_at = $8,
			accepted_at = $9,
			rejected_at = $10,
			revoked_at = $11,
			notes = $12,
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		record.ID(), string(record.Status()),
		peopleJSON, addressJSON,
		record.EstimatedCost(), record.AmountOwed(),
		record.OfferExpiresAt(), record.OfferedAt(),
		record.AcceptedAt(), record.RejectedAt(), record.RevokedAt(),
		record.Notes(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update membership record", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("membership record not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *MembershipRepository) scanRecord(row pgx.Row) (*membership.Record, error) {
	var (
		id, userID                  uuid.UUID
		seasonRaw, typeRaw, statRaw string
		peopleJSON, addressJSON     []byte
		estimatedCost, amountOwed   int
		offerExpiresAt              *time.Time
		applicationDate, offeredAt  *time.Time
		acceptedAt, rejectedAt      *time.Time
		revokedAt                   *time.Time
		notes                       string
	)
	err := row.Scan(
		&id, &userID, &seasonRaw, &typeRaw, &statRaw,
		&peopleJSON, &addressJSON, &estimatedCost, &amountOwed,
		&offerExpiresAt, &applicationDate, &offeredAt,
		&acceptedAt, &rejectedAt, &revokedAt, &notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("membership record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find membership record", err)
	}

	var people []membership.Person
	if err := json.Unmarshal(peopleJSON, &people); err != nil {
		return nil, infra.WrapRepoErr("failed to decode people", err)
	}
	var address *membership.Address
	if len(addressJSON) > 0 {
		address = &membership.Address{}
		if err := json.Unmarshal(addressJSON, address); err != nil {
			return nil, infra.WrapRepoErr("failed to decode address", err)
		}
	}

	return membership.Rehydrate(
		id, userID,
		season.ID(seasonRaw),
		membership.Type(typeRaw),
		membership.Status(statRaw),
		people, address,
		estimatedCost, amountOwed,
		offerExpiresAt, applicationDate, offeredAt, acceptedAt, rejectedAt, revokedAt,
		notes,
	), nil
}

func encodePeopleAndAddress(record *membership.Record) ([]byte, []byte, error) {
	peopleJSON, err := json.Marshal(record.People())
	if err != nil {
		return nil, nil, infra.WrapRepoErr("failed to encode people", err)
	}
	var addressJSON []byte
	if record.Address() != nil {
		addressJSON, err = json.Marshal(record.Address())
		if err != nil {
			return nil, nil, infra.WrapRepoErr("failed to encode address", err)
		}
	}
	return peopleJSON, addressJSON, nil
}
