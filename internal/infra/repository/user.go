package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"splashboard/internal/domain/user"
	"splashboard/internal/infra"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		u.ID(), u.Email().Value(), u.PasswordHash(),
		u.Name().First(), u.Name().Last(), string(u.Role()), u.IsActive(),
	)
	if err != nil {
		return wrapWriteErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	const query = `
		SELECT id, email, password_hash, first_name, last_name, role,
		       last_login, is_active, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	const query = `
		SELECT id, email, password_hash, first_name, last_name, role,
		       last_login, is_active, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	const query = `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(role))
	if err != nil {
		return infra.WrapRepoErr("failed to update user role", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		id                   uuid.UUID
		emailRaw             string
		passwordHash         string
		firstName, lastName  string
		roleRaw              string
		lastLogin            *time.Time
		isActive             bool
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &emailRaw, &passwordHash, &firstName, &lastName, &roleRaw,
		&lastLogin, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	email, err := user.NewEmail(emailRaw)
	if err != nil {
		return nil, infra.WrapRepoErr("stored email is invalid", err)
	}
	name, err := user.NewName(firstName, lastName)
	if err != nil {
		return nil, infra.WrapRepoErr("stored name is invalid", err)
	}
	role, err := user.NewRole(roleRaw)
	if err != nil {
		return nil, infra.WrapRepoErr("stored role is invalid", err)
	}

	return user.Rehydrate(id, email, passwordHash, name, role, lastLogin, isActive, createdAt, updatedAt), nil
}
