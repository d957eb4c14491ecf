package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"splashboard/internal/domain/user"
	"splashboard/internal/infra"
	"splashboard/internal/pkg/errs"
	"splashboard/internal/pkg/jwt"
	"splashboard/internal/pkg/password"
)

var (
	ErrAuthenticationFailed = errs.New("invalid email or password")
	ErrUserInactive         = errs.New("user account is inactive")
	ErrEmailAlreadyUsed     = errs.New("email address is already registered")
	ErrInvalidRefreshToken  = errs.New("invalid refresh token")
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Register(ctx context.Context, email, rawPassword, firstName, lastName string) (uuid.UUID, error)
	Login(ctx context.Context, email, rawPassword string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	users  UserRepository
	jwt    *jwt.Service
	logger *slog.Logger
}

func NewAuthCommands(users UserRepository, jwtSvc *jwt.Service, logger *slog.Logger) AuthCommands {
	return &authCommandsImpl{users: users, jwt: jwtSvc, logger: logger}
}

// Register は申請者ロールでアカウントを作る。会員昇格は入会承認側の責務。
func (c *authCommandsImpl) Register(ctx context.Context, email, rawPassword, firstName, lastName string) (uuid.UUID, error) {
	creds, err := user.NewCredentials(email, rawPassword)
	if err != nil {
		return uuid.Nil, err
	}
	name, err := user.NewName(firstName, lastName)
	if err != nil {
		return uuid.Nil, err
	}

	hashed, err := password.HashPassword(creds.Password().Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(creds.Email(), hashed, name, user.RoleApplicant)
	if err := c.users.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrEmailAlreadyUsed
		}
		return uuid.Nil, errs.Wrap(err, "failed to create user")
	}

	c.logger.Info("ユーザーを登録した", "user_id", u.ID())
	return u.ID(), nil
}

func (c *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	u, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, errs.Wrap(err, "failed to find user")
	}
	if !u.IsActive() {
		return nil, ErrUserInactive
	}
	if err := password.ComparePassword(u.PasswordHash(), rawPassword); err != nil {
		return nil, ErrAuthenticationFailed
	}

	pair, err := c.issueTokens(u)
	if err != nil {
		return nil, err
	}

	// 最終ログインの更新はログインを失敗させるほどの事では無い
	if err := c.users.UpdateLastLogin(ctx, u.ID()); err != nil {
		c.logger.Warn("最終ログイン時刻の更新に失敗", "user_id", u.ID(), "error", err)
	}

	return pair, nil
}

// Refresh はリフレッシュトークンからトークンペアを再発行する。ロールは
// トークンではなく現在のDBの値を使う(昇格・降格を即時反映するため)。
func (c *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwt.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	u, err := c.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, errs.Wrap(err, "failed to find user")
	}
	if !u.IsActive() {
		return nil, ErrUserInactive
	}

	return c.issueTokens(u)
}

func (c *authCommandsImpl) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := c.jwt.GenerateAccessToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate access token")
	}
	refresh, err := c.jwt.GenerateRefreshToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
