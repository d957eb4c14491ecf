package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"splashboard/internal/domain/membership"
	"splashboard/internal/domain/season"
	"splashboard/internal/domain/user"
	"splashboard/internal/infra"
	"splashboard/internal/pkg/clock"
	"splashboard/internal/pkg/errs"
	"splashboard/internal/usecase/shared"
)

var (
	ErrAlreadyApplied     = errs.New("membership application already exists for this season")
	ErrMembershipNotFound = errs.New("membership application not found")
	ErrNotOwner           = errs.New("membership application belongs to another user")
)

type MembershipRepository interface {
	Create(ctx context.Context, r *membership.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*membership.Record, error)
	Update(ctx context.Context, r *membership.Record) error
}

// RoleUpdater は入会確定時のロール昇格に使う。
type RoleUpdater interface {
	UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error
}

type MembershipCommands interface {
	Apply(ctx context.Context, userID uuid.UUID, sn season.ID, t membership.Type, people []membership.Person, address *membership.Address) (*membership.Record, error)
	Waitlist(ctx context.Context, recordID uuid.UUID) error
	Offer(ctx context.Context, recordID uuid.UUID) error
	Accept(ctx context.Context, recordID, userID uuid.UUID) error
	Reject(ctx context.Context, recordID uuid.UUID) error
	Revoke(ctx context.Context, recordID uuid.UUID) error
}

type membershipCommandsImpl struct {
	records  MembershipRepository
	roles    RoleUpdater
	resolver *shared.SeasonResolver
	clock    clock.Clock
	logger   *slog.Logger
}

func NewMembershipCommands(
	records MembershipRepository,
	roles RoleUpdater,
	resolver *shared.SeasonResolver,
	clk clock.Clock,
	logger *slog.Logger,
) MembershipCommands {
	return &membershipCommandsImpl{
		records:  records,
		roles:    roles,
		resolver: resolver,
		clock:    clk,
		logger:   logger,
	}
}

// Apply は入会申請を作る。費用はその時点のシーズン設定から見積もる。
func (c *membershipCommandsImpl) Apply(ctx context.Context, userID uuid.UUID, sn season.ID, t membership.Type, people []membership.Person, address *membership.Address) (*membership.Record, error) {
	cfg, err := c.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve season")
	}

	cost := membership.EstimateCost(t, people, cfg.Cost)
	record, err := membership.NewRecord(userID, cfg.Season, t, people, address, cost, c.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := c.records.Create(ctx, record); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, errs.Wrap(err, "failed to create membership application")
	}

	c.logger.Info("入会申請を受け付けた", "record_id", record.ID(), "season", cfg.Season, "type", t)
	return record, nil
}

func (c *membershipCommandsImpl) Waitlist(ctx context.Context, recordID uuid.UUID) error {
	return c.transition(ctx, recordID, func(r *membership.Record) error {
		return r.Waitlist()
	})
}

// Offer は提示額と期限を現在のシーズン設定で確定させる。
func (c *membershipCommandsImpl) Offer(ctx context.Context, recordID uuid.UUID) error {
	return c.transition(ctx, recordID, func(r *membership.Record) error {
		cfg, err := c.resolver.Resolve(ctx, r.Season())
		if err != nil {
			return errs.Wrap(err, "failed to resolve season")
		}
		now := c.clock.Now()
		isReturn := r.Status() == membership.StatusReturnOffer
		expiry := membership.OfferExpiry(now, cfg.Deadlines, isReturn)
		return r.Offer(r.EstimatedCost(), expiry, now)
	})
}

// Accept は申請者本人のみ。確定と同時に会員ロールへ昇格する。
func (c *membershipCommandsImpl) Accept(ctx context.Context, recordID, userID uuid.UUID) error {
	record, err := c.find(ctx, recordID)
	if err != nil {
		return err
	}
	if record.UserID() != userID {
		return ErrNotOwner
	}

	if err := record.Accept(c.clock.Now()); err != nil {
		// 期限切れで Expired に落ちた場合もここに来る。状態は保存する。
		if record.Status() == membership.StatusExpired {
			if saveErr := c.records.Update(ctx, record); saveErr != nil {
				c.logger.Error("期限切れ状態の保存に失敗", "record_id", recordID, "error", saveErr)
			}
		}
		return err
	}
	if err := c.records.Update(ctx, record); err != nil {
		return errs.Wrap(err, "failed to save membership application")
	}

	if err := c.roles.UpdateRole(ctx, userID, user.RoleMember); err != nil {
		c.logger.Error("会員ロールへの昇格に失敗", "user_id", userID, "error", err)
		return errs.Wrap(err, "failed to promote user to member")
	}

	c.logger.Info("入会が確定した", "record_id", recordID, "user_id", userID)
	return nil
}

func (c *membershipCommandsImpl) Reject(ctx context.Context, recordID uuid.UUID) error {
	return c.transition(ctx, recordID, func(r *membership.Record) error {
		return r.Reject(c.clock.Now())
	})
}

func (c *membershipCommandsImpl) Revoke(ctx context.Context, recordID uuid.UUID) error {
	return c.transition(ctx, recordID, func(r *membership.Record) error {
		return r.Revoke(c.clock.Now())
	})
}

func (c *membershipCommandsImpl) find(ctx context.Context, recordID uuid.UUID) (*membership.Record, error) {
	record, err := c.records.FindByID(ctx, recordID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, errs.Wrap(err, "failed to find membership application")
	}
	return record, nil
}

func (c *membershipCommandsImpl) transition(ctx context.Context, recordID uuid.UUID, fn func(*membership.Record) error) error {
	record, err := c.find(ctx, recordID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	if err := c.records.Update(ctx, record); err != nil {
		return errs.Wrap(err, "failed to save membership application")
	}
	return nil
}
