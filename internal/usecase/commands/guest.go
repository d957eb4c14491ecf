package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
	"splashboard/internal/infra/counter"
	"splashboard/internal/pkg/errs"
	"splashboard/internal/usecase/shared"
)

var (
	ErrInvalidGuestCount  = errs.New("guest count must be a non-negative integer")
	ErrDayOutOfRange      = errs.New("day is outside the season range")
	ErrSeasonNotOpen      = errs.New("season is not open for signups")
	ErrPerUserCapExceeded = errs.New("per-user guest cap exceeded")
	ErrDayCapExceeded     = errs.New("day guest cap exceeded")
)

// CounterStore はカウンタの原子的更新口。infra/counter が実装する。
type CounterStore interface {
	SetDesiredCount(ctx context.Context, sn season.ID, d season.Day, userID uuid.UUID, newCount, perUserMax, perDayCap int) (*counter.Result, error)
	RebuildDay(ctx context.Context, sn season.ID, d season.Day, counts map[uuid.UUID]int) (*counter.Result, error)
}

// RosterRepository は申込行の永続化口。カウンタ確定後にのみ書く。
type RosterRepository interface {
	Upsert(ctx context.Context, entry guest.RosterEntry) error
	Delete(ctx context.Context, sn season.ID, d season.Day, userID uuid.UUID) error
	SumsForSeason(ctx context.Context, sn season.ID) (map[season.Day]map[uuid.UUID]int, error)
}

// LivePublisher はライブ更新の配信口。infra/live が実装する。
type LivePublisher interface {
	PublishDayUpdate(ctx context.Context, u guest.DayUpdate) error
	PublishSeasonCap(ctx context.Context, sn season.ID, cap int) error
}

type GuestCommands interface {
	SetSignup(ctx context.Context, userID uuid.UUID, sn season.ID, d season.Day, guests int) (*guest.DaySnapshot, error)
	RecountSeason(ctx context.Context, sn season.ID) ([]guest.DayUpdate, error)
}

type guestCommandsImpl struct {
	counter  CounterStore
	roster   RosterRepository
	live     LivePublisher
	resolver *shared.SeasonResolver
	logger   *slog.Logger
}

func NewGuestCommands(
	counterStore CounterStore,
	roster RosterRepository,
	live LivePublisher,
	resolver *shared.SeasonResolver,
	logger *slog.Logger,
) GuestCommands {
	return &guestCommandsImpl{
		counter:  counterStore,
		roster:   roster,
		live:     live,
		resolver: resolver,
		logger:   logger,
	}
}

// SetSignup は「その日の希望人数」を絶対値で設定する。増減ではなく設定
// なので、同じリクエストの再送は同じ結果に収束する。
//
// 順序が肝: 先にカウンタ(Redis)で原子的に上限検証と確定を行い、成功した
// 場合のみ台帳(DB)へ書く。逆順だと拒否された書き込みの巻き戻しが必要に
// なる。台帳書き込みの失敗はカウンタとのずれを生むが、recount で修復できる。
func (c *guestCommandsImpl) SetSignup(ctx context.Context, userID uuid.UUID, sn season.ID, d season.Day, guests int) (*guest.DaySnapshot, error) {
	if guests < 0 {
		return nil, ErrInvalidGuestCount
	}

	cfg, err := c.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve season")
	}
	if !cfg.Visible {
		return nil, ErrSeasonNotOpen
	}
	if !cfg.Contains(d) {
		return nil, ErrDayOutOfRange
	}

	res, err := c.counter.SetDesiredCount(ctx, cfg.Season, d, userID, guests, cfg.PerUserMax, cfg.PerDayCap)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindPerUserCapExceeded):
			return nil, ErrPerUserCapExceeded
		case infra.IsKind(err, infra.KindDayCapExceeded):
			return nil, ErrDayCapExceeded
		default:
			return nil, errs.Wrap(err, "failed to update guest counter")
		}
	}

	if guests == 0 {
		err = c.roster.Delete(ctx, cfg.Season, d, userID)
	} else {
		err = c.roster.Upsert(ctx, guest.RosterEntry{
			Season: cfg.Season,
			Day:    d,
			UserID: userID,
			Guests: guests,
		})
	}
	if err != nil {
		// カウンタは確定済みなのでここで失敗すると台帳とずれる。
		// recount で復旧可能。呼び出し元にはエラーを返す。
		c.logger.Error("申込台帳の書き込みに失敗(カウンタは更新済み)",
			"season", cfg.Season, "day", d, "user_id", userID, "error", err)
		return nil, errs.Wrap(err, "failed to persist signup")
	}

	update := guest.DayUpdate{
		Season:    cfg.Season,
		Day:       d,
		Used:      res.Used,
		Cap:       cfg.PerDayCap,
		Remaining: guest.Remaining(cfg.PerDayCap, res.Used),
		Version:   res.Version,
	}
	// 配信失敗でリクエストは落とさない。視聴側は次の更新で追いつく。
	if pubErr := c.live.PublishDayUpdate(ctx, update); pubErr != nil {
		c.logger.Warn("ライブ更新の配信に失敗", "season", cfg.Season, "day", d, "error", pubErr)
	}

	return &guest.DaySnapshot{
		Season:    cfg.Season,
		Day:       d,
		Guests:    res.Guests,
		Cap:       cfg.PerDayCap,
		Used:      res.Used,
		Remaining: guest.Remaining(cfg.PerDayCap, res.Used),
		Version:   res.Version,
	}, nil
}

// RecountSeason は台帳の合計でカウンタを作り直す保守操作。ずれの疑いが
// あるとき管理者が叩く。再構築後の値は通常の更新と同じ経路で配信する。
func (c *guestCommandsImpl) RecountSeason(ctx context.Context, sn season.ID) ([]guest.DayUpdate, error) {
	cfg, err := c.resolver.Resolve(ctx, sn)
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve season")
	}

	sums, err := c.roster.SumsForSeason(ctx, cfg.Season)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sum roster entries")
	}

	updates := make([]guest.DayUpdate, 0, len(cfg.Days()))
	for _, d := range cfg.Days() {
		res, err := c.counter.RebuildDay(ctx, cfg.Season, d, sums[d])
		if err != nil {
			return nil, errs.Wrap(err, "failed to rebuild day counter")
		}
		update := guest.DayUpdate{
			Season:    cfg.Season,
			Day:       d,
			Used:      res.Used,
			Cap:       cfg.PerDayCap,
			Remaining: guest.Remaining(cfg.PerDayCap, res.Used),
			Version:   res.Version,
		}
		if pubErr := c.live.PublishDayUpdate(ctx, update); pubErr != nil {
			c.logger.Warn("再集計結果の配信に失敗", "season", cfg.Season, "day", d, "error", pubErr)
		}
		updates = append(updates, update)
	}

	c.logger.Info("ゲストカウンタを再集計した", "season", cfg.Season, "days", len(updates))
	return updates, nil
}
