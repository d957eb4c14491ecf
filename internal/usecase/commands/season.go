package commands

import (
	"context"
	"log/slog"

	"splashboard/internal/domain/season"
	"splashboard/internal/pkg/errs"
	"splashboard/internal/usecase/shared"
)

var ErrInvalidSeasonRange = errs.New("season range end must be on or after start")

// SeasonRepository はシーズン設定の書き込み口。
type SeasonRepository interface {
	UpsertConfig(ctx context.Context, cfg season.Config) error
}

// SettingsRepository はアプリ全体設定の書き込み口。
type SettingsRepository interface {
	SetWorkingSeason(ctx context.Context, sn season.ID) error
}

type SeasonCommands interface {
	UpdateConfig(ctx context.Context, id season.ID, patch season.ConfigPatch) (*season.Config, error)
	SetWorkingSeason(ctx context.Context, sn season.ID) error
}

type seasonCommandsImpl struct {
	seasons  SeasonRepository
	settings SettingsRepository
	live     LivePublisher
	resolver *shared.SeasonResolver
	logger   *slog.Logger
}

func NewSeasonCommands(
	seasons SeasonRepository,
	settings SettingsRepository,
	live LivePublisher,
	resolver *shared.SeasonResolver,
	logger *slog.Logger,
) SeasonCommands {
	return &seasonCommandsImpl{
		seasons:  seasons,
		settings: settings,
		live:     live,
		resolver: resolver,
		logger:   logger,
	}
}

// UpdateConfig はシーズン設定を部分更新する。省略されたフィールドは
// 保存済み(未登録ならフォールバック)の値をそのまま保つ。日次上限が
// 変わった場合のみ seasonCap イベントを配信する(視聴側の残席再計算のトリガ)。
func (c *seasonCommandsImpl) UpdateConfig(ctx context.Context, id season.ID, patch season.ConfigPatch) (*season.Config, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	before, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load current season config")
	}

	cfg := patch.ApplyTo(before)
	cfg.Season = id
	if err := cfg.Validate(); err != nil {
		return nil, ErrInvalidSeasonRange
	}

	if err := c.seasons.UpsertConfig(ctx, cfg); err != nil {
		return nil, errs.Wrap(err, "failed to save season config")
	}

	if cfg.PerDayCap != before.PerDayCap {
		if pubErr := c.live.PublishSeasonCap(ctx, cfg.Season, cfg.PerDayCap); pubErr != nil {
			c.logger.Warn("上限変更イベントの配信に失敗", "season", cfg.Season, "error", pubErr)
		}
	}

	c.logger.Info("シーズン設定を更新した", "season", cfg.Season, "per_day_cap", cfg.PerDayCap)
	return &cfg, nil
}

func (c *seasonCommandsImpl) SetWorkingSeason(ctx context.Context, sn season.ID) error {
	if err := sn.Validate(); err != nil {
		return err
	}
	if err := c.settings.SetWorkingSeason(ctx, sn); err != nil {
		return errs.Wrap(err, "failed to save working season")
	}
	c.logger.Info("作業シーズンを変更した", "season", sn)
	return nil
}
