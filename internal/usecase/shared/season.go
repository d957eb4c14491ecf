package shared

import (
	"context"

	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
	"splashboard/internal/pkg/clock"
)

// SeasonConfigStore はシーズン設定の読み取り口。readstore が実装する。
type SeasonConfigStore interface {
	FindConfig(ctx context.Context, id season.ID) (*season.Config, error)
	WorkingSeason(ctx context.Context) (season.ID, error)
}

// SeasonResolver はシーズンIDと設定を解決する。
// DBに設定が無い場合はフォールバック設定(6/1〜9/1、既定の上限)を返す。
type SeasonResolver struct {
	store SeasonConfigStore
	clock clock.Clock
}

func NewSeasonResolver(store SeasonConfigStore, clk clock.Clock) *SeasonResolver {
	return &SeasonResolver{store: store, clock: clk}
}

// ResolveID は空IDを作業シーズンに解決する。
// app_settings 未設定なら現在時刻から既定シーズン(9/20切替)を導出する。
func (r *SeasonResolver) ResolveID(ctx context.Context, id season.ID) (season.ID, error) {
	if id != "" {
		if err := id.Validate(); err != nil {
			return "", err
		}
		return id, nil
	}
	working, err := r.store.WorkingSeason(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return season.Default(r.clock.Now()), nil
		}
		return "", err
	}
	return working, nil
}

// Resolve はシーズン設定を取得する。未登録シーズンはフォールバックで補う。
func (r *SeasonResolver) Resolve(ctx context.Context, id season.ID) (season.Config, error) {
	resolved, err := r.ResolveID(ctx, id)
	if err != nil {
		return season.Config{}, err
	}
	cfg, err := r.store.FindConfig(ctx, resolved)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return season.Fallback(resolved), nil
		}
		return season.Config{}, err
	}
	return *cfg, nil
}
