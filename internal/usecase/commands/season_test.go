//go:build unit

package commands

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"splashboard/internal/domain/season"
	"splashboard/internal/infra"
	"splashboard/internal/pkg/clock"
	"splashboard/internal/usecase/shared"
)

type MockSeasonRepository struct {
	mock.Mock
}

func (m *MockSeasonRepository) UpsertConfig(ctx context.Context, cfg season.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) SetWorkingSeason(ctx context.Context, sn season.ID) error {
	args := m.Called(ctx, sn)
	return args.Error(0)
}

type seasonTestDeps struct {
	seasons  *MockSeasonRepository
	settings *MockSettingsRepository
	live     *MockLivePublisher
	store    *MockSeasonConfigStore
	commands SeasonCommands
}

func newSeasonTestDeps(t *testing.T) *seasonTestDeps {
	t.Helper()
	seasons := new(MockSeasonRepository)
	settings := new(MockSettingsRepository)
	live := new(MockLivePublisher)
	store := new(MockSeasonConfigStore)

	clk := clock.NewMockClock(time.Date(2025, time.July, 1, 10, 0, 0, 0, season.Zone()))
	resolver := shared.NewSeasonResolver(store, clk)

	return &seasonTestDeps{
		seasons:  seasons,
		settings: settings,
		live:     live,
		store:    store,
		commands: NewSeasonCommands(seasons, settings, live, resolver, slog.Default()),
	}
}

func intPtr(v int) *int { return &v }

func TestUpdateConfig(t *testing.T) {
	ctx := context.Background()
	sn := season.ID("2025")

	t.Run("partial update keeps stored fields", func(t *testing.T) {
		deps := newSeasonTestDeps(t)
		stored := season.Fallback(sn)
		stored.PerUserMax = 10
		stored.Cost.FamilyFlat = 700
		deps.store.On("FindConfig", ctx, sn).Return(&stored, nil)

		var upserted season.Config
		deps.seasons.On("UpsertConfig", ctx, mock.Anything).
			Run(func(args mock.Arguments) { upserted = args.Get(1).(season.Config) }).
			Return(nil)
		deps.live.On("PublishSeasonCap", ctx, sn, 30).Return(nil)

		saved, err := deps.commands.UpdateConfig(ctx, sn, season.ConfigPatch{PerDayCap: intPtr(30)})
		require.NoError(t, err)

		// 日次上限だけ変わり、他は保存済みの値のまま
		assert.Equal(t, 30, saved.PerDayCap)
		assert.Equal(t, 10, saved.PerUserMax)
		assert.Equal(t, 700, saved.Cost.FamilyFlat)
		assert.Equal(t, stored.Start, saved.Start)
		assert.Equal(t, stored.End, saved.End)
		assert.Equal(t, 10, upserted.PerUserMax)
		deps.live.AssertExpectations(t)
	})

	t.Run("unchanged day cap publishes nothing", func(t *testing.T) {
		deps := newSeasonTestDeps(t)
		stored := season.Fallback(sn)
		deps.store.On("FindConfig", ctx, sn).Return(&stored, nil)
		deps.seasons.On("UpsertConfig", ctx, mock.Anything).Return(nil)

		saved, err := deps.commands.UpdateConfig(ctx, sn, season.ConfigPatch{PerUserMax: intPtr(8)})
		require.NoError(t, err)
		assert.Equal(t, 8, saved.PerUserMax)
		deps.live.AssertNotCalled(t, "PublishSeasonCap", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unconfigured season seeds from fallback", func(t *testing.T) {
		deps := newSeasonTestDeps(t)
		deps.store.On("FindConfig", ctx, sn).
			Return(nil, infra.WrapRepoErr("season not found", nil, infra.KindNotFound))
		deps.seasons.On("UpsertConfig", ctx, mock.Anything).Return(nil)
		deps.live.On("PublishSeasonCap", ctx, sn, 12).Return(nil)

		saved, err := deps.commands.UpdateConfig(ctx, sn, season.ConfigPatch{PerDayCap: intPtr(12)})
		require.NoError(t, err)
		assert.Equal(t, 12, saved.PerDayCap)
		assert.Equal(t, season.DefaultPerUserMax, saved.PerUserMax)
		assert.Equal(t, season.Day("2025-06-01"), saved.Start)
	})

	t.Run("range inverted by patch is rejected", func(t *testing.T) {
		deps := newSeasonTestDeps(t)
		stored := season.Fallback(sn)
		deps.store.On("FindConfig", ctx, sn).Return(&stored, nil)

		end := season.Day("2025-05-01")
		_, err := deps.commands.UpdateConfig(ctx, sn, season.ConfigPatch{End: &end})
		assert.ErrorIs(t, err, ErrInvalidSeasonRange)
		deps.seasons.AssertNotCalled(t, "UpsertConfig", mock.Anything, mock.Anything)
	})
}

func TestSetWorkingSeason(t *testing.T) {
	ctx := context.Background()
	deps := newSeasonTestDeps(t)
	deps.settings.On("SetWorkingSeason", ctx, season.ID("2026")).Return(nil)

	require.NoError(t, deps.commands.SetWorkingSeason(ctx, season.ID("2026")))
	deps.settings.AssertExpectations(t)

	assert.Error(t, deps.commands.SetWorkingSeason(ctx, season.ID("26")))
}
