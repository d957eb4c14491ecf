//go:build unit

package api_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"splashboard/internal/domain/season"
	"splashboard/internal/handler/api"
	"splashboard/internal/infra"
	"splashboard/internal/infra/live"
	"splashboard/internal/pkg/clock"
	"splashboard/internal/pkg/config"
	"splashboard/internal/usecase/shared"
)

// 設定ストア未登録の状態を表すスタブ。明示シーズン指定の解決には触れない。
type emptySeasonConfigStore struct{}

func (emptySeasonConfigStore) FindConfig(ctx context.Context, id season.ID) (*season.Config, error) {
	return nil, infra.WrapRepoErr("season not found", nil, infra.KindNotFound)
}

func (emptySeasonConfigStore) WorkingSeason(ctx context.Context) (season.ID, error) {
	return "", infra.WrapRepoErr("not configured", nil, infra.KindNotFound)
}

func TestStreamPingIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	broker := live.NewBroker(client, slog.Default())
	clk := clock.NewMockClock(time.Date(2025, time.July, 1, 10, 0, 0, 0, season.Zone()))
	resolver := shared.NewSeasonResolver(emptySeasonConfigStore{}, clk)

	cfg := config.NewTestConfig()
	cfg.Guest.PingInterval = 10 * time.Millisecond
	handler := api.NewGuestStreamHandler(broker, resolver, cfg, slog.Default())

	router := gin.New()
	router.GET("/api/guest/stream", handler.Stream)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/guest/stream?season=2025", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event:ping")
	// ping はデータを運ばない
	assert.Contains(t, body, "data:{}")
}
