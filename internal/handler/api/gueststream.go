package api

import (
	"log/slog"
	"net/http"
	"time"

	reqdto "splashboard/internal/handler/dto/request"
	"splashboard/internal/infra/live"
	"splashboard/internal/pkg/config"
	"splashboard/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

// GuestStreamHandler streams capacity changes to viewers over SSE. One
// subscription per connection; events are filtered to the requested season.
type GuestStreamHandler struct {
	broker       *live.Broker
	resolver     *shared.SeasonResolver
	pingInterval time.Duration
	logger       *slog.Logger
}

func NewGuestStreamHandler(broker *live.Broker, resolver *shared.SeasonResolver, cfg config.Config, logger *slog.Logger) *GuestStreamHandler {
	return &GuestStreamHandler{
		broker:       broker,
		resolver:     resolver,
		pingInterval: cfg.Guest.PingInterval,
		logger:       logger,
	}
}

// @Summary Live capacity updates
// @Description Server-sent events stream of day capacity changes for a season
// @Tags guest
// @Security BearerAuth
// @Produce text/event-stream
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string
// @Router /guest/stream [get]
func (h *GuestStreamHandler) Stream(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	ctx := c.Request.Context()
	resolved, err := h.resolver.ResolveID(ctx, sn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	sub, err := h.broker.Subscribe(ctx, resolved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to open event stream",
		})
		return
	}
	defer func() {
		if closeErr := sub.Close(); closeErr != nil {
			h.logger.Warn("購読のクローズに失敗", "error", closeErr)
		}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	// リバースプロキシのバッファリングを無効化する
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	// 接続直後の状態はストリームに乗らない。クライアントは availability を
	// 取り直してからイベントを信用する前提。
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			c.SSEvent(ev.Type, ev)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent(live.EventPing, gin.H{})
			c.Writer.Flush()
		}
	}
}
