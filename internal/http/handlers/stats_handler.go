package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
)

// StatsHandler предоставляет HTTP слой для агрегированной статистики.
type StatsHandler struct {
	stats *repository.StatsRepository
	cache *service.CacheService
}

// NewStatsHandler создаёт хэндлер.
func NewStatsHandler(stats *repository.StatsRepository, cache *service.CacheService) *StatsHandler {
	return &StatsHandler{stats: stats, cache: cache}
}

// Get обрабатывает GET /api/stats. Ответ кэшируется коротко, счётчики
// дашборда не обязаны быть свежими до секунды.
func (h *StatsHandler) Get(c *gin.Context) {
	value, err := h.cache.GetOrSet(c.Request.Context(), service.StatsCacheKey(), 15*time.Second, func() (interface{}, error) {
		return h.stats.Get(c.Request.Context())
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, value)
}
