package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
)

// DashboardHandler собирает сводку дашборда одним запросом: статистика,
// последние предложения и последние действия.
type DashboardHandler struct {
	stats      *repository.StatsRepository
	proposals  *repository.ProposalRepository
	activities *repository.ActivityRepository
	cache      *service.CacheService
}

// NewDashboardHandler создаёт хэндлер.
func NewDashboardHandler(
	stats *repository.StatsRepository,
	proposals *repository.ProposalRepository,
	activities *repository.ActivityRepository,
	cache *service.CacheService,
) *DashboardHandler {
	return &DashboardHandler{
		stats:      stats,
		proposals:  proposals,
		activities: activities,
		cache:      cache,
	}
}

// Get обрабатывает GET /api/dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	ctx := c.Request.Context()
	value, err := h.cache.GetOrSet(ctx, service.DashboardCacheKey(userID), 30*time.Second, func() (interface{}, error) {
		stats, err := h.stats.Get(ctx)
		if err != nil {
			return nil, err
		}

		recentProposals, err := h.proposals.ListRecent(ctx, userID, 4)
		if err != nil {
			return nil, err
		}

		recentActivities, err := h.activities.ListRecent(ctx, 4)
		if err != nil {
			return nil, err
		}

		return gin.H{
			"stats":            stats,
			"recentProposals":  recentProposals,
			"recentActivities": recentActivities,
		}, nil
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, value)
}

// InvalidateCache обрабатывает POST /api/dashboard/cache/invalidate.
// Принудительно сбрасывает кэш сводки, следующий запрос соберёт её заново.
func (h *DashboardHandler) InvalidateCache(c *gin.Context) {
	if _, err := common.CurrentUserID(c); err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	h.cache.InvalidateDashboard()

	c.JSON(http.StatusOK, gin.H{"message": "кэш дашборда сброшен"})
}
