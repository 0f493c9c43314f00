package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/goroutine"
	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
	"github.com/ignatzorin/proposalpro-backend/internal/ws"
)

// ActivityHandler предоставляет HTTP слой для журнала действий.
type ActivityHandler struct {
	activities *repository.ActivityRepository
	hub        *ws.Hub
	cache      *service.CacheService
}

// NewActivityHandler создаёт хэндлер.
func NewActivityHandler(activities *repository.ActivityRepository, hub *ws.Hub, cache *service.CacheService) *ActivityHandler {
	return &ActivityHandler{activities: activities, hub: hub, cache: cache}
}

// List обрабатывает GET /api/activities.
func (h *ActivityHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	activities, err := h.activities.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Recent обрабатывает GET /api/activities/recent?limit=4.
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 4)
	if limit < 1 || limit > 50 {
		limit = 4
	}

	activities, err := h.activities.ListRecent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Create обрабатывает POST /api/activities. Позволяет фронтенду фиксировать
// собственные события дашборда.
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req models.ActivityCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateActivityCreate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные записи", "fields": errs})
		return
	}

	activity := &models.Activity{
		UserID:      &userID,
		Type:        req.Type,
		Description: req.Description,
		EntityID:    req.EntityID,
	}

	created, err := h.activities.Create(c.Request.Context(), activity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	goroutine.SafeGo(func() {
		if h.hub != nil {
			_ = h.hub.Broadcast("activity.created", created)
		}
		if h.cache != nil {
			h.cache.InvalidateDashboard()
		}
	})

	c.JSON(http.StatusCreated, created)
}
