package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/goroutine"
	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/logger"
	"github.com/ignatzorin/proposalpro-backend/internal/mailer"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
	"github.com/ignatzorin/proposalpro-backend/internal/ws"
)

// ProposalHandler предоставляет HTTP слой для коммерческих предложений.
type ProposalHandler struct {
	proposals  *repository.ProposalRepository
	activities *repository.ActivityRepository
	users      *repository.UserRepository
	mail       *mailer.Client
	hub        *ws.Hub
	cache      *service.CacheService
}

// NewProposalHandler создаёт хэндлер.
func NewProposalHandler(
	proposals *repository.ProposalRepository,
	activities *repository.ActivityRepository,
	users *repository.UserRepository,
	mail *mailer.Client,
	hub *ws.Hub,
	cache *service.CacheService,
) *ProposalHandler {
	return &ProposalHandler{
		proposals:  proposals,
		activities: activities,
		users:      users,
		mail:       mail,
		hub:        hub,
		cache:      cache,
	}
}

// List обрабатывает GET /api/proposals.
func (h *ProposalHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposals, err := h.proposals.ListByUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// Recent обрабатывает GET /api/proposals/recent?limit=4.
func (h *ProposalHandler) Recent(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit := common.ParseIntQuery(c, "limit", 4)
	if limit < 1 || limit > 50 {
		limit = 4
	}

	proposals, err := h.proposals.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// Get обрабатывает GET /api/proposals/:id.
func (h *ProposalHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if proposal.UserID != userID && !isAdmin(c) {
		common.RespondNotFound(c, "предложение не найдено")
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Create обрабатывает POST /api/proposals.
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req models.ProposalCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateProposalCreate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные предложения", "fields": errs})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProposalStatusDraft
	}

	proposal := &models.Proposal{
		UserID:     userID,
		TemplateID: req.TemplateID,
		Title:      req.Title,
		ClientName: req.ClientName,
		Content:    req.Content,
		Status:     status,
		Amount:     req.Amount,
	}

	created, err := h.proposals.Create(c.Request.Context(), proposal)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.recordActivity(userID, "proposal_created",
		fmt.Sprintf("Создано предложение «%s» для клиента %s", created.Title, created.ClientName),
		created.ID)

	if created.Status == models.ProposalStatusSent {
		h.notifySent(userID, created)
	}

	c.JSON(http.StatusCreated, created)
}

// Update обрабатывает PUT /api/proposals/:id.
func (h *ProposalHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	existing, err := h.proposals.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if existing.UserID != userID && !isAdmin(c) {
		common.RespondNotFound(c, "предложение не найдено")
		return
	}

	var req models.ProposalUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateProposalUpdate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные предложения", "fields": errs})
		return
	}

	updated, err := h.proposals.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if req.Status != nil && *req.Status != existing.Status {
		h.recordActivity(userID, "proposal_status_changed",
			fmt.Sprintf("Предложение «%s» переведено из статуса %s в %s", updated.Title, existing.Status, updated.Status),
			updated.ID)

		if updated.Status == models.ProposalStatusSent {
			h.notifySent(userID, updated)
		}
	} else {
		h.recordActivity(userID, "proposal_updated",
			fmt.Sprintf("Обновлено предложение «%s»", updated.Title),
			updated.ID)
	}

	c.JSON(http.StatusOK, updated)
}

// Delete обрабатывает DELETE /api/proposals/:id.
func (h *ProposalHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	existing, err := h.proposals.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if existing.UserID != userID && !isAdmin(c) {
		common.RespondNotFound(c, "предложение не найдено")
		return
	}

	if err := h.proposals.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	h.recordActivity(userID, "proposal_deleted",
		fmt.Sprintf("Удалено предложение «%s»", existing.Title),
		existing.ID)

	c.Status(http.StatusNoContent)
}

// View обрабатывает POST /api/proposals/:id/view. Публичная точка: её
// вызывает страница просмотра предложения клиентом, авторизация не требуется.
func (h *ProposalHandler) View(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.IncrementViews(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.recordActivity(0, "proposal_viewed",
		fmt.Sprintf("Клиент открыл предложение «%s»", proposal.Title),
		proposal.ID)

	c.JSON(http.StatusOK, gin.H{"views": proposal.Views})
}

// Export обрабатывает POST /api/proposals/:id/export. Генерация PDF пока не
// реализована, точка возвращает метаданные экспорта.
func (h *ProposalHandler) Export(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if proposal.UserID != userID && !isAdmin(c) {
		common.RespondNotFound(c, "предложение не найдено")
		return
	}

	h.recordActivity(userID, "proposal_exported",
		fmt.Sprintf("Экспортировано предложение «%s»", proposal.Title),
		proposal.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":    "экспорт подготовлен",
		"proposalId": proposal.ID,
		"format":     "pdf",
		"exportedAt": time.Now(),
	})
}

// recordActivity асинхронно пишет запись в журнал, рассылает событие в
// WebSocket и сбрасывает кэш дашборда. Ошибки побочных эффектов логируются
// и не влияют на ответ клиенту.
func (h *ProposalHandler) recordActivity(userID int64, activityType, description string, entityID int64) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		activity := &models.Activity{
			Type:        activityType,
			Description: description,
			EntityID:    &entityID,
		}
		if userID > 0 {
			activity.UserID = &userID
		}

		if _, err := h.activities.Create(ctx, activity); err != nil {
			logger.WithComponent("proposals").WithError(err).Error("не удалось записать действие в журнал")
			return
		}

		if h.hub != nil {
			if err := h.hub.Broadcast("activity.created", activity); err != nil {
				logger.WithComponent("proposals").WithError(err).Warn("не удалось разослать событие")
			}
		}
		if h.cache != nil {
			h.cache.InvalidateDashboard()
		}
	})
}

// notifySent асинхронно отправляет владельцу письмо об отправке предложения.
func (h *ProposalHandler) notifySent(userID int64, proposal *models.Proposal) {
	if h.mail == nil || !h.mail.Enabled() {
		return
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := h.users.GetByID(ctx, userID)
		if err != nil {
			logger.WithComponent("proposals").WithError(err).Warn("не удалось найти получателя письма")
			return
		}

		msg := mailer.Message{
			To:      user.Email,
			ToName:  user.FullName,
			Subject: fmt.Sprintf("Предложение «%s» отправлено", proposal.Title),
			Text: fmt.Sprintf(
				"Ваше предложение «%s» для клиента %s отправлено. Вы получите уведомление, когда клиент откроет его.",
				proposal.Title, proposal.ClientName,
			),
		}
		if err := h.mail.Send(ctx, msg); err != nil {
			logger.WithComponent("proposals").WithError(err).Warn("не удалось отправить письмо")
		}
	})
}

// isAdmin сообщает, имеет ли текущий пользователь роль администратора.
func isAdmin(c *gin.Context) bool {
	role, err := common.CurrentUserRole(c)
	return err == nil && role == models.RoleAdmin
}
