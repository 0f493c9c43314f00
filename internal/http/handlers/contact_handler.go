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
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

// ContactHandler предоставляет HTTP слой для формы обратной связи.
// Отправка публичная, чтение и управление доступно администратору.
type ContactHandler struct {
	messages   *repository.ContactRepository
	mail       *mailer.Client
	adminEmail string
}

// NewContactHandler создаёт хэндлер.
func NewContactHandler(messages *repository.ContactRepository, mail *mailer.Client, adminEmail string) *ContactHandler {
	return &ContactHandler{messages: messages, mail: mail, adminEmail: adminEmail}
}

// Create обрабатывает POST /api/contact.
func (h *ContactHandler) Create(c *gin.Context) {
	var req models.ContactMessageCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateContactMessageCreate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные формы", "fields": errs})
		return
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	created, err := h.messages.Create(c.Request.Context(), message)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.forwardToAdmin(created)

	c.JSON(http.StatusCreated, gin.H{"message": "сообщение отправлено", "id": created.ID})
}

// List обрабатывает GET /api/admin/messages.
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	messages, err := h.messages.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Get обрабатывает GET /api/admin/messages/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	message, err := h.messages.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// MarkRead обрабатывает PUT /api/admin/messages/:id/read.
func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	message, err := h.messages.MarkRead(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// Delete обрабатывает DELETE /api/admin/messages/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// forwardToAdmin асинхронно пересылает сообщение на почту администратора.
func (h *ContactHandler) forwardToAdmin(message *models.ContactMessage) {
	if h.mail == nil || !h.mail.Enabled() || h.adminEmail == "" {
		return
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msg := mailer.Message{
			To:      h.adminEmail,
			Subject: fmt.Sprintf("Обратная связь: %s", message.Subject),
			Text: fmt.Sprintf(
				"От: %s <%s>\n\n%s",
				message.Name, message.Email, message.Message,
			),
		}
		if err := h.mail.Send(ctx, msg); err != nil {
			logger.WithComponent("contact").WithError(err).Warn("не удалось переслать сообщение администратору")
		}
	})
}
