package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/ai"
	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/logger"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
)

// AIHandler предоставляет HTTP слой AI помощника предложений.
// Вход валидируется до обращения к провайдеру, ошибки провайдера
// возвращаются с кодом 502.
type AIHandler struct {
	client *ai.Client
}

// NewAIHandler создаёт хэндлер.
func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

// ContentSuggestions обрабатывает POST /api/ai/content-suggestions.
func (h *AIHandler) ContentSuggestions(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		ContentType string `json:"contentType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		common.RespondBadRequest(c, "title и content обязательны")
		return
	}
	if req.ContentType != "" {
		if _, ok := models.ValidContentTypes[req.ContentType]; !ok {
			common.RespondBadRequest(c, "недопустимый тип контента")
			return
		}
	}

	if !h.ensureAvailable(c) {
		return
	}

	result, err := h.client.SuggestContent(c.Request.Context(), req.Title, req.Content, req.ContentType)
	if err != nil {
		h.respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StructureAnalysis обрабатывает POST /api/ai/structure-analysis.
func (h *AIHandler) StructureAnalysis(c *gin.Context) {
	var req struct {
		Title    string   `json:"title"`
		Sections []string `json:"sections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		common.RespondBadRequest(c, "title обязателен")
		return
	}
	if len(req.Sections) == 0 {
		common.RespondBadRequest(c, "sections не могут быть пустыми")
		return
	}

	if !h.ensureAvailable(c) {
		return
	}

	result, err := h.client.AnalyzeStructure(c.Request.Context(), req.Title, req.Sections)
	if err != nil {
		h.respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProposalDraft обрабатывает POST /api/ai/proposal-draft.
func (h *AIHandler) ProposalDraft(c *gin.Context) {
	var req struct {
		Title      string `json:"title"`
		ClientName string `json:"clientName"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ClientName) == "" {
		common.RespondBadRequest(c, "title и clientName обязательны")
		return
	}

	if !h.ensureAvailable(c) {
		return
	}

	result, err := h.client.GenerateDraft(c.Request.Context(), req.Title, req.ClientName, req.Notes)
	if err != nil {
		h.respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ensureAvailable проверяет, настроен ли AI провайдер.
func (h *AIHandler) ensureAvailable(c *gin.Context) bool {
	if h.client == nil || !h.client.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI помощник не настроен"})
		return false
	}
	return true
}

// respondProviderError возвращает ошибку провайдера с кодом 502.
func (h *AIHandler) respondProviderError(c *gin.Context, err error) {
	logger.WithComponent("ai").WithError(err).Error("ошибка AI провайдера")
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   "AI провайдер недоступен",
		"details": err.Error(),
	})
}
