package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

// TemplateHandler предоставляет HTTP слой для шаблонов предложений.
// Чтение доступно всем, изменение требует роли администратора.
type TemplateHandler struct {
	templates *repository.TemplateRepository
}

// NewTemplateHandler создаёт хэндлер.
func NewTemplateHandler(templates *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List обрабатывает GET /api/templates?category=...
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Popular обрабатывает GET /api/templates/popular.
func (h *TemplateHandler) Popular(c *gin.Context) {
	templates, err := h.templates.ListPopular(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Get обрабатывает GET /api/templates/:id. Шаблон возвращается вместе с
// секциями в порядке позиций.
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	template, err := h.templates.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// Create обрабатывает POST /api/templates (только администратор).
func (h *TemplateHandler) Create(c *gin.Context) {
	var req models.TemplateCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateTemplateCreate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные шаблона", "fields": errs})
		return
	}

	template := &models.Template{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsPopular:   req.IsPopular,
	}

	created, err := h.templates.Create(c.Request.Context(), template)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update обрабатывает PUT /api/templates/:id (только администратор).
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req models.TemplateUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateTemplateUpdate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные шаблона", "fields": errs})
		return
	}

	updated, err := h.templates.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete обрабатывает DELETE /api/templates/:id (только администратор).
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSections обрабатывает GET /api/templates/:id/sections.
func (h *TemplateHandler) ListSections(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	// Убеждаемся, что шаблон существует, чтобы для неизвестного id был 404.
	if _, err := h.templates.GetByID(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	sections, err := h.templates.ListSections(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateSection обрабатывает POST /api/templates/:id/sections (только администратор).
func (h *TemplateHandler) CreateSection(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req models.SectionCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateSectionCreate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные секции", "fields": errs})
		return
	}

	section := &models.TemplateSection{
		TemplateID: id,
		Title:      req.Title,
		Content:    req.Content,
		Position:   req.Position,
	}

	created, err := h.templates.CreateSection(c.Request.Context(), section)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateSection обрабатывает PUT /api/sections/:id (только администратор).
func (h *TemplateHandler) UpdateSection(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req models.SectionUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	if errs := validation.ValidateSectionUpdate(req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные секции", "fields": errs})
		return
	}

	updated, err := h.templates.UpdateSection(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSection обрабатывает DELETE /api/sections/:id (только администратор).
func (h *TemplateHandler) DeleteSection(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.templates.DeleteSection(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
