package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers/common"
	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Login обрабатывает POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "имя пользователя и пароль обязательны")
		return
	}

	if strings.TrimSpace(req.Password) == "" {
		common.RespondBadRequest(c, "пароль обязателен")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Refresh обрабатывает POST /api/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "refresh_token обязателен")
		return
	}

	tokenPair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokenPair})
}

// Logout обрабатывает POST /api/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		req.RefreshToken = c.GetHeader("X-Refresh-Token")
		if req.RefreshToken == "" {
			common.RespondBadRequest(c, "refresh_token обязателен")
			return
		}
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "выход выполнен"})
}

// CurrentUser обрабатывает GET /api/user.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// respondAuthError переводит ошибки сервиса аутентификации в HTTP ответ.
func respondAuthError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	var appErr *apperror.AppError

	switch {
	case errors.As(err, &appErr) && errors.As(appErr.Cause, &validationErrs):
		c.JSON(appErr.HTTPStatus, gin.H{
			"error":  appErr.Message,
			"fields": validationErrs,
		})
	case errors.As(err, &appErr):
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
	}
}
