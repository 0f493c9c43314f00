package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposalpro-backend/internal/logger"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		// Ошибки валидации возвращают список нарушений по полям.
		var validationErrs validation.Errors
		if errors.As(err.Err, &validationErrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "некорректные данные запроса",
				"fields": validationErrs,
			})
			return
		}

		// Ошибки приложения несут свой статус и сообщение.
		var appErr *apperror.AppError
		if errors.As(err.Err, &appErr) {
			body := gin.H{"error": appErr.Message}
			if validationErrs := extractFieldErrors(appErr); validationErrs != nil {
				body["fields"] = validationErrs
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		// Всё остальное — внутренние ошибки хранилища и драйвера. Их текст
		// содержит имена таблиц и детали запросов, клиенту уходит только
		// общий ответ: подробности уже записаны в лог выше.
		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		switch {
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode, message = http.StatusNotFound, "пользователь не найден"
		case errors.Is(err.Err, repository.ErrSessionNotFound):
			statusCode, message = http.StatusNotFound, "сессия не найдена"
		case errors.Is(err.Err, repository.ErrProposalNotFound):
			statusCode, message = http.StatusNotFound, "предложение не найдено"
		case errors.Is(err.Err, repository.ErrTemplateNotFound):
			statusCode, message = http.StatusNotFound, "шаблон не найден"
		case errors.Is(err.Err, repository.ErrSectionNotFound):
			statusCode, message = http.StatusNotFound, "секция шаблона не найдена"
		case errors.Is(err.Err, repository.ErrContactMessageNotFound):
			statusCode, message = http.StatusNotFound, "сообщение не найдено"
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}

// extractFieldErrors достаёт нарушения по полям из причины AppError.
func extractFieldErrors(appErr *apperror.AppError) validation.Errors {
	var validationErrs validation.Errors
	if errors.As(appErr.Cause, &validationErrs) {
		return validationErrs
	}
	return nil
}

