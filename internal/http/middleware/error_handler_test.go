package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/validation"
)

func setupErrorRouter(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return r
}

func TestErrorHandler_MasksDriverErrors(t *testing.T) {
	driverErr := fmt.Errorf(
		"proposal repository: не удалось создать предложение: %w",
		fmt.Errorf(`pq: insert or update on table "proposals" violates foreign key constraint "proposals_template_id_fkey"`),
	)
	r := setupErrorRouter(driverErr)

	req, _ := http.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.NotContains(t, w.Body.String(), "proposals")
	assert.NotContains(t, w.Body.String(), "foreign key")
	assert.Contains(t, w.Body.String(), "внутренняя ошибка сервера")
}

func TestErrorHandler_MapsNotFoundSentinels(t *testing.T) {
	wrapped := fmt.Errorf("обёртка: %w", repository.ErrProposalNotFound)
	r := setupErrorRouter(wrapped)

	req, _ := http.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "предложение не найдено")
}

func TestErrorHandler_ValidationErrorsListFields(t *testing.T) {
	errs := validation.Errors{{Field: "title", Message: "обязательное поле"}}
	r := setupErrorRouter(errs)

	req, _ := http.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fields")
	assert.Contains(t, w.Body.String(), "title")
}

func TestErrorHandler_AppErrorKeepsStatusAndMessage(t *testing.T) {
	appErr := apperror.New(apperror.CodeAlreadyExists, "email уже зарегистрирован")
	r := setupErrorRouter(appErr)

	req, _ := http.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email уже зарегистрирован")
}
