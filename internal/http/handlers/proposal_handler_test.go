package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposalpro-backend/internal/http/middleware"
)

func withUser(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func TestProposalHandler_List_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{}
	r.GET("/proposals", handler.List)

	req, _ := http.NewRequest("GET", "/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_Get_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{}
	r.GET("/proposals/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/proposals/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_Get_InvalidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withUser(42, "user"))
	handler := &ProposalHandler{}
	r.GET("/proposals/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/proposals/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Create_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withUser(42, "user"))
	handler := &ProposalHandler{}
	r.POST("/proposals", handler.Create)

	req, _ := http.NewRequest("POST", "/proposals", strings.NewReader("{не json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Create_ValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withUser(42, "user"))
	handler := &ProposalHandler{}
	r.POST("/proposals", handler.Create)

	// Пустой заголовок и недопустимый статус.
	body := `{"title": "", "clientName": "ООО Ромашка", "status": "rejected"}`
	req, _ := http.NewRequest("POST", "/proposals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fields")
}

func TestProposalHandler_View_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{}
	r.POST("/proposals/:id/view", handler.View)

	req, _ := http.NewRequest("POST", "/proposals/-5/view", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Export_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{}
	r.POST("/proposals/:id/export", handler.Export)

	req, _ := http.NewRequest("POST", "/proposals/1/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
