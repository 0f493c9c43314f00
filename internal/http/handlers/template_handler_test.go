package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTemplateHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{}
	r.GET("/templates/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/templates/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_Create_ValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{}
	r.POST("/templates", handler.Create)

	req, _ := http.NewRequest("POST", "/templates", strings.NewReader(`{"name": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fields")
}

func TestTemplateHandler_CreateSection_InvalidTemplateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{}
	r.POST("/templates/:id/sections", handler.CreateSection)

	body := `{"title": "Введение", "content": "текст", "position": 0}`
	req, _ := http.NewRequest("POST", "/templates/abc/sections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
