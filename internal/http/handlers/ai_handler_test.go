package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAIHandler_ContentSuggestions_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAIHandler(nil)
	r.POST("/ai/content-suggestions", handler.ContentSuggestions)

	req, _ := http.NewRequest("POST", "/ai/content-suggestions", strings.NewReader(`{"title": "Предложение"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIHandler_ContentSuggestions_InvalidContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAIHandler(nil)
	r.POST("/ai/content-suggestions", handler.ContentSuggestions)

	body := `{"title": "Предложение", "content": "текст", "contentType": "unknown"}`
	req, _ := http.NewRequest("POST", "/ai/content-suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIHandler_ContentSuggestions_ProviderNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAIHandler(nil)
	r.POST("/ai/content-suggestions", handler.ContentSuggestions)

	body := `{"title": "Предложение", "content": "текст", "contentType": "introduction"}`
	req, _ := http.NewRequest("POST", "/ai/content-suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAIHandler_StructureAnalysis_EmptySections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAIHandler(nil)
	r.POST("/ai/structure-analysis", handler.StructureAnalysis)

	body := `{"title": "Предложение", "sections": []}`
	req, _ := http.NewRequest("POST", "/ai/structure-analysis", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIHandler_ProposalDraft_MissingClientName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAIHandler(nil)
	r.POST("/ai/proposal-draft", handler.ProposalDraft)

	req, _ := http.NewRequest("POST", "/ai/proposal-draft", strings.NewReader(`{"title": "Предложение"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
