package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{}
	r.POST("/register", handler.Register)

	req, _ := http.NewRequest("POST", "/register", strings.NewReader("не json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{}
	r.POST("/login", handler.Login)

	req, _ := http.NewRequest("POST", "/login", strings.NewReader(`{"username": "ivan"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{}
	r.POST("/refresh", handler.Refresh)

	req, _ := http.NewRequest("POST", "/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{}
	r.POST("/logout", handler.Logout)

	// Нет ни тела, ни заголовка X-Refresh-Token.
	req, _ := http.NewRequest("POST", "/logout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
