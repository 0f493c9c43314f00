package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
)

func newAuthTestRouter(tokens *service.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(tokens), func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := service.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/private", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperror.ErrUnauthorized.Message)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	tokens := service.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour)
	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour)
	pair, _, _, err := tokens.GeneratePair(&models.User{ID: 7, Username: "ivan", Role: models.RoleUser})
	assert.NoError(t, err)

	r := newAuthTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "7")
}
