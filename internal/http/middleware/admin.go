package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/models"
	"github.com/ignatzorin/proposalpro-backend/internal/pkg/apperror"
)

// RequireAdmin пропускает только пользователей с ролью администратора.
// Должен стоять после AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(apperror.ErrAdminOnly.HTTPStatus, gin.H{"error": apperror.ErrAdminOnly.Message})
			return
		}
		c.Next()
	}
}
