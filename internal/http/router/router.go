package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposalpro-backend/internal/config"
	"github.com/ignatzorin/proposalpro-backend/internal/http/handlers"
	"github.com/ignatzorin/proposalpro-backend/internal/http/middleware"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	templateHandler *handlers.TemplateHandler,
	proposalHandler *handlers.ProposalHandler,
	activityHandler *handlers.ActivityHandler,
	statsHandler *handlers.StatsHandler,
	dashboardHandler *handlers.DashboardHandler,
	contactHandler *handlers.ContactHandler,
	aiHandler *handlers.AIHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Аутентификация: публичные точки под жёстким rate limit.
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/register", authRateLimit, authHandler.Register)
	api.POST("/login", authRateLimit, authHandler.Login)
	api.POST("/refresh", authRateLimit, authHandler.Refresh)
	api.POST("/logout", authHandler.Logout)

	// Публичные маршруты
	api.GET("/templates", templateHandler.List)
	api.GET("/templates/popular", templateHandler.Popular)
	api.GET("/templates/:id", middleware.IDValidator("id"), templateHandler.Get)
	api.GET("/templates/:id/sections", middleware.IDValidator("id"), templateHandler.ListSections)
	api.POST("/proposals/:id/view", middleware.IDValidator("id"), proposalHandler.View)
	api.POST("/contact", authRateLimit, contactHandler.Create)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/user", authHandler.CurrentUser)
		protected.GET("/dashboard", dashboardHandler.Get)
		protected.POST("/dashboard/cache/invalidate", dashboardHandler.InvalidateCache)

		protected.GET("/stats", statsHandler.Get)
		protected.GET("/activities", activityHandler.List)
		protected.GET("/activities/recent", activityHandler.Recent)

		protected.GET("/proposals", proposalHandler.List)
		protected.GET("/proposals/recent", proposalHandler.Recent)
		protected.GET("/proposals/:id", middleware.IDValidator("id"), proposalHandler.Get)
		protected.POST("/proposals", proposalHandler.Create)
		protected.PUT("/proposals/:id", middleware.IDValidator("id"), proposalHandler.Update)
		protected.DELETE("/proposals/:id", middleware.IDValidator("id"), proposalHandler.Delete)
		protected.POST("/proposals/:id/export", middleware.IDValidator("id"), proposalHandler.Export)

		protected.POST("/activities", activityHandler.Create)

		protected.POST("/ai/content-suggestions", aiHandler.ContentSuggestions)
		protected.POST("/ai/structure-analysis", aiHandler.StructureAnalysis)
		protected.POST("/ai/proposal-draft", aiHandler.ProposalDraft)
	}

	// Маршруты администратора
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.POST("/templates", templateHandler.Create)
		admin.PUT("/templates/:id", middleware.IDValidator("id"), templateHandler.Update)
		admin.DELETE("/templates/:id", middleware.IDValidator("id"), templateHandler.Delete)
		admin.POST("/templates/:id/sections", middleware.IDValidator("id"), templateHandler.CreateSection)
		admin.PUT("/sections/:id", middleware.IDValidator("id"), templateHandler.UpdateSection)
		admin.DELETE("/sections/:id", middleware.IDValidator("id"), templateHandler.DeleteSection)

		admin.GET("/admin/messages", contactHandler.List)
		admin.GET("/admin/messages/:id", middleware.IDValidator("id"), contactHandler.Get)
		admin.PUT("/admin/messages/:id/read", middleware.IDValidator("id"), contactHandler.MarkRead)
		admin.DELETE("/admin/messages/:id", middleware.IDValidator("id"), contactHandler.Delete)

		admin.POST("/media/images", mediaHandler.UploadImage)
		admin.DELETE("/media/images/:name", mediaHandler.DeleteImage)
	}

	return r
}
