package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposalpro-backend/internal/ai"
	"github.com/ignatzorin/proposalpro-backend/internal/config"
	"github.com/ignatzorin/proposalpro-backend/internal/db"
	httpHandlers "github.com/ignatzorin/proposalpro-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/proposalpro-backend/internal/http/router"
	"github.com/ignatzorin/proposalpro-backend/internal/logger"
	"github.com/ignatzorin/proposalpro-backend/internal/mailer"
	"github.com/ignatzorin/proposalpro-backend/internal/repository"
	"github.com/ignatzorin/proposalpro-backend/internal/service"
	"github.com/ignatzorin/proposalpro-backend/internal/storage"
	"github.com/ignatzorin/proposalpro-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cacheService := service.NewCacheService()
	mailClient := mailer.NewClient(cfg.MailAPIKey, cfg.MailBaseURL, cfg.MailFromEmail, cfg.MailFromName)

	imageStorage, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	var aiClient *ai.Client
	if cfg.AIBaseURL != "" {
		aiClient = ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	activityRepo := repository.NewActivityRepository(dbConn)
	contactRepo := repository.NewContactRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	authService.StartSessionSweeper(ctx, time.Hour)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	templateHandler := httpHandlers.NewTemplateHandler(templateRepo)
	proposalHandler := httpHandlers.NewProposalHandler(proposalRepo, activityRepo, userRepo, mailClient, hub, cacheService)
	activityHandler := httpHandlers.NewActivityHandler(activityRepo, hub, cacheService)
	statsHandler := httpHandlers.NewStatsHandler(statsRepo, cacheService)
	dashboardHandler := httpHandlers.NewDashboardHandler(statsRepo, proposalRepo, activityRepo, cacheService)
	contactHandler := httpHandlers.NewContactHandler(contactRepo, mailClient, cfg.AdminEmail)
	aiHandler := httpHandlers.NewAIHandler(aiClient)
	mediaHandler := httpHandlers.NewMediaHandler(imageStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		templateHandler,
		proposalHandler,
		activityHandler,
		statsHandler,
		dashboardHandler,
		contactHandler,
		aiHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
