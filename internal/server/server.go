package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"dupp-api/internal/config"
	custommiddleware "dupp-api/internal/middleware"
	"dupp-api/internal/repository"
	"dupp-api/internal/service"
	"dupp-api/internal/supplier"
	"dupp-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, registry *supplier.Registry) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	importLogRepo := repository.NewImportLogRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	catalogStore := repository.NewCatalogStore(db)

	// Initialize services
	accessService := service.NewAccessService(userRepo, auditRepo, logger)
	importService := service.NewImportService(catalogStore, importLogRepo, registry, logger)
	inventoryService := service.NewInventoryService(inventoryRepo, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, inventoryRepo)

	// Initialize handlers
	adminHandler := transport.NewAdminHandler(importService, inventoryService, analyticsService, accessService, registry, logger)

	// Admin route middleware: JWT first, then per-admin rate limiting
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		KeyPrefix:         "admin_rate_limit",
	}, logger)

	adminHandler.RegisterRoutes(router, authMiddleware, rateLimit)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
