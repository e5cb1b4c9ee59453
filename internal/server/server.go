package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/caloriemate/backend/config"
	"github.com/caloriemate/backend/internal/api"
	"github.com/caloriemate/backend/internal/database"
	"github.com/caloriemate/backend/internal/middleware"
	"github.com/caloriemate/backend/internal/router"
	"github.com/caloriemate/backend/internal/service"
)

// Server wires the application together and owns the HTTP listener.
type Server struct {
	http *http.Server
}

// New builds the full application from configuration: database, Redis,
// oracle client, services, handlers and routes. Redis being unreachable
// is not fatal; the API runs without rate limiting.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, err
	}

	var oracleLimiter, logWriteLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		oracleLimiter = middleware.NewOracleRateLimiter(redisClient)
		logWriteLimiter = middleware.NewLogWriteRateLimiter(redisClient)
	}

	var oracle service.CalorieOracle
	if cfg.GeminiAPIKey != "" {
		oracle = service.NewLLMServiceWithConfig(cfg.GeminiAPIKey, cfg.GeminiAPIURL)
	} else {
		llm, err := service.NewLLMService()
		if err != nil {
			return nil, err
		}
		oracle = llm
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	dailyLogService := service.NewDailyLogService(db, oracle, nil)

	engine := router.SetupRouter(router.Options{
		AuthHandler:     api.NewAuthHandler(authService),
		DailyLogHandler: api.NewDailyLogHandler(dailyLogService),
		AuthService:     authService,
		OracleLimiter:   oracleLimiter,
		LogWriteLimiter: logWriteLimiter,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	return &Server{
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
	}, nil
}

// Start runs the HTTP listener until it is shut down.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
