package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"council-backend/internal/consultations"
	"council-backend/internal/council"
	"council-backend/internal/domains"
	"council-backend/internal/services/health"
	"council-backend/internal/shared/config"
	"council-backend/internal/shared/metrics"
	"council-backend/internal/shared/server/middleware"
	"council-backend/internal/shared/server/respond"
	"council-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"CONSULT": {Rate: 2, Burst: 5},
				"READ":    {Rate: 5, Burst: 10},
				"DEFAULT": {Rate: 10, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				switch {
				case c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/consultations"):
					return "CONSULT"
				case c.Request.Method == http.MethodGet && strings.Contains(c.FullPath(), "/consultations"):
					return "READ"
				default:
					return "DEFAULT"
				}
			},
		}),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	settings := council.DefaultSettings()
	if cfg.CouncilConfigPath != "" {
		loaded, err := council.LoadSettings(cfg.CouncilConfigPath)
		if err != nil {
			log.Printf("failed to load council config %s, using defaults: %v", cfg.CouncilConfigPath, err)
		} else {
			settings = loaded
		}
	}
	if cfg.EvaluatorTimeout > 0 {
		settings.EvaluatorTimeout = cfg.EvaluatorTimeout
	}
	if cfg.MaxOptions > 0 {
		settings.MaxOptions = cfg.MaxOptions
	}

	registry := council.NewRegistry()
	if err := domains.RegisterAll(registry, settings); err != nil {
		log.Fatalf("failed to register council domains: %v", err)
	}
	cncl := council.New(registry, settings)

	var consultRepo consultations.Repo
	if sqlDB != nil {
		consultRepo = &consultations.PGRepo{DB: sqlDB}
	} else {
		consultRepo = consultations.NewMemoryRepo()
	}
	consultSvc := &consultations.Service{Repo: consultRepo, Council: cncl}
	consultHandler := consultations.NewHandler(consultSvc)

	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	consultHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
