package router

import (
	"context"
	"net/http"
	"time"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the infrastructure the HTTP engine depends on
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	// Meter is optional; HTTP metrics are skipped without it
	Meter *telemetry.MeterProvider
	// RateLimiter is optional; requests are not limited without it
	RateLimiter *middleware.RateLimiter
	// Database backs /health; nil reports healthy
	Database Pinger
	// Metrics serves /metrics when set, e.g. promhttp.HandlerFor(registry, ...)
	Metrics http.Handler
}

// New builds the gin engine: global middleware, operational endpoints and the
// versioned API with every domain group mounted.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(serviceName(cfg)))
	}
	engine.Use(middleware.HTTPMetrics(opts.Meter, log))
	engine.Use(middleware.SecureHeaders(cfg.App.Env == "production"))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.GET("/health", HealthHandler(opts.Database))
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	jwtConfig := middleware.DefaultJWTConfig(opts.JWTService, opts.Blacklist)
	jwtConfig.Logger = log

	docsAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: opts.JWTService,
		Blacklist:  opts.Blacklist,
		Logger:     log,
	})
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, docsAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(jwtConfig), middleware.ResolveTenant())
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}
	if cfg.Telemetry.Enabled {
		r.Use(middleware.SpanEnricher())
	}
	if cfg.Telemetry.ProfilingEnabled {
		r.Use(middleware.Profiling())
	}
	for _, group := range DomainGroups(h) {
		r.Register(group)
	}
	r.Setup()

	return engine
}

func serviceName(cfg *config.Config) string {
	if cfg.Telemetry.ServiceName != "" {
		return cfg.Telemetry.ServiceName
	}
	return cfg.App.Name
}

// HealthHandler reports the database state
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"time":     time.Now().Format(time.RFC3339),
					"database": "error",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
