package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/crm/backend/internal/application/analytics"
	customerapp "github.com/crm/backend/internal/application/customer"
	identityapp "github.com/crm/backend/internal/application/identity"
	integrationapp "github.com/crm/backend/internal/application/integration"
	marketingapp "github.com/crm/backend/internal/application/marketing"
	notificationapp "github.com/crm/backend/internal/application/notification"
	salesapp "github.com/crm/backend/internal/application/sales"
	supportapp "github.com/crm/backend/internal/application/support"
	workflowapp "github.com/crm/backend/internal/application/workflow"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/integration"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/printing"
	"github.com/crm/backend/internal/infrastructure/scheduler"
	"github.com/crm/backend/internal/infrastructure/storage"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/crm/backend/docs"
)

//	@title			CRM Backend API
//	@version		1.0
//	@description	Multi-tenant CRM: customers, leads, sales pipeline, support, marketing and workflow automation
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/crm/backend
//	@contact.email	support@crm.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	slowQueryThreshold = 200 * time.Millisecond
	shutdownTimeout    = 30 * time.Second
	jobTimeout         = time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Telemetry: traces, metrics, log export and profiling
	providers, err := telemetry.Setup(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		// tee stdout with the OTLP exporter
		if teed, err := logger.New(logCfg, providers.Logs.Core(logger.ParseLevel(cfg.Log.Level))); err == nil {
			log = teed
		} else {
			log.Warn("Failed to attach OTLP log export", zap.Error(err))
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), logger.WithSlowThreshold(slowQueryThreshold))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, slowQueryThreshold, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and dashboard cache when enabled
	var redisClient redis.UniversalClient
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			redisClient = client
			blacklist = auth.NewRedisTokenBlacklistWithClient(client)
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	leadHistoryRepo := persistence.NewGormLeadHistoryRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	followupRepo := persistence.NewGormFollowupRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	ticketResponseRepo := persistence.NewGormTicketResponseRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	templateRepo := persistence.NewGormEmailTemplateRepository(db.DB)
	segmentRepo := persistence.NewGormSegmentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	ruleRepo := persistence.NewGormWorkflowRuleRepository(db.DB)
	actionRepo := persistence.NewGormWorkflowActionRepository(db.DB)
	workflowLogRepo := persistence.NewGormWorkflowLogRepository(db.DB)

	// Bootstrap administrator
	seedCtx, seedCancel := context.WithTimeout(rootCtx, 10*time.Second)
	if _, err := identityapp.EnsureAdmin(seedCtx, userRepo, cfg.Seed, log); err != nil {
		log.Fatal("Failed to ensure admin account", zap.Error(err))
	}
	seedCancel()

	// Outbound integrations
	emailSender := integration.NewSMTPSender(cfg.SMTP, log)
	webhookClient := integration.NewWebhookClient(cfg.Webhook, log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	roleService := identityapp.NewRoleService()

	customerService := customerapp.NewCustomerService(customerRepo, log)
	leadService := customerapp.NewLeadService(leadRepo, leadHistoryRepo, customerRepo, log)
	activityService := customerapp.NewActivityService(activityRepo, customerRepo, leadRepo)
	noteService := customerapp.NewNoteService(noteRepo, customerRepo)

	dealService := salesapp.NewDealService(dealRepo, customerService, log)
	followupService := salesapp.NewFollowupService(followupRepo, dealRepo)
	opportunityService := salesapp.NewOpportunityService(opportunityRepo, customerService)

	ticketService := supportapp.NewTicketService(ticketRepo, ticketResponseRepo, log)

	campaignService := marketingapp.NewCampaignService(campaignRepo, log)
	templateService := marketingapp.NewTemplateService(templateRepo)
	segmentService := marketingapp.NewSegmentService(segmentRepo, customerRepo)

	notificationService := notificationapp.NewService(notificationRepo, emailSender, log)
	integrationService := integrationapp.NewService(emailSender, webhookClient, log)

	dashboardService := analyticsapp.NewDashboardService(
		customerRepo, leadRepo, dealRepo, ticketRepo,
		cache.NewDashboardCache(redisClient, log),
		cfg.Dashboard.CacheTTL,
		log,
	)
	reportService, closeExport := newReportService(cfg, reportRepo, dashboardService, log)
	defer closeExport()

	// Prometheus registry for /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ruleService := workflowapp.NewRuleService(ruleRepo, actionRepo, workflowLogRepo, log)
	workflowEngine := workflowapp.NewEngine(ruleRepo, workflowLogRepo, notificationService, webhookClient, workflowapp.NewMetrics(registry), log)

	// Domain events fan out to the workflow engine
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	for _, svc := range []interface{ SetEventPublisher(shared.EventPublisher) }{
		customerService, leadService, dealService, ticketService, campaignService,
	} {
		svc.SetEventPublisher(eventBus)
	}
	if cfg.Workflow.Enabled {
		eventBus.Subscribe(workflowapp.NewEventHandler(workflowEngine, log))
		log.Info("Workflow engine subscribed to domain events")
	}
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Background jobs
	jobs := scheduler.NewScheduler(log)
	if cfg.Scheduler.Enabled {
		reminder := scheduler.NewFollowupReminderJob(followupRepo, notificationService, cfg.Scheduler.BatchSize, log)
		if err := jobs.Register(reminder, cfg.Scheduler.FollowupReminderInterval, jobTimeout); err != nil {
			log.Fatal("Failed to register follow-up reminder job", zap.Error(err))
		}
		if err := jobs.Start(rootCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := jobs.Stop(ctx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go limiter.Run(rootCtx)
	}

	engine := router.New(router.Options{
		Config:      cfg,
		Logger:      log,
		JWTService:  jwtService,
		Blacklist:   blacklist,
		Meter:       providers.Meter,
		RateLimiter: limiter,
		Database:    db,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}, router.Handlers{
		System:       handler.NewSystemHandler(cfg.App.Name, version),
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService, roleService),
		Customer:     handler.NewCustomerHandler(customerService),
		Lead:         handler.NewLeadHandler(leadService),
		Activity:     handler.NewActivityHandler(activityService, noteService),
		Deal:         handler.NewDealHandler(dealService),
		Followup:     handler.NewFollowupHandler(followupService),
		Opportunity:  handler.NewOpportunityHandler(opportunityService),
		Ticket:       handler.NewTicketHandler(ticketService),
		Campaign:     handler.NewCampaignHandler(campaignService, templateService, segmentService),
		Notification: handler.NewNotificationHandler(notificationService),
		Integration:  handler.NewIntegrationHandler(integrationService),
		Analytics:    handler.NewAnalyticsHandler(dashboardService, reportService),
		Workflow:     handler.NewWorkflowHandler(ruleService, workflowEngine),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// newReportService wires PDF export when object storage is configured. The
// returned func releases the headless browser.
func newReportService(
	cfg *config.Config,
	repo *persistence.GormReportRepository,
	dashboard *analyticsapp.DashboardService,
	log *zap.Logger,
) (*analyticsapp.ReportService, func()) {
	html := printing.NewReportTemplate()
	if !cfg.Storage.Enabled {
		log.Info("Report export disabled: object storage not configured")
		return analyticsapp.NewReportService(repo, dashboard, html, nil, nil, log), func() {}
	}

	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
	if err != nil {
		log.Warn("Report export disabled: object storage misconfigured", zap.Error(err))
		return analyticsapp.NewReportService(repo, dashboard, html, nil, nil, log), func() {}
	}

	pdf := printing.NewChromedpRenderer(cfg.Export, log)
	closeFn := func() {
		if err := pdf.Close(); err != nil {
			log.Warn("Error closing PDF renderer", zap.Error(err))
		}
	}
	return analyticsapp.NewReportService(repo, dashboard, html, pdf, objectStorage, log), closeFn
}
