package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tourbook/backend/docs"
	analyticsapp "github.com/tourbook/backend/internal/application/analytics"
	blogapp "github.com/tourbook/backend/internal/application/blog"
	bookingapp "github.com/tourbook/backend/internal/application/booking"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
	identityapp "github.com/tourbook/backend/internal/application/identity"
	mediaapp "github.com/tourbook/backend/internal/application/media"
	"github.com/tourbook/backend/internal/application/notification"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"github.com/tourbook/backend/internal/infrastructure/cache"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"github.com/tourbook/backend/internal/infrastructure/event"
	"github.com/tourbook/backend/internal/infrastructure/logger"
	"github.com/tourbook/backend/internal/infrastructure/mail"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
	"github.com/tourbook/backend/internal/infrastructure/printing"
	"github.com/tourbook/backend/internal/infrastructure/scheduler"
	"github.com/tourbook/backend/internal/infrastructure/storage"
	"github.com/tourbook/backend/internal/infrastructure/telemetry"
	"github.com/tourbook/backend/internal/interfaces/http/handler"
	"github.com/tourbook/backend/internal/interfaces/http/middleware"
	"github.com/tourbook/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Tourbook API
//	@version		1.0
//	@description	Tour booking marketplace backend: catalogue, bookings, blog and admin dashboard.

//	@contact.name	Tourbook Engineering
//	@contact.url	https://github.com/tourbook/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog := logger.New(logCfg)

	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// OTLP logs are teed next to the console output
	logsCfg := otelCfg
	logsCfg.Enabled = otelCfg.Enabled && cfg.Telemetry.LogsEnabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := bootLog
	if logProvider.IsEnabled() {
		log = logger.New(logCfg, logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Tourbook backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, otelCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	metricsCfg := otelCfg
	metricsCfg.Enabled = otelCfg.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, metricsCfg, 0, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      cfg.Log.Level,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbInstrumentation, err := telemetry.NewDBInstrumentation(meter, telemetry.DBConfig{
		Tracing:            tracerProvider.IsEnabled() && cfg.Telemetry.DBTraceEnabled,
		DBName:             cfg.Database.DBName,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to create database instrumentation", zap.Error(err))
	}
	if err := db.DB.Use(dbInstrumentation); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs the response cache, token revocation and rate limits
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	cacheOpts := []cache.FactoryOption{cache.WithLogger(log)}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		cacheOpts = append(cacheOpts, cache.WithRedis(redisClient))
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	tagCache := cache.NewFactory(cfg.Cache, cacheOpts...).Create()
	defer func() {
		_ = tagCache.Close()
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	teamRepo := persistence.NewGormTeamMemberRepository(db.DB)
	tourRepo := persistence.NewGormTourRepository(db.DB)
	destinationRepo := persistence.NewGormDestinationRepository(db.DB)
	attractionRepo := persistence.NewGormAttractionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, jwtService, blacklist, log)
	teamService := identityapp.NewTeamService(teamRepo, log)
	teamService.SetCacheInvalidator(tagCache)

	tourService := catalogapp.NewTourService(tourRepo, destinationRepo, categoryRepo, bookingRepo, log)
	destinationService := catalogapp.NewDestinationService(destinationRepo, tourRepo, attractionRepo, log)
	destinationService.SetCacheInvalidator(tagCache)
	attractionService := catalogapp.NewAttractionService(attractionRepo, destinationRepo, log)
	attractionService.SetCacheInvalidator(tagCache)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	categoryService.SetCacheInvalidator(tagCache)

	postService := blogapp.NewPostService(postRepo, userRepo, log)
	bookingService := bookingapp.NewBookingService(bookingRepo, tourRepo, userRepo, persistence.NewGormTransactionScope(db.DB), log)

	dashboardService := analyticsapp.NewDashboardService(reportRepo, bookingRepo, log)
	dashboardService.SetCache(tagCache, cfg.Cache.DashboardTTL)

	objectStorage, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	mediaService := mediaapp.NewMediaService(objectStorage, cfg.Storage.PresignExpiry, log)

	if cfg.Printing.Enabled {
		pdf := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeRemoteURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() {
			_ = pdf.Close()
		}()
		vouchers, err := printing.NewVoucherRenderer(pdf, cfg.App.Name, log)
		if err != nil {
			log.Fatal("Failed to initialize voucher renderer", zap.Error(err))
		}
		bookingService.SetVoucherRenderer(vouchers)
		log.Info("PDF vouchers enabled", zap.Bool("remote_chrome", cfg.Printing.ChromeRemoteURL != ""))
	}

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log, event.WithWorkers(cfg.Event.Workers, cfg.Event.QueueSize))

	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	templates, err := mail.NewTemplates(cfg.App.Name)
	if err != nil {
		log.Fatal("Failed to parse email templates", zap.Error(err))
	}
	emailHandler := notification.NewBookingEmailHandler(mailer, templates, cfg.Mail.AdminEmail, log)
	revalidationHandler := notification.NewCacheRevalidationHandler(tagCache, log)
	eventBus.Subscribe(emailHandler)
	eventBus.Subscribe(revalidationHandler)

	bookingMetrics, err := telemetry.NewBookingMetrics(meter, reportRepo, log)
	if err != nil {
		log.Fatal("Failed to register booking metrics", zap.Error(err))
	}
	defer func() {
		_ = bookingMetrics.Close()
	}()
	eventBus.Subscribe(bookingMetrics)

	if cfg.Event.NATSEnabled {
		forwarder, err := event.NewNATSForwarder(cfg.Event.NATSURL, cfg.Event.NATSSubject, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer forwarder.Close()
		eventBus.Subscribe(forwarder)
		log.Info("Forwarding domain events to NATS", zap.String("subject", cfg.Event.NATSSubject))
	}

	tourService.SetEventPublisher(eventBus)
	postService.SetEventPublisher(eventBus)
	bookingService.SetEventPublisher(eventBus)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Background jobs
	if cfg.Scheduler.Enabled {
		schedCfg := scheduler.DefaultConfig()
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		schedCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedCfg.RetryDelay = cfg.Scheduler.RetryDelay
		jobs, err := scheduler.NewScheduler(schedCfg, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		jobs.Register(scheduler.NewCompleteBookingsTask(bookingService, cfg.Scheduler.CompletionBatchSize, log))
		jobs.Register(scheduler.NewWarmDashboardTask(dashboardService))
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewPeriodicTrigger(jobs, log,
			scheduler.Schedule{Task: scheduler.TaskCompleteBookings, Interval: cfg.Scheduler.CompletionInterval, RunOnStart: true},
			scheduler.Schedule{Task: scheduler.TaskWarmDashboard, Interval: cfg.Scheduler.DashboardWarmupInterval},
		)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start job trigger", zap.Error(err))
		}
		defer func() {
			_ = trigger.Stop(context.Background())
		}()
		log.Info("Scheduler started",
			zap.Duration("completion_interval", cfg.Scheduler.CompletionInterval),
			zap.Duration("dashboard_warmup_interval", cfg.Scheduler.DashboardWarmupInterval),
		)
	}

	// HTTP handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Tour:        handler.NewTourHandler(tourService),
		Destination: handler.NewDestinationHandler(destinationService),
		Attraction:  handler.NewAttractionHandler(attractionService),
		Category:    handler.NewCategoryHandler(categoryService),
		Blog:        handler.NewBlogHandler(postService),
		Team:        handler.NewTeamHandler(teamService),
		User:        handler.NewUserHandler(userService),
		Booking:     handler.NewBookingHandler(bookingService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Media:       handler.NewMediaHandler(mediaService),
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Logger - Log requests with a request-scoped logger
	// 3. Recovery - Catch panics
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing, metrics and profiling labels
	// 8. RateLimit - Apply the global rate limit (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureHeaders(cfg.IsProduction()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   []string{"/health"},
	})...)
	engine.Use(middleware.HTTPMetrics(meter, log))
	engine.Use(middleware.Profiling(middleware.ProfilingConfig{
		Enabled:          profiler.IsEnabled(),
		SkipPathPrefixes: []string{"/health", "/swagger"},
	}))

	if cfg.HTTP.RateLimitEnabled {
		limiter := newLimiter(ctx, redisClient, "global", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter, "global", middleware.ClientIPKey, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// System routes (outside API versioning)
	engine.GET("/health", systemHandler.Health)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Checker:    authService,
			Logger:     log,
		}),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := newLimiter(ctx, redisClient, "auth", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.AuthRateLimit = middleware.RateLimit(authLimiter, "auth", middleware.ClientIPKey, log)
	}
	if cfg.Cache.Enabled {
		guards.Cache = func(tags middleware.TagsFunc) gin.HandlerFunc {
			return middleware.CacheResponse(tagCache, cfg.Cache.DefaultTTL, tags, log)
		}
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.DomainGroups(handlers, guards) {
		r.Register(group)
		log.Debug("Registered route group", zap.String("group", group.Name()), zap.Int("routes", len(group.Routes())))
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing traces", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing metrics", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Warn("Error flushing logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage, or a stub that hands out local URLs
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (mediaapp.ObjectStorage, error) {
	if cfg.Storage.Driver != "s3" {
		log.Warn("Using stub object storage, uploads are not persisted")
		return storage.NewStubObjectStorage(cfg.Storage.PublicURL), nil
	}
	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("S3 object storage ready", zap.String("bucket", s3Storage.Bucket()))
	return s3Storage, nil
}

// newLimiter shares limits across instances through Redis when available
func newLimiter(ctx context.Context, client *redis.Client, scope string, requests int, window time.Duration) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisLimiter(client, "tourbook:ratelimit:"+scope+":", requests, window)
	}
	local := middleware.NewLocalLimiter(requests, window)
	local.StartJanitor(ctx, window)
	return local
}
