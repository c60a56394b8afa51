package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/gymratia/gymratia-api/config"
	"github.com/gymratia/gymratia-api/internal/cache"
	"github.com/gymratia/gymratia-api/internal/database/postgres"
	"github.com/gymratia/gymratia-api/internal/handlers"
	"github.com/gymratia/gymratia-api/internal/middleware"
	"github.com/gymratia/gymratia-api/internal/services"
	"github.com/gymratia/gymratia-api/pkg/db"
	"github.com/gymratia/gymratia-api/pkg/httpclient"
	"github.com/gymratia/gymratia-api/pkg/jwt"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"github.com/gymratia/gymratia-api/pkg/profiling"
	"github.com/gymratia/gymratia-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	jsonBodyLimit  = 64 * 1024
	loginBodyLimit = 4 * 1024
)

type routeHandlers struct {
	health     *handlers.HealthHandler
	moderation *handlers.ModerationHandler
	portal     *handlers.PortalHandler
	social     *handlers.SocialHandler
	trainer    *handlers.TrainerHandler
	messages   *handlers.MessagesHandler
}

type rateLimiters struct {
	public *middleware.RateLimiter
	portal *middleware.RateLimiter
	review *middleware.RateLimiter
}

// registerPortalRoutes registers the admin portal. Everything but login/logout needs a session.
func registerPortalRoutes(v1 *gin.RouterGroup, h routeHandlers, limiters rateLimiters, sessions *middleware.PortalSessionStore) {
	portal := v1.Group("/portal")
	portal.POST("/login", limiters.review.Middleware(), middleware.BodySizeLimitMiddleware(loginBodyLimit), h.portal.Login)
	portal.POST("/logout", h.portal.Logout)

	admin := portal.Group("")
	admin.Use(limiters.portal.Middleware(), sessions.Middleware())
	admin.GET("/session", h.portal.Session)
	admin.GET("/overview", h.portal.Overview)
	admin.GET("/trainers", h.portal.ListTrainers)
	admin.GET("/users", h.portal.ListUsers)
	admin.GET("/requests", h.portal.ListRequests)
	admin.POST("/requests/:id", middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.portal.ProcessRequest)
}

// registerUserRoutes registers the bearer-authenticated app routes
func registerUserRoutes(v1 *gin.RouterGroup, h routeHandlers, limiters rateLimiters, identities middleware.IdentityResolver) {
	social := v1.Group("/social")
	social.Use(limiters.public.Middleware())
	social.POST("/views", middleware.OptionalBearerAuthMiddleware(identities), h.social.RecordView)
	social.GET("/views", h.social.CountViews)

	trainer := v1.Group("/trainer")
	trainer.Use(limiters.public.Middleware(), middleware.BearerAuthMiddleware(identities))
	trainer.GET("/students", h.trainer.Students)
	trainer.GET("/stats", h.trainer.Stats)
	trainer.POST("/request-public", h.trainer.RequestPublic)
	trainer.POST("/request-access", middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.trainer.RequestAccess)

	messages := v1.Group("/messages")
	messages.Use(limiters.public.Middleware(), middleware.BearerAuthMiddleware(identities))
	messages.GET("", h.messages.List)
	messages.PUT("/:id/read", h.messages.MarkRead)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Gymratia API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
		Insecure:          cfg.Observability.ExporterInsecure,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(profiling.Config{
		Enabled:               cfg.Profiling.Enabled,
		Endpoint:              cfg.Profiling.Endpoint,
		AppName:               cfg.Profiling.AppName,
		SampleTypes:           cfg.Profiling.SampleTypes,
		UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
	}, profiling.Labels{
		ServiceName: cfg.Observability.ServiceName,
		Namespace:   cfg.Observability.ServiceNamespace,
		Version:     cfg.Observability.ServiceVersion,
		InstanceID:  cfg.Observability.ServiceInstanceID,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	poolCfg := db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		CACertPath: cfg.Database.CACertPath,
	}

	if cfg.Database.MigrateOnStart {
		if err := db.RunMigrations(poolCfg, "file://migrations"); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	pool, err := db.NewPool(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer db.Close(pool)

	store := postgres.NewClient(pool)
	httpClient := httpclient.NewStandardClient()
	tokenManager := jwt.NewTokenManager(cfg.Auth.BearerJWTSecret, cfg.Auth.BearerJWTIssuer, cfg.Auth.BearerTokenTTLHrs)

	sessionStore, err := middleware.NewPortalSessionStore(
		cfg.Auth.SessionSecret,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
		cfg.Auth.CookieDomain,
		cfg.Auth.CookieSecure,
	)
	if err != nil {
		logger.Fatal("Failed to initialize portal sessions", zap.Error(err))
	}
	if !cfg.Auth.Admin.Configured() {
		logger.Warn("Admin portal login disabled: ADMIN_EMAIL and ADMIN_PASSWORD or ADMIN_PASSWORD_HASH not set")
	}

	overviewCache := cache.NewOverviewCache(store, time.Duration(cfg.Cache.OverviewTTLSeconds)*time.Second)

	// Services
	notificationService := services.NewNotificationService(store)
	moderationService := services.NewModerationService(store, notificationService, cfg, httpClient)
	accessRequestService := services.NewAccessRequestService(store, store, store, notificationService)
	directoryService := services.NewDirectoryService(store, store, store)
	engagementService := services.NewEngagementService(store)
	portalAuthService := services.NewPortalAuthService(cfg.Auth.Admin)

	h := routeHandlers{
		health:     handlers.NewHealthHandler(store),
		moderation: handlers.NewModerationHandler(moderationService),
		portal:     handlers.NewPortalHandler(portalAuthService, sessionStore, overviewCache, directoryService, accessRequestService),
		social:     handlers.NewSocialHandler(engagementService),
		trainer:    handlers.NewTrainerHandler(directoryService, moderationService, accessRequestService),
		messages:   handlers.NewMessagesHandler(notificationService),
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true, // portal session cookie
		MaxAge:           12 * time.Hour,
	}))

	limiterCtx, stopLimiters := context.WithCancel(context.Background())
	defer stopLimiters()

	limiters := rateLimiters{
		public: middleware.NewRateLimiter(limiterCtx, rate.Limit(cfg.RateLimit.PublicRPS), cfg.RateLimit.PublicBurst),
		portal: middleware.NewRateLimiter(limiterCtx, rate.Limit(cfg.RateLimit.PortalRPS), cfg.RateLimit.PortalBurst),
		review: middleware.NewRateLimiter(limiterCtx, rate.Limit(cfg.RateLimit.ReviewRPS), cfg.RateLimit.ReviewBurst),
	}

	api := router.Group("/api")
	api.GET("/healthcheck", limiters.public.Middleware(), h.health.Healthcheck)
	api.GET("/metrics", limiters.public.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.POST("/admin/review-trainer", limiters.review.Middleware(), middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.moderation.ReviewTrainer)
	registerPortalRoutes(v1, h, limiters, sessionStore)
	registerUserRoutes(v1, h, limiters, tokenManager)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
