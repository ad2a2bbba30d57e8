package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"press_admin/internal/config"
	"press_admin/internal/database"
	"press_admin/internal/handlers"
	"press_admin/internal/logger"
	"press_admin/internal/metrics"
	"press_admin/internal/middleware"
	"press_admin/internal/migrations"
	"press_admin/internal/models"
	"press_admin/internal/redis"
	"press_admin/internal/repository"
	"press_admin/internal/services"
	"press_admin/pkg/whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogDev, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migrations.RunMigrations(db, zlog); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := redis.Initialize(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	importRole := models.Role(cfg.ImportDefaultRole)
	if !importRole.Valid() {
		zlog.Warn("invalid IMPORT_DEFAULT_ROLE, using Customer", zap.String("value", cfg.ImportDefaultRole))
		importRole = models.RoleCustomer
	}

	var sender services.MessageSender
	if cfg.WhatsAppGatewayEnabled() {
		sender = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
	}

	store := repository.NewStore(db)

	accountService := services.NewAccountService(store, services.NewCredentialGenerator(cfg.PasswordLength), cfg.LoginURL(), m, zlog.Named("accounts"))
	lifecycleService := services.NewLifecycleService(store, m, zlog.Named("lifecycle"))
	importService := services.NewImportService(accountService, importRole, m, zlog.Named("import"))
	exportService := services.NewExportService(store, m)
	authService := services.NewAuthService(store, redisClient, cfg.SessionTimeout, cfg.RememberSessionTimeout, m, zlog.Named("auth"))
	notificationService := services.NewNotificationService(cfg.BusinessName, cfg.DefaultCountryCode, cfg.LoginURL(), sender, zlog.Named("whatsapp"))
	jobService := services.NewJobService(store, zlog.Named("jobs"))

	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit)
	if err != nil {
		zlog.Fatal("invalid LOGIN_RATE_LIMIT", zap.String("value", cfg.LoginRateLimit), zap.Error(err))
	}

	routes := &handlers.Router{
		API: handlers.NewAPIHandler(map[string]handlers.Pinger{
			"database": store,
			"redis":    redisClient,
		}),
		Auth:         handlers.NewAuthHandler(authService, cfg.IsProduction),
		Accounts:     handlers.NewAccountHandler(accountService, lifecycleService, importService, exportService),
		RecycleBin:   handlers.NewRecycleBinHandler(lifecycleService),
		Jobs:         handlers.NewJobHandler(jobService),
		WhatsApp:     handlers.NewWhatsAppHandler(accountService, notificationService),
		RequireLogin: middleware.RequireSession(authService),
		LoginLimiter: loginLimiter,
		Gatherer:     reg,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders(middleware.SessionHeader, middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader, "Content-Disposition")
	router.Use(cors.New(corsConfig))

	routes.Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("login_url", cfg.LoginURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("http server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
