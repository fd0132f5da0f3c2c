package main

import (
	"context"
	"errors"
	"fmt"
	"log"
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

	_ "github.com/ebd-admin/ebd-api/api/swagger"
	"github.com/ebd-admin/ebd-api/internal/bootstrap"
	"github.com/ebd-admin/ebd-api/internal/handler"
	"github.com/ebd-admin/ebd-api/internal/middleware"
	"github.com/ebd-admin/ebd-api/internal/repository"
	"github.com/ebd-admin/ebd-api/internal/router"
	"github.com/ebd-admin/ebd-api/internal/service"
	"github.com/ebd-admin/ebd-api/pkg/cache"
	"github.com/ebd-admin/ebd-api/pkg/config"
	"github.com/ebd-admin/ebd-api/pkg/logger"
	corsmiddleware "github.com/ebd-admin/ebd-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ebd-admin/ebd-api/pkg/middleware/requestid"
)

// @title EBD API
// @version 1.0.0
// @description Sunday-school administration: classes, students, roll calls and attendance reports.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logr.Warn("failed to close store", zap.Error(err))
		}
	}()

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo.Enabled())

	services := bootstrap.NewServices(cfg, store, cacheSvc, metrics, logr)
	if created, err := services.Baseline.Ensure(ctx); err != nil {
		return fmt.Errorf("seed baseline administrator: %w", err)
	} else if created {
		logr.Info("baseline administrator seeded", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	checks := map[string]handler.ReadinessCheck{"store": store.Ping}
	if redisClient != nil {
		checks["cache"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metrics.Handler(), checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.Register(r, router.Handlers{
		Auth:       handler.NewAuthHandler(services.Auth),
		Users:      handler.NewUserHandler(services.Users),
		Classes:    handler.NewClassHandler(services.Classes),
		Students:   handler.NewStudentHandler(services.Students),
		Attendance: handler.NewAttendanceHandler(services.Attendance),
		Reports:    handler.NewReportHandler(services.Reports),
	}, router.Options{
		Prefix:       cfg.APIPrefix,
		Tokens:       services.Auth,
		LoginLimiter: middleware.NewLoginLimiter(cfg.RateLimit.LoginPerMinute),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
