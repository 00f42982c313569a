package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/event-info-api/api/swagger"
	"github.com/noah-isme/event-info-api/internal/handler"
	"github.com/noah-isme/event-info-api/internal/middleware"
	"github.com/noah-isme/event-info-api/internal/repository"
	"github.com/noah-isme/event-info-api/internal/service"
	"github.com/noah-isme/event-info-api/pkg/cache"
	"github.com/noah-isme/event-info-api/pkg/config"
	"github.com/noah-isme/event-info-api/pkg/database"
	"github.com/noah-isme/event-info-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/event-info-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/event-info-api/pkg/middleware/requestid"
)

// @title Event Info API
// @version 1.0.0
// @description Events, schedules and booth posts
// @BasePath /
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Session.Store == config.StoreRedis || cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validator.New()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "event-info:"), metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	strategy, roles, err := buildIdentity(ctx, cfg, redisClient, db, logr)
	if err != nil {
		return err
	}

	eventRepo := repository.NewEventRepository(db)
	var users *repository.BoothUserRepository
	if cfg.Auth.Mode != config.AuthModeOIDC {
		users = repository.NewBoothUserRepository(db)
	}

	authSvc := newAuthService(users, strategy, roles, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(repository.NewScheduleRepository(db), eventRepo, logr)
	postSvc := service.NewPostService(repository.NewPostRepository(db), cacheSvc, service.PostConfig{
		AcceptClientPostedAt: cfg.Content.AcceptClientPostedAt,
	}, logr)

	cookieName := ""
	if cfg.Auth.Mode == config.AuthModeSession {
		cookieName = cfg.Session.CookieName
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, handler.Routes{
		Auth:          handler.NewAuthHandler(authSvc, handler.SessionCookie{Name: cookieName, Secure: cfg.Session.CookieSecure}),
		Events:        handler.NewEventHandler(eventSvc),
		Schedule:      handler.NewScheduleHandler(scheduleSvc),
		Posts:         handler.NewPostHandler(postSvc),
		Metrics:       handler.NewMetricsHandler(metrics, db),
		Guard:         middleware.NewGuard(service.NewAccessPolicy(cfg.Content.PublicReads), metrics),
		Authenticator: authSvc,
		CookieName:    cookieName,
		Logger:        logr,
		ExposeMetrics: cfg.Metrics.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("auth_mode", cfg.Auth.Mode))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logr.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newAuthService keeps a nil repository from becoming a non-nil interface value.
func newAuthService(users *repository.BoothUserRepository, strategy service.IdentityStrategy, roles service.RoleResolver, validate *validator.Validate, logr *zap.Logger) *service.AuthService {
	if users == nil {
		return service.NewAuthService(nil, strategy, roles, validate, logr)
	}
	return service.NewAuthService(users, strategy, roles, validate, logr)
}
