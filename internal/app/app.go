package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/config"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/handler"
	"github.com/prperemyshlev/storefront/internal/repository"
	"github.com/prperemyshlev/storefront/internal/service"
	"github.com/prperemyshlev/storefront/internal/utils"
	"github.com/prperemyshlev/storefront/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

// Services is everything the HTTP layer depends on
type Services struct {
	Auth    service.AuthService
	Catalog service.CatalogService
	Limiter service.Limiter
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	logger := infra.Logger()
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	metrics, err := service.NewMetrics(infra.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	authService, err := service.NewAuthService(
		repos.User,
		jwtManager,
		service.NewRefreshTokenRegistry(infra.Redis()),
		metrics,
		logger,
		cfg.Security.BCryptCost,
	)
	if err != nil {
		return nil, err
	}

	var listingCache service.ListingCache = service.NoopListingCache{}
	if cfg.Catalog.CacheEnabled {
		listingCache = service.NewRedisListingCache(infra.Redis(), cfg.Catalog.CacheTTL.Duration)
	}
	catalogService := service.NewCatalogService(repos.Product, listingCache, metrics, logger)

	healthChecker := NewHealthChecker(infra.Postgres(), infra.Redis())

	router := newRouter(cfg, logger, Services{
		Auth:    authService,
		Catalog: catalogService,
		Limiter: service.NewRateLimiter(infra.Redis()),
	})
	router.GET("/metrics", observability.PrometheusHandler(infra.MetricsHandler()))
	router.GET("/health", healthChecker.Handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func newRouter(cfg *config.Config, logger *zap.Logger, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, logger, svc)
	return router
}

func setupRoutes(router *gin.Engine, cfg *config.Config, logger *zap.Logger, svc Services) {
	authHandler := handler.NewAuthHandler(svc.Auth, logger)
	productHandler := handler.NewProductHandler(svc.Catalog, logger)
	adminHandler := handler.NewAdminHandler(svc.Auth, logger)

	rateLimit := handler.RateLimitMiddleware(
		svc.Limiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.RouteIPKey,
		logger,
	)
	requireAuth := handler.AuthMiddleware(svc.Auth)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", rateLimit, authHandler.Register)
			auth.POST("/login", rateLimit, authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetMe)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		admin := api.Group("/admin", requireAuth, handler.RequireRole(svc.Auth, logger, domain.RoleAdmin))
		{
			admin.PATCH("/users/:id/status", adminHandler.UpdateStatus)
			admin.PATCH("/users/:id/role", adminHandler.UpdateRole)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// server before infrastructure
	if err := a.server.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Server shutdown failed", zap.Error(err))
		return errors.Join(err, a.infra.Shutdown(ctx))
	}

	if err := a.infra.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
