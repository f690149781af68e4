package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/http"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/http/handlers"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/billing"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/config"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/events"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/observability"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/persistence"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository/memory"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/service"
)

type repositories struct {
	tenants  repository.TenantRepository
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	transport := auth.NewSessionTransport(auth.CookieOptions{
		Path:   cfg.Cookie.Path,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
	})
	metrics := observability.NewMetrics()

	oracle := billing.NewCachedOracle(billing.NewStoreOracle(repos.tenants), redis.Client, cfg.Billing.StatusCacheTTL(), logger)
	gate := billing.NewGate(oracle, logger)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, oracle, logger).RegisterHandlers()

	authService := service.NewAuthService(service.AuthDependencies{
		TenantRepo: repos.tenants,
		UserRepo:   repos.users,
		Hasher:     hasher,
		Tokens:     tokens,
		Logger:     logger,
	})
	productService := service.NewProductService(repos.products)
	orderService := service.NewOrderService(repos.orders, repos.products, dispatcher, logger)
	userService := service.NewUserService(repos.users, hasher, dispatcher, logger)
	billingService := service.NewBillingService(repos.tenants, gate, dispatcher, cfg.Billing, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.NewErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, transport),
		Products:       handlers.NewProductsHandler(productService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Users:          handlers.NewUsersHandler(userService),
		Billing:        handlers.NewBillingHandler(billingService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, transport, gate, logger, metrics),
		Metrics:        metrics,
		LoginPerMinute: cfg.Auth.LoginRatePerMinute,
		LoginBurst:     cfg.Auth.LoginBurst,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// buildRepositories picks Postgres when a DSN is configured and the in-memory store otherwise.
func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		logger.Warn("using in-memory repositories; data is lost on restart")
		mem := memory.NewRepositories()
		return repositories{tenants: mem.Tenants, users: mem.Users, products: mem.Products, orders: mem.Orders}
	}
	pool := pg.PoolHandle()
	return repositories{
		tenants:  repository.NewTenantRepository(pool),
		users:    repository.NewUserRepository(pool),
		products: repository.NewProductRepository(pool),
		orders:   repository.NewOrderRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
