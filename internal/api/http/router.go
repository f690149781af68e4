package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/api/http/handlers"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/auth"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	Orders         *handlers.OrdersHandler
	Users          *handlers.UsersHandler
	Billing        *handlers.BillingHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	LoginPerMinute int
	LoginBurst     int
}

var (
	adminOnly     = auth.AllowRoles(domain.RoleAdmin)
	adminCashier  = auth.AllowRoles(domain.RoleAdmin, domain.RoleCashier)
	readAnyRole   = auth.Policy{Roles: auth.AllRoles, Operation: domain.OperationRead}
	mutateAnyRole = auth.Policy{Roles: auth.AllRoles, Operation: domain.OperationMutate}
)

// RegisterRoutes wires HTTP routes. Every business route declares its role allow-list and
// operation kind here, at registration time.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	gate := cfg.AuthMiddleware
	api := app.Group("/api")

	limiter := newLoginRateLimiter(cfg.LoginPerMinute, cfg.LoginBurst)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", limiter.Handler(), cfg.Auth.Register)
	authGroup.Post("/login", limiter.Handler(), cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", gate.Authenticated(cfg.Auth.Me))

	products := api.Group("/products")
	products.Get("/", gate.Protect(readAnyRole, cfg.Products.List))
	products.Get("/:id", gate.Protect(readAnyRole, cfg.Products.Get))
	products.Post("/", gate.Protect(auth.Policy{Roles: adminCashier, Operation: domain.OperationMutate}, cfg.Products.Create))
	products.Put("/:id", gate.Protect(auth.Policy{Roles: adminCashier, Operation: domain.OperationMutate}, cfg.Products.Update))
	products.Delete("/:id", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationMutate}, cfg.Products.Delete))

	orders := api.Group("/orders")
	orders.Get("/", gate.Protect(readAnyRole, cfg.Orders.List))
	orders.Get("/:id", gate.Protect(readAnyRole, cfg.Orders.Get))
	orders.Post("/", gate.Protect(mutateAnyRole, cfg.Orders.Create))
	orders.Patch("/:id/status", gate.Protect(auth.Policy{Roles: adminCashier, Operation: domain.OperationMutate}, cfg.Orders.UpdateStatus))

	users := api.Group("/users")
	users.Get("/", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationRead}, cfg.Users.List))
	users.Get("/:id", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationRead}, cfg.Users.Get))
	users.Post("/", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationMutate}, cfg.Users.Create))
	users.Patch("/:id", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationMutate}, cfg.Users.Update))
	users.Delete("/:id", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationMutate}, cfg.Users.Delete))

	billingGroup := api.Group("/billing")
	billingGroup.Post("/webhook", cfg.Billing.Webhook)
	billingGroup.Get("/status", gate.Protect(readAnyRole, cfg.Billing.Status))
	billingGroup.Post("/resolve", gate.Protect(auth.Policy{Roles: adminOnly, Operation: domain.OperationBillingResolution}, cfg.Billing.Resolve))
}
