package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/cache"
	"credit-organization-api/internal/adapters/http/handlers"
	"credit-organization-api/internal/adapters/http/middleware"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/config"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/jwt"
	"credit-organization-api/internal/pkg/validation"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Account  *handlers.AccountHandler
	LoanType *handlers.LoanTypeHandler
	Loan     *handlers.LoanHandler
	Payment  *handlers.PaymentHandler
}

// NewTokenProvider builds the token provider from configuration
func NewTokenProvider(cfg *config.Config) *jwt.Provider {
	return jwt.NewProvider(jwt.Options{
		Secret:          cfg.JWT.Key,
		Issuer:          cfg.JWT.Issuer,
		Audience:        cfg.JWT.Audience,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})
}

// Setup wires repositories, services and handlers and mounts all routes.
// rdb may be nil, in which case the loan type catalog is not cached.
func Setup(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) {
	uow := repositories.NewUnitOfWork(db)
	validator := validation.New()
	tokens := NewTokenProvider(cfg)

	var loanTypeCache services.LoanTypeCache
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return config.HealthCheck(ctx, db) },
	}
	if rdb != nil {
		loanTypeCache = cache.NewLoanTypeCache(rdb, cfg.Redis.LoanTypeTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	authService := services.NewAuthService(uow, tokens, validator, log)
	userService := services.NewUserService(uow, validator, log)
	loanTypeService := services.NewLoanTypeService(uow, loanTypeCache, validator, log)
	loanService := services.NewLoanService(uow, log)
	applicationService := services.NewLoanApplicationService(uow, validator, log)
	paymentService := services.NewPaymentService(uow, validator, log)

	Register(app, Handlers{
		Health:   handlers.NewHealthHandler(cfg.AppMode, checks),
		Auth:     handlers.NewAuthHandler(authService, handlers.CookieOptions{Secure: cfg.Cookie.Secure, Domain: cfg.Cookie.Domain}),
		Account:  handlers.NewAccountHandler(userService),
		LoanType: handlers.NewLoanTypeHandler(loanTypeService),
		Loan:     handlers.NewLoanHandler(loanService, applicationService),
		Payment:  handlers.NewPaymentHandler(paymentService),
	}, tokens)
}

// Register mounts all routes on app
func Register(app *fiber.App, h Handlers, tokens middleware.TokenValidator) {
	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)
	app.Get("/metrics", middleware.MetricsHandler())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	auth := middleware.AuthMiddleware(tokens)

	setupAccountRoutes(api.Group("/accounts"), h.Account, auth)
	setupAuthRoutes(api.Group("/auth", middleware.NoCacheHeaders()), h.Auth, tokens, auth)
	setupLoanTypeRoutes(api.Group("/loanTypes", auth), h.LoanType)
	setupLoanRoutes(api.Group("/loans", auth), h.Loan)
	setupPaymentRoutes(api.Group("/payments", auth), h.Payment)
}

// setupAccountRoutes configures registration and profile routes
func setupAccountRoutes(router fiber.Router, handler *handlers.AccountHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)

	// Admin only
	router.Post("/admin/register/:roleName", auth, middleware.AdminOnly(), handler.RegisterWithRole)

	// Authenticated users
	router.Get("/profile", auth, middleware.NoCacheHeaders(), handler.GetProfile)
	router.Delete("/profile", auth, handler.DeleteProfile)
	router.Patch("/address", auth, handler.UpdateAddress)
	router.Patch("/reset-password", auth, middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, tokens middleware.TokenValidator, auth fiber.Handler) {
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.Refresh)
	router.Post("/logout", auth, handler.Logout)
	router.Get("/auth-state", middleware.OptionalAuth(tokens), handler.AuthState)
}

// setupLoanTypeRoutes configures catalog routes
func setupLoanTypeRoutes(router fiber.Router, handler *handlers.LoanTypeHandler) {
	router.Get("/", middleware.PrivateCacheHeaders(time.Minute), handler.List)
	router.Get("/:id", middleware.PrivateCacheHeaders(time.Minute), handler.GetByID)

	admin := router.Group("/admin", middleware.AdminOnly())
	admin.Post("/", handler.Create)
	admin.Put("/:id", handler.Update)
	admin.Delete("/:id", handler.Delete)
}

// setupLoanRoutes configures loan routes. Employee routes are registered
// before the customer "/:id" routes so "employee" is never read as an id.
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	employee := router.Group("/employee", middleware.EmployeeOnly())
	employee.Get("/", handler.EmployeeList)
	employee.Get("/applications", handler.PendingApplications)
	employee.Get("/:id", handler.EmployeeGetByID)
	employee.Patch("/:id", handler.UpdateStatus)
	employee.Delete("/:id", handler.EmployeeDelete)

	customer := middleware.CustomerOnly()
	router.Get("/", customer, handler.List)
	router.Post("/", customer, handler.Apply)
	router.Get("/:id", customer, handler.GetByID)
	router.Delete("/:id", customer, handler.Delete)
}

// setupPaymentRoutes configures payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	router.Delete("/employee/:id", middleware.EmployeeOnly(), handler.Delete)
	router.Get("/loans/:loanId", handler.ListByLoan)
	router.Get("/:id", handler.GetByID)
	router.Post("/", handler.Create)
}
