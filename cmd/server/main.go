package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/cache"
	"credit-organization-api/internal/adapters/http/middleware"
	"credit-organization-api/internal/adapters/http/routes"
	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/config"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/logger"
	"credit-organization-api/internal/pkg/validation"

	_ "credit-organization-api/docs" // Swagger docs
)

// @title Credit Organization API
// @version 1.0
// @description Loan management API: accounts, loan types, loan applications and payments.

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDev()})
	log.Info().Str("mode", cfg.AppMode).Msg("configuration loaded")

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate")
	}
	log.Info().Msg("database migration completed")

	// The catalog cache is optional; the API keeps serving without it
	rdb, err := config.ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without catalog cache")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if err := seed(ctx, db, rdb, cfg); err != nil {
		log.Warn().Err(err).Msg("database seeding failed")
	}

	cronService := services.NewCronService(repositories.NewUnitOfWork(db), services.CronSchedules{
		OverdueLoans:         cfg.Cron.OverdueLoans,
		ExpiredRefreshTokens: cfg.Cron.ExpiredRefreshTokens,
	}, log)
	if err := cronService.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cron service")
	}
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Credit Organization API v1.0",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	middleware.Setup(app, cfg, log)
	routes.Setup(app, db, rdb, cfg, log)

	go gracefulShutdown(app)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

// seed creates the default accounts and loan type catalog
func seed(ctx context.Context, db *gorm.DB, rdb *redis.Client, cfg *config.Config) error {
	log := logger.Get()
	uow := repositories.NewUnitOfWork(db)
	validator := validation.New()

	var loanTypeCache services.LoanTypeCache
	if rdb != nil {
		loanTypeCache = cache.NewLoanTypeCache(rdb, cfg.Redis.LoanTypeTTL)
	}

	seeder := config.NewSeeder(
		uow,
		services.NewUserService(uow, validator, log),
		services.NewLoanTypeService(uow, loanTypeCache, validator, log),
		cfg.Seed,
		log,
	)
	return seeder.Run(ctx)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	log := logger.Get()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped gracefully")
}
