package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/handlers"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/middleware"
	"github.com/foxxcyber/vitrine/internal/services"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.New(logging.Config{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		AddSource: cfg.IsDevelopment(),
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := contracts.Load(); err != nil {
		fatal(logger, "failed to compile request schemas", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		fatal(logger, "failed to run migrations", err)
	}

	if err := database.EnsureSuperAdmin(db, cfg); err != nil {
		logger.Warn("could not ensure super admin", logging.Err(err))
	}

	// Redis is optional; without it every request reads the pool from Postgres
	var poolCache services.PoolCache
	if cfg.RedisEnabled {
		client, err := services.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, pool cache disabled", logging.Err(err))
		} else {
			defer client.Close()
			poolCache = services.NewRedisPoolCache(client, cfg.PoolCacheTTL)
			logger.Info("pool cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.PoolCacheTTL))
		}
	}

	var storage *services.StorageService
	if cfg.StorageEnabled() {
		storage, err = services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL, cfg.S3PublicURL)
		if err != nil {
			logger.Warn("failed to initialize storage, image uploads disabled", logging.Err(err))
		} else if err := storage.EnsureBucket(ctx); err != nil {
			logger.Warn("failed to ensure image bucket exists", slog.String("bucket", cfg.S3Bucket), logging.Err(err))
		}
	} else {
		logger.Info("S3 not configured, image uploads disabled")
	}

	email := services.NewEmailService(cfg)
	if email == nil {
		logger.Info("SMTP not configured, lead notifications disabled")
	}

	catalog := services.NewCatalogService(db, poolCache, logger.With(slog.String("component", "catalog")))
	sectionService := services.NewSectionService(db, catalog, logger.With(slog.String("component", "sections")))

	warmer := services.NewCacheWarmer(db, catalog, logger.With(slog.String("component", "warmer")))
	if err := warmer.Start(ctx, cfg.CacheWarmCron); err != nil {
		logger.Warn("cache warmer not started", logging.Err(err))
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             12 * 1024 * 1024,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logging.Middleware(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	h := handlers.New(db, cfg, catalog, sectionService, storage, email)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)
	auth.Post("/refresh", middleware.AuthRequired(cfg), h.RefreshToken)
	auth.Post("/change-password", middleware.AuthRequired(cfg), h.ChangePassword)

	// Public storefront routes
	api.Get("/home", h.GetHome)
	api.Get("/properties", h.ListProperties)
	api.Get("/properties/:ref", h.GetProperty)
	api.Get("/tenants/:slug", h.GetTenant)
	api.Post("/leads", h.CreateLead)
	api.Get("/captcha-config", h.GetCaptchaConfig)
	api.Get("/images/*", h.ServeImage)

	// Back office: every signed-in role
	backOffice := api.Group("/admin", middleware.AuthRequired(cfg))
	backOffice.Get("/stats", h.AdminGetStats)
	backOffice.Get("/properties", h.AdminListProperties)
	backOffice.Post("/properties", h.CreateProperty)
	backOffice.Get("/properties/:id", h.AdminGetProperty)
	backOffice.Put("/properties/:id", h.UpdateProperty)
	backOffice.Delete("/properties/:id", h.DeleteProperty)
	backOffice.Post("/properties/:id/images", h.UploadPropertyImage)
	backOffice.Delete("/properties/:id/images", h.DeletePropertyImage)
	backOffice.Get("/leads", h.ListLeads)
	backOffice.Patch("/leads/:id", h.UpdateLeadStatus)

	// Back office: tenant admins and super admins
	adminOnly := middleware.AdminRequired()
	backOffice.Get("/sections", adminOnly, h.ListSections)
	backOffice.Post("/sections", adminOnly, h.CreateSection)
	backOffice.Put("/sections/reorder", adminOnly, h.ReorderSections)
	backOffice.Put("/sections/move", adminOnly, h.MoveSection)
	backOffice.Put("/sections/:id", adminOnly, h.UpdateSection)
	backOffice.Patch("/sections/:id/active", adminOnly, h.ToggleSection)
	backOffice.Delete("/sections/:id", adminOnly, h.DeleteSection)
	backOffice.Get("/users", adminOnly, h.AdminListUsers)
	backOffice.Post("/users", adminOnly, h.AdminCreateUser)
	backOffice.Delete("/users/:id", adminOnly, h.AdminDeleteUser)
	backOffice.Get("/integrations/:provider", adminOnly, h.GetIntegration)
	backOffice.Put("/integrations/:provider", adminOnly, h.UpdateIntegration)
	backOffice.Delete("/integrations/:provider", adminOnly, h.DeleteIntegration)

	// Platform routes
	superAdmin := middleware.SuperAdminRequired()
	backOffice.Get("/tenants", superAdmin, h.ListTenants)
	backOffice.Post("/tenants", superAdmin, h.CreateTenant)
	backOffice.Put("/tenants/:id", superAdmin, h.UpdateTenant)
	backOffice.Delete("/tenants/:id", superAdmin, h.DeleteTenant)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown failed", logging.Err(err))
		}
	}()

	logger.Info("server starting", slog.String("port", cfg.Port), slog.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal(logger, "server stopped", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, logging.Err(err))
	os.Exit(1)
}
