package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"licensing-backend/controllers"
	"licensing-backend/database"
	"licensing-backend/fxrates"
	"licensing-backend/middlewares"
	"licensing-backend/repositories"
	"licensing-backend/routes"
	"licensing-backend/services"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// ---- Database
	if err := database.Connect(log); err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}
	if err := database.MigrateConstraints(); err != nil {
		log.Fatal("constraint migration failed", zap.Error(err))
	}
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedCatalog(); err != nil {
			log.Fatal("catalog seed failed", zap.Error(err))
		}
	}

	// ---- Services
	store := repositories.NewStore(database.DB)
	rateTTL := time.Duration(envInt("FX_CACHE_TTL_SECONDS", 300)) * time.Second
	rates := fxrates.NewCachedSource(fxrates.NewClient(os.Getenv("EXCHANGE_RATE_API_KEY")), rateTTL)

	ctrls := routes.Controllers{
		Agreements: controllers.NewAgreementController(services.NewAgreementService(store, log)),
		Clients:    controllers.NewClientController(services.NewClientService(store, log)),
		Revenues:   controllers.NewRevenueController(services.NewRevenueService(store, rates, log)),
		Products:   controllers.NewProductController(store),
	}

	// ---- Limits (configurable via env)
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.NewErrorHandler(log),
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
	}))

	// ---- Routes
	routes.Register(app, ctrls)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("API server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
