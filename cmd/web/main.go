package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nucleav/docs"
	"nucleav/internal/config"
	handlers "nucleav/internal/http/handler"
	"nucleav/internal/http/middleware"
	"nucleav/internal/notify"
	"nucleav/internal/otel"
	"nucleav/internal/service/company"
	"nucleav/internal/service/dashboard"
	"nucleav/internal/session"
	"nucleav/internal/storage"
	"nucleav/internal/upstream"
)

// @title Nucleav Web Gateway
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Upstream Nucleav API client; every data operation goes through it.
	api, err := upstream.NewHTTP(cfg.API)
	if err != nil {
		log.Fatalf("failed to initialize upstream client: %v", err)
	}

	// Session store: Redis when configured, in-process memory otherwise.
	var store session.Store
	if cfg.Redis.Addr != "" {
		store, err = session.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
	} else {
		store = session.NewMemoryStore()
	}

	sessions, err := session.NewManager(api, store, cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize session manager: %v", err)
	}

	hub := notify.NewHub()

	// Object storage for logo/avatar uploads; optional.
	var assets storage.Storage
	if cfg.MinIO.Endpoint != "" {
		assets, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Deps{
		Cfg:       cfg,
		Sessions:  sessions,
		Store:     store,
		API:       api,
		Companies: company.NewService(api, hub),
		Dashboard: dashboard.NewService(api),
		Hub:       hub,
		Assets:    assets,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
