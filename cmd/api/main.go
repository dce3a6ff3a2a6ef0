package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arquivo/internal/backend"
	"arquivo/internal/config"
	"arquivo/internal/database"
	"arquivo/internal/database/migration"
	handlers "arquivo/internal/http/handler"
	"arquivo/internal/http/middleware"
	"arquivo/internal/logging"
	"arquivo/internal/metrics"
	"arquivo/internal/otel"
	"arquivo/internal/repository"
	"arquivo/internal/repository/memory"
	"arquivo/internal/repository/postgres"
	"arquivo/internal/search"
	"arquivo/internal/service"
	"arquivo/internal/storage"
)

func main() {
	logger := logging.New("main")
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Metrics registry shared by the core counters and the HTTP middleware.
	reg := prometheus.NewRegistry()
	coreMetrics, err := metrics.New(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	// Connect the primary backends. A failure here does not abort startup:
	// the service comes up degraded on the in-process fallbacks and the
	// availability latch records the state.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Error("database_unavailable", err, map[string]any{"host": cfg.Database.Host})
		db = nil
	} else {
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	objStore, err := storage.NewMinIO(cfg.Storage)
	if err != nil {
		logger.Error("object_storage_unavailable", err, map[string]any{"endpoint": cfg.Storage.Endpoint})
		objStore = nil
	}

	health := backend.New(func(ctx context.Context) error {
		if objStore == nil {
			return errors.New("object storage not configured")
		}
		_, err := objStore.List(ctx, cfg.Storage.BucketForFamily(config.FamilyDocuments).Name)
		return err
	}, backend.WithTripHook(coreMetrics.FallbackActivations.Inc))

	// Fallback layer: in-memory stores behind the one-way latch.
	memDocs := memory.NewStore()
	store := storage.NewFailover(objStore, storage.NewMemory(), health)

	var pgDocs repository.DocumentRepository
	var pgRels repository.RelationRepository
	if db != nil {
		pgDocs = postgres.NewDocumentPostgres(db)
		pgRels = postgres.NewRelationPostgres(db)
	}
	docs := repository.NewFailoverDocuments(pgDocs, memDocs, health)
	rels := repository.NewFailoverRelations(pgRels, memDocs.Relations(), health)

	uploadSvc := service.NewUploadService(store, cfg.Storage, coreMetrics)
	docSvc := service.NewDocumentService(docs, rels, store, uploadSvc, cfg.Storage)
	searchEng := search.NewEngine(docs)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		ReadTimeout:  30 * time.Second,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMW.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, docSvc, searchEng, health)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
