package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appsettlement "github.com/cortecaja/backend/internal/application/settlement"
	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/cache"
	"github.com/cortecaja/backend/internal/infrastructure/config"
	"github.com/cortecaja/backend/internal/infrastructure/logger"
	"github.com/cortecaja/backend/internal/infrastructure/migration"
	"github.com/cortecaja/backend/internal/infrastructure/persistence"
	"github.com/cortecaja/backend/internal/infrastructure/storage"
	"github.com/cortecaja/backend/internal/infrastructure/telemetry"
	"github.com/cortecaja/backend/internal/interfaces/http/handler"
	"github.com/cortecaja/backend/internal/interfaces/http/middleware"
	"github.com/cortecaja/backend/internal/interfaces/http/router"
	"github.com/cortecaja/backend/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/cortecaja/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var _ appsettlement.MetricsRecorder = (*telemetry.SettlementMetrics)(nil)

//	@title			Corte de Caja API
//	@version		1.0
//	@description	Cash settlement reconciliation for field workers: day previews, settlement closing, supervisor review and statement export.

//	@contact.name	API Support
//	@contact.url	https://github.com/cortecaja/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Version:    version,
		Env:        cfg.App.Env,
		Sampling:   cfg.Log.Sampling,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Corte de Caja", zap.String("port", cfg.App.Port))

	// Tracing must be up before otelgorm and otelgin pick the global provider
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Bound values stay out of production logs
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithBoundParams(cfg.App.Env != "production"),
	)

	db, err := persistence.Open(context.Background(), &cfg.Database,
		persistence.WithGormLogger(gormLog),
		persistence.WithStartupLogger(log),
		persistence.WithConnectAttempts(cfg.Database.ConnectAttempts, time.Second),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(&cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	settlementMetrics, err := telemetry.NewSettlementMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register settlement metrics", zap.Error(err))
	}
	httpMetrics, err := telemetry.NewHTTPMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}
	if err := telemetry.RegisterDBCollectors(registry, sqlDB, log); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	// Submission guard: Redis when configured, in-process otherwise
	var guard cache.ClosableGuard
	if cfg.Redis.Enabled {
		guard, err = cache.NewSubmissionGuardFactory(cfg.Redis, cache.WithLogger(log)).CreateGuard()
		if err != nil {
			log.Fatal("Failed to create submission guard", zap.Error(err))
		}
	} else {
		guard = cache.NewInMemorySubmissionGuard()
	}
	defer func() {
		if err := guard.Close(); err != nil {
			log.Error("Error closing submission guard", zap.Error(err))
		}
	}()

	// Repositories and readers
	repo := persistence.NewGormSettlementRepository(db.DB,
		persistence.WithCreateAttempts(cfg.Settlement.CreateAttempts),
	)
	aggregator := settlement.NewAggregator(
		persistence.NewGormOrderReader(db.DB),
		persistence.NewGormPaymentReader(db.DB),
		persistence.NewGormMethodCatalog(db.DB),
	)

	serviceOpts := []appsettlement.Option{
		appsettlement.WithLogger(log.Named("settlement")),
		appsettlement.WithMetrics(settlementMetrics),
		appsettlement.WithSubmissionGuard(guard, cfg.Settlement.GuardTTL),
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewS3StatementArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create statement archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		err = archive.EnsureBucket(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to prepare statement bucket", zap.Error(err), zap.String("bucket", archive.Bucket()))
		}
		serviceOpts = append(serviceOpts, appsettlement.WithArchive(archive))
	}

	settlementService := appsettlement.NewService(repo, aggregator, serviceOpts...)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validation tag names before any binding happens
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log, "/health", cfg.Telemetry.MetricsPath))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(
		cfg.HTTP.CORSAllowOrigins,
		cfg.HTTP.CORSAllowMethods,
		cfg.HTTP.CORSAllowHeaders,
	)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		Enabled:     tp.IsEnabled(),
		ServiceName: cfg.Telemetry.ServiceName,
	}))
	engine.Use(middleware.SpanEnricher())
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(httpMetrics))
	}

	checks := map[string]handler.Pinger{
		"database": handler.PingerFunc(db.Ping),
	}
	if p, ok := guard.(handler.Pinger); ok {
		checks["redis"] = p
	}
	systemHandler := handler.NewSystemHandler(version, checks)
	settlementHandler := handler.NewSettlementHandler(settlementService)

	engine.GET("/health", systemHandler.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET(cfg.Telemetry.MetricsPath, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	routes := router.New(engine, router.WithVersion("v1"), router.WithLogger(log)).
		Add(settlementHandler.Routes(), systemHandler.Routes()).
		Setup()
	log.Info("API mounted", zap.Int("routes", len(routes)))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateUp applies the embedded migrations over a dedicated connection;
// closing the migrator closes the handle it was given.
func migrateUp(cfg *config.DatabaseConfig, log *zap.Logger) error {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(conn, migrations.FS, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
