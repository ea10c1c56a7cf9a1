package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/cache"
	"github.com/erp/pos-reports/internal/infrastructure/config"
	"github.com/erp/pos-reports/internal/infrastructure/logger"
	"github.com/erp/pos-reports/internal/infrastructure/printing"
	"github.com/erp/pos-reports/internal/infrastructure/reportclient"
	"github.com/erp/pos-reports/internal/infrastructure/spreadsheet"
	"github.com/erp/pos-reports/internal/infrastructure/storage"
	"github.com/erp/pos-reports/internal/infrastructure/telemetry"
	"github.com/erp/pos-reports/internal/interfaces/http/handler"
	"github.com/erp/pos-reports/internal/interfaces/http/middleware"
	"github.com/erp/pos-reports/internal/interfaces/http/router"
)

//	@title			POS Reports API
//	@version		1.0
//	@description	Report generation and PDF/XLSX export for the POS back office
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.ConfigFrom(cfg.Log, cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := baseLog
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS reports",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
		log.Info("Span profiles", zap.Bool("enabled", tracerProvider.SpanProfilesEnabled()))
	}
	if loggerProvider.IsEnabled() {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		log = telemetry.NewBridgedLogger(baseLog, telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, level))
	}

	meter := meterProvider.Meter(cfg.App.Name)
	reportMetrics, err := telemetry.NewReportMetrics(meter)
	if err != nil {
		log.Warn("Report metrics disabled", zap.Error(err))
		reportMetrics = nil
	}

	// Export backends
	documents, err := printing.NewDocumentRenderer(cfg.Export, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := documents.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	workbooks := spreadsheet.NewWriter(spreadsheet.WithLogger(log))

	exportOpts := []reportapp.ExportOption{
		reportapp.WithExportLocation(cfg.Export.Location()),
		reportapp.WithExportMetrics(reportMetrics),
	}
	artifactStore, err := storage.NewArtifactStore(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize artifact storage", zap.Error(err))
	}
	if artifactStore != nil {
		exportOpts = append(exportOpts, reportapp.WithArtifactStore(artifactStore))
	}
	exportService := reportapp.NewExportService(documents, workbooks, log, exportOpts...)

	// Report service collaborator, optionally behind the payload cache
	client, err := reportclient.NewClient(cfg.ReportService, reportclient.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize report service client", zap.Error(err))
	}
	var collaborator reportapp.Collaborator = client

	payloads, err := cache.NewPayloadCacheFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Cache.AllowInMemoryFallback),
	).CreateCache(ctx)
	if err != nil {
		log.Fatal("Failed to initialize payload cache", zap.Error(err))
	}
	if payloads != nil {
		defer func() {
			if err := payloads.Close(); err != nil {
				log.Error("Error closing payload cache", zap.Error(err))
			}
		}()
		collaborator = reportclient.NewCachingClient(client, payloads, cfg.Cache.TTL, log)
	}

	reportService := reportapp.NewReportService(collaborator, reportapp.NewAdapter(), log,
		reportapp.WithServiceMetrics(reportMetrics),
	)

	workspaces := reportapp.NewWorkspaceStore(func(t report.Type) *reportapp.Controller {
		return reportapp.NewController(reportService, exportService, t)
	}, cfg.Workspace.IdleTTL, reportapp.WithCleanupInterval(cfg.Workspace.CleanupInterval))
	defer func() {
		_ = workspaces.Close()
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - generate or propagate the request ID
	// 2. Recovery - catch panics
	// 3. Tracing - server span, so the logger below can read trace IDs
	// 4. Logger - request logger and access log
	// 5. CORS - answer preflights before session parsing
	// 6. Metrics - request count, latency and size
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.HTTPMetrics(meter))

	// Health check endpoint (outside API versioning)
	healthHandler := handler.NewHealthHandler(cfg.App.Name, cfg.App.Version)
	engine.GET("/health", healthHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.Session(), middleware.SpanAttributes(), middleware.Profiling(profiler.IsEnabled()))
	r.Register(handler.NewReportHandler(reportService, exportService)).
		Register(handler.NewWorkspaceHandler(workspaces))
	r.Setup()

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// flush telemetry after the last request span has ended
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down logger provider", zap.Error(err))
	}

	baseLog.Info("Server exited gracefully")
}
