package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/config"
	"github.com/hwlabel/labelstation/internal/metrics"
	"github.com/hwlabel/labelstation/internal/repository/memory"
	"github.com/hwlabel/labelstation/internal/repository/mongodb"
	"github.com/hwlabel/labelstation/internal/repository/sheets"
	"github.com/hwlabel/labelstation/internal/scheduler"
	"github.com/hwlabel/labelstation/internal/server/handlers"
	"github.com/hwlabel/labelstation/internal/server/router"
	"github.com/hwlabel/labelstation/internal/service/collection"
	"github.com/hwlabel/labelstation/internal/service/devices"
	exportsvc "github.com/hwlabel/labelstation/internal/service/export"
	historysvc "github.com/hwlabel/labelstation/internal/service/history"
	"github.com/hwlabel/labelstation/pkg/clients/printer"
	"github.com/hwlabel/labelstation/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	loc := cfg.Location()

	catalog, err := config.LoadCatalog(cfg.Station.CatalogPath)
	if err != nil {
		baseLogger.Fatal("failed to load waste catalog", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stationMetrics, err := metrics.NewStationMetrics(registry)
	if err != nil {
		baseLogger.Fatal("failed to register metrics", zap.Error(err))
	}

	var store historysvc.Store = memory.NewRepository()
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, label history kept in memory")
	}
	historySvc := historysvc.NewService(store, loc, baseLogger.Named("svc.history"))

	sinks := []collection.Sink{historySvc, stationMetrics}
	if cfg.Printer.BaseURL != "" {
		sinks = append(sinks, printer.Sink{Client: printer.NewClient(cfg.Printer)})
		baseLogger.Info("printer client enabled", zap.String("base_url", cfg.Printer.BaseURL))
	} else {
		baseLogger.Warn("printer base url missing, labels are only recorded")
	}

	session, err := collection.NewSession(collection.Options{
		Catalog:   catalog,
		LabelSize: cfg.Station.DefaultLabelSize,
		Location:  loc,
		Sinks:     sinks,
		Observer:  stationMetrics,
		Logger:    baseLogger.Named("svc.collection"),
	})
	if err != nil {
		baseLogger.Fatal("failed to init label session", zap.Error(err))
	}

	schedOpts := scheduler.Options{
		Location: loc,
		Logger:   baseLogger.Named("scheduler"),
	}

	var deviceReporter handlers.DeviceReporter
	if cfg.Devices.Enabled {
		sim := devices.NewSimulator(devices.Options{
			Feed:            session,
			Observer:        stationMetrics,
			FlipProbability: cfg.Devices.FlipProbability,
			MaxDriftKG:      cfg.Devices.MaxDriftKG,
			Logger:          baseLogger.Named("svc.devices"),
		})
		deviceReporter = sim
		schedOpts.Devices = sim
		schedOpts.DeviceSpec = cfg.Devices.TickSpec
	}

	if cfg.ExportEnabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		schedOpts.Exporter = exportsvc.NewService(historySvc, sheetsRepo, cfg.Sheets.SheetRange, stationMetrics, baseLogger.Named("svc.export"))
		schedOpts.ExportSpec = cfg.Export.CronSchedule
	} else {
		baseLogger.Warn("google sheets not configured, daily export disabled")
	}

	stationHandler := handlers.NewStationHandler(session, deviceReporter, historySvc, loc, baseLogger.Named("handlers.station"))
	engine := router.New(stationHandler, registry, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(schedOpts)
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Int("waste_types", len(catalog)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
