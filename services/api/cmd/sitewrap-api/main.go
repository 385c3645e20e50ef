package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sitewrap/pkg/bus"
	"sitewrap/pkg/db"
	gos3 "sitewrap/pkg/s3"
	"sitewrap/pkg/telemetry"
	"sitewrap/services/api"
	"sitewrap/services/generator"
)

func main() {
	if err := run("sitewrap-api"); err != nil {
		log.New(os.Stderr, "", log.LstdFlags).Fatal(err)
	}
}

func run(serviceName string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, middleware, logger, err := telemetry.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownTelemetry != nil {
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "%s: telemetry shutdown error: %v\n", serviceName, err)
			}
		}
	}()

	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s3Client, err := gos3.NewClientFromEnv()
	if err != nil {
		return fmt.Errorf("init s3 client: %w", err)
	}

	store := &api.Store{S3: s3Client}

	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		orm, err := gorm.Open(gormpostgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return fmt.Errorf("open orm: %w", err)
		}

		store.DB = pool
		store.ORM = orm
		logger.Printf("INFO build history enabled")
	}

	if cfg.NATSURL != "" {
		eventBus, err := bus.New(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer eventBus.Close()
		store.Bus = eventBus

		if err := startBuildEventWorker(ctx, eventBus, logger); err != nil {
			return fmt.Errorf("start build event worker: %w", err)
		}
		logger.Printf("INFO build events enabled")
	}

	pipeline, err := generator.NewPipeline(generator.PipelineConfig{
		Storage: s3Client,
		Bucket:  cfg.Bucket,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	apiServer, err := api.New(store, pipeline, cfg, logger)
	if err != nil {
		return fmt.Errorf("init api: %w", err)
	}

	routes, err := apiServer.Routes()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/readyz", readyHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/v1/", routes)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: middleware(mux),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "%s: server shutdown error: %v\n", serviceName, err)
		}
	}()

	logger.Printf("INFO listening on %s", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("ERROR server failed: %v", err)
		return err
	}

	return nil
}

// startBuildEventWorker logs finished builds from the event stream so a
// single-node deployment has a consumer exercising the durable subscription.
func startBuildEventWorker(ctx context.Context, eventBus *bus.Bus, logger *log.Logger) error {
	_, err := eventBus.Subscribe(ctx, "sitewrap.builds.finished", "sitewrap-api", func(_ context.Context, data []byte) error {
		logger.Printf("INFO build finished: %s", data)
		return nil
	})
	return err
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func readyHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
