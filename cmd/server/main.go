package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotelier/internal/api"
	"hotelier/internal/config"
	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/google"
	"hotelier/internal/metrics"
	"hotelier/internal/refresh"
	"hotelier/internal/report"
	"hotelier/internal/upstream"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("HOTELIER_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	}

	bus := events.NewBus()

	if cfg.Upstream.Enabled {
		client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey,
			cfg.Upstream.RatePerSecond, cfg.Upstream.Burst)
		if rdb != nil && cfg.UpstreamCacheTTL() > 0 {
			client.UseRedisCache(rdb, cfg.UpstreamCacheTTL())
		}
		if cfg.Refresh.Enabled {
			refresher := refresh.New(client, db, bus, cfg.RefreshInterval(), &logger)
			go refresher.Start(ctx)
		}
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, database.BackupConfig{
			Enabled:       cfg.Backup.Enabled,
			IntervalHours: cfg.Backup.IntervalHours,
			StoragePath:   cfg.Backup.Path,
			RetentionDays: cfg.Backup.RetentionDays,
		}, &logger)
		go backup.Start(ctx)
	}

	if cfg.Google.Enabled {
		sheets, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile,
			cfg.Google.SpreadsheetID, cfg.Google.SheetName, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("google sheets disabled")
		} else {
			bus.Subscribe(events.TypeSnapshotUpdated, func(events.Event) error {
				bookings, err := db.ListBookings(ctx, time.Time{}, time.Time{})
				if err != nil {
					return err
				}
				return sheets.SyncBookings(ctx, bookings)
			})
		}
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	reports := report.NewService(nil, &logger)
	server := api.NewHTTPServer(db, bus, reports, api.Options{
		Port:              cfg.ServerPort(),
		APIKey:            cfg.Server.APIKey,
		DefaultTotalRooms: cfg.DefaultTotalRooms(),
		MaxRangeDays:      cfg.MaxRangeDays(),
	}, &logger)

	logger.Info().Msg("Hotelier dashboard started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
