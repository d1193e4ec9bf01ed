package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/crypto-snapshots/internal/api"
	"github.com/rickgao/crypto-snapshots/internal/cache"
	"github.com/rickgao/crypto-snapshots/internal/collector"
	"github.com/rickgao/crypto-snapshots/internal/config"
	"github.com/rickgao/crypto-snapshots/internal/database"
	"github.com/rickgao/crypto-snapshots/internal/metrics"
	"github.com/rickgao/crypto-snapshots/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Bootstrap logger until the configured one is available
	logger := newLogger(os.Stdout, "info", "text")
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = newLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"interval", cfg.Collector.Interval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize the store; failure here is fatal
	logger.Info("initializing database", "driver", cfg.Database.Driver, "table", cfg.Database.Table)
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if s, ok := store.(*database.SQLiteStore); ok {
		logger.Info("database initialized", "path", s.Path())
	} else {
		logger.Info("database initialized", "host", cfg.Database.Postgres.Host, "database", cfg.Database.Postgres.Name)
	}

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithUserAgent(version.UserAgent()),
	)

	collectorCfg := collector.Config{
		Interval: cfg.Collector.Interval,
		Timeout:  cfg.API.Timeout,
		Query: api.CoinMarketsOptions{
			VsCurrency: cfg.API.VsCurrency,
			Order:      cfg.API.Order,
			PerPage:    cfg.API.PerPage,
			Page:       cfg.API.Page,
			Sparkline:  cfg.API.Sparkline,
		},
	}

	var opts []collector.Option

	if cfg.Cache.Redis.Enabled {
		publisher, err := cache.Connect(ctx, cfg.Cache.Redis, logger)
		if err != nil {
			// The mirror is optional; collection proceeds without it.
			logger.Warn("redis unavailable, latest-snapshot mirror disabled", "addr", cfg.Cache.Redis.Addr, "error", err)
		} else {
			defer publisher.Close()
			opts = append(opts, collector.WithPublisher(publisher))
			logger.Info("redis mirror enabled", "addr", cfg.Cache.Redis.Addr, "prefix", cfg.Cache.Redis.KeyPrefix)
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, collector.WithObserver(m))
	}

	c := collector.New(collectorCfg, apiClient, store, logger, opts...)

	var healthServer *http.Server
	if cfg.Metrics.Enabled {
		healthServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: createHealthHandler(store, c, m, cfg.Metrics.Path),
		}

		go func() {
			logger.Info("starting health server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
			if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
	}

	if err := c.Start(ctx); err != nil {
		logger.Error("failed to start collector", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := c.Stop(shutdownCtx); err != nil {
		logger.Warn("collector stop timed out", "error", err)
	}
	if healthServer != nil {
		healthServer.Shutdown(shutdownCtx)
	}

	stats := c.Stats()
	logger.Info("collector stopped",
		"cycles", stats.Cycles,
		"succeeded", stats.Succeeded,
		"rows_written", stats.RowsWritten,
	)
}

// newLogger builds the process logger. Output is human-readable text unless
// format is "json".
func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// pinger is satisfied by every database.Store.
type pinger interface {
	Ping(ctx context.Context) error
}

// statsSource is satisfied by *collector.Collector.
type statsSource interface {
	Stats() collector.Stats
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(store pinger, stats statsSource, m *metrics.Metrics, metricsPath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}

		// Check collection loop
		s := stats.Stats()
		loop := map[string]any{
			"cycles":       s.Cycles,
			"succeeded":    s.Succeeded,
			"failed":       s.Failed,
			"rows_written": s.RowsWritten,
		}
		if s.Cycles > 0 {
			loop["last_outcome"] = s.Last.Outcome
			loop["last_capture_time"] = s.Last.CaptureTime
			if s.Last.Err != nil {
				loop["last_error"] = s.Last.Err.Error()
			}
		}
		if !s.LastSuccess.IsZero() {
			loop["last_success"] = s.LastSuccess.Format(time.RFC3339)
		}
		health.Components["collector"] = loop
		if s.Cycles > 0 && !s.Last.OK() && health.Status == "healthy" {
			health.Status = "degraded"
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	if m != nil {
		mux.Handle(metricsPath, m.Handler())
	}

	return mux
}
