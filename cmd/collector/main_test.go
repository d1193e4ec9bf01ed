package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/crypto-snapshots/internal/collector"
	"github.com/rickgao/crypto-snapshots/internal/metrics"
	"github.com/rickgao/crypto-snapshots/internal/model"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubStats struct{ s collector.Stats }

func (s stubStats) Stats() collector.Stats { return s.s }

func getHealth(t *testing.T, h http.Handler) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	return rec.Code, body
}

func TestHealthHandler(t *testing.T) {
	okStats := collector.Stats{
		Cycles:      3,
		Succeeded:   3,
		LastSuccess: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Last:        model.CycleReport{Outcome: model.OutcomeOK, CaptureTime: "2024-01-15 12:00:00"},
	}
	failedStats := collector.Stats{
		Cycles: 1,
		Failed: 1,
		Last:   model.CycleReport{Outcome: model.OutcomeHTTPError, Err: errors.New("429")},
	}

	tests := []struct {
		name       string
		pingErr    error
		stats      collector.Stats
		wantCode   int
		wantStatus string
	}{
		{"healthy", nil, okStats, http.StatusOK, "healthy"},
		{"no cycles yet", nil, collector.Stats{}, http.StatusOK, "healthy"},
		{"last cycle failed", nil, failedStats, http.StatusOK, "degraded"},
		{"database down", errors.New("unable to open database file"), okStats, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createHealthHandler(stubPinger{tt.pingErr}, stubStats{tt.stats}, nil, "/metrics")
			code, body := getHealth(t, h)

			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestHealthHandler_Metrics(t *testing.T) {
	m := metrics.New()
	h := createHealthHandler(stubPinger{}, stubStats{}, m, "/metrics")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "snapshot_collector_cycles_total") {
		t.Error("metrics output missing cycles counter")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown", "status", 429)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "status=429") {
		t.Errorf("text output = %q", out)
	}

	buf.Reset()
	newLogger(&buf, "info", "json").Info("fetching coin markets")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
