package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rickgao/crypto-snapshots/internal/model"
)

func TestObserveCycle(t *testing.T) {
	m := New()
	started := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	m.ObserveCycle(model.CycleReport{
		Outcome:   model.OutcomeOK,
		StartedAt: started,
		Duration:  300 * time.Millisecond,
		Fetched:   100,
		Skipped:   1,
		Written:   99,
	})
	m.ObserveCycle(model.CycleReport{
		Outcome:    model.OutcomeHTTPError,
		StatusCode: 429,
		StartedAt:  started.Add(time.Minute),
	})

	if got := testutil.ToFloat64(m.cycles.WithLabelValues("ok")); got != 1 {
		t.Errorf("cycles{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cycles.WithLabelValues("http_error")); got != 1 {
		t.Errorf("cycles{http_error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rowsWritten); got != 99 {
		t.Errorf("rows_written = %v, want 99", got)
	}
	if got := testutil.ToFloat64(m.recordsSkipped); got != 1 {
		t.Errorf("records_skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.lastFetched); got != 0 {
		t.Errorf("last_fetched = %v, want 0 after the failed cycle", got)
	}
	if got := testutil.ToFloat64(m.lastSuccess); got != float64(started.Unix()) {
		t.Errorf("last_success = %v, want %d", got, started.Unix())
	}
}

func TestOutcomesPreRegistered(t *testing.T) {
	m := New()

	if got := testutil.CollectAndCount(m.cycles); got != len(model.Outcomes) {
		t.Errorf("cycles series = %d, want %d", got, len(model.Outcomes))
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCycle(model.CycleReport{Outcome: model.OutcomeOK, Written: 3})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`snapshot_collector_cycles_total{outcome="ok"} 1`,
		`snapshot_collector_rows_written_total 3`,
		"go_goroutines",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
