package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/crypto-snapshots/internal/api"
	"github.com/rickgao/crypto-snapshots/internal/model"
)

// Fetcher retrieves one page of coin market records.
type Fetcher interface {
	GetCoinMarkets(ctx context.Context, opts api.CoinMarketsOptions) ([]api.CoinMarket, error)
}

// Store appends snapshot rows.
type Store interface {
	AppendSnapshots(ctx context.Context, rows []model.SnapshotRow) (int, error)
}

// Publisher mirrors a freshly written batch somewhere else.
type Publisher interface {
	PublishLatest(ctx context.Context, rows []model.SnapshotRow) error
}

// Observer receives every finished cycle report.
type Observer interface {
	ObserveCycle(report model.CycleReport)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(model.CycleReport)

func (f ObserverFunc) ObserveCycle(r model.CycleReport) {
	f(r)
}

// Config holds collector configuration.
type Config struct {
	Interval time.Duration          // Delay after each cycle (default: 60s)
	Timeout  time.Duration          // Fetch timeout per cycle (default: 30s)
	Query    api.CoinMarketsOptions // Upstream query parameters
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		Query:    api.DefaultCoinMarketsOptions(),
	}
}

// Stats aggregates cycle results since start.
type Stats struct {
	Cycles         int64
	Succeeded      int64
	Failed         int64
	RowsWritten    int64
	RecordsSkipped int64
	LastSuccess    time.Time
	Last           model.CycleReport
}

// Option configures a Collector.
type Option func(*Collector)

// WithPublisher mirrors each written batch through p.
func WithPublisher(p Publisher) Option {
	return func(c *Collector) {
		c.publisher = p
	}
}

// WithObserver registers an observer for cycle reports.
func WithObserver(o Observer) Option {
	return func(c *Collector) {
		c.observers = append(c.observers, o)
	}
}

// WithClock replaces the wall clock used for capture times.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// Collector periodically fetches coin markets and appends snapshot rows.
type Collector struct {
	cfg       Config
	fetcher   Fetcher
	store     Store
	publisher Publisher
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	stats Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Collector.
func New(cfg Config, fetcher Fetcher, store Store, logger *slog.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collector{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs the collection loop in the background.
func (c *Collector) Start(ctx context.Context) error {
	if c.cfg.Interval <= 0 {
		return fmt.Errorf("collector interval must be > 0, got %v", c.cfg.Interval)
	}

	var runCtx context.Context
	runCtx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop(runCtx)
	}()

	c.logger.Info("collector started",
		"interval", c.cfg.Interval,
		"timeout", c.cfg.Timeout,
		"per_page", c.cfg.Query.PerPage,
	)

	return nil
}

// Stop cancels the loop and waits for the current cycle to finish.
func (c *Collector) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("collector stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the collection loop until ctx is canceled.
func (c *Collector) Run(ctx context.Context) error {
	if c.cfg.Interval <= 0 {
		return fmt.Errorf("collector interval must be > 0, got %v", c.cfg.Interval)
	}
	c.loop(ctx)
	return nil
}

// Stats returns a copy of the current counters.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// loop runs a cycle immediately, then one cycle per interval after the
// previous one has finished.
func (c *Collector) loop(ctx context.Context) {
	timer := time.NewTimer(c.cfg.Interval)
	defer timer.Stop()

	for {
		report := c.RunCycle(ctx)
		if report.Outcome == model.OutcomeCanceled || ctx.Err() != nil {
			return
		}

		c.logger.Info("waiting for next cycle", "delay", c.cfg.Interval)
		timer.Reset(c.cfg.Interval)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// RunCycle performs one fetch, transform and persist pass. It never returns
// an error: the outcome is carried in the report.
func (c *Collector) RunCycle(ctx context.Context) model.CycleReport {
	start := c.now()
	report := model.CycleReport{
		ID:          uuid.New(),
		CaptureTime: model.FormatCaptureTime(start),
		StartedAt:   start,
	}
	logger := c.logger.With("cycle_id", report.ID.String(), "capture_time", report.CaptureTime)

	c.collect(ctx, logger, &report)

	report.Duration = c.now().Sub(start)
	c.record(report)
	c.logReport(logger, report)

	for _, o := range c.observers {
		o.ObserveCycle(report)
	}

	return report
}

func (c *Collector) collect(ctx context.Context, logger *slog.Logger, report *model.CycleReport) {
	logger.Info("fetching coin markets", "per_page", c.cfg.Query.PerPage, "page", c.cfg.Query.Page)

	markets, err := c.fetch(ctx)
	if err != nil {
		report.Err = err
		report.Outcome = classifyFetchError(ctx, err)
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			report.StatusCode = apiErr.StatusCode
		}
		return
	}
	report.Fetched = len(markets)

	rows, rejected := api.ToSnapshotRows(markets, report.CaptureTime)
	for _, r := range rejected {
		logger.Warn("skipping invalid record", "index", r.Index, "coin_id", r.CoinID, "error", r.Err)
	}
	report.Skipped = len(rejected)

	if len(rows) == 0 {
		report.Outcome = model.OutcomeEmpty
		report.Err = fmt.Errorf("all %d records rejected", len(markets))
		return
	}

	written, err := c.store.AppendSnapshots(ctx, rows)
	if err != nil {
		report.Err = fmt.Errorf("append snapshots: %w", err)
		report.Outcome = model.OutcomeWriteError
		if ctx.Err() != nil {
			report.Outcome = model.OutcomeCanceled
		}
		return
	}
	report.Written = written
	report.Outcome = model.OutcomeOK

	if c.publisher != nil {
		if err := c.publisher.PublishLatest(ctx, rows); err != nil {
			logger.Warn("failed to publish latest snapshots", "error", err)
		}
	}
}

func (c *Collector) fetch(ctx context.Context) ([]api.CoinMarket, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	return c.fetcher.GetCoinMarkets(ctx, c.cfg.Query)
}

// classifyFetchError maps a fetch error to a cycle outcome.
func classifyFetchError(ctx context.Context, err error) model.Outcome {
	if ctx.Err() != nil {
		return model.OutcomeCanceled
	}
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return model.OutcomeHTTPError
	case errors.Is(err, api.ErrEmptyResponse):
		return model.OutcomeEmpty
	default:
		return model.OutcomeFetchError
	}
}

func (c *Collector) record(r model.CycleReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Cycles++
	c.stats.RecordsSkipped += int64(r.Skipped)
	c.stats.RowsWritten += int64(r.Written)
	if r.OK() {
		c.stats.Succeeded++
		c.stats.LastSuccess = r.StartedAt
	} else {
		c.stats.Failed++
	}
	c.stats.Last = r
}

func (c *Collector) logReport(logger *slog.Logger, r model.CycleReport) {
	switch r.Outcome {
	case model.OutcomeOK:
		logger.Info("snapshots appended",
			"fetched", r.Fetched,
			"written", r.Written,
			"skipped", r.Skipped,
			"duration", r.Duration,
		)
	case model.OutcomeHTTPError:
		logger.Warn("http error, skipping cycle",
			"status", r.StatusCode,
			"rate_limited", r.StatusCode == 429,
			"error", r.Err,
		)
	case model.OutcomeEmpty:
		logger.Warn("no usable records, skipping cycle", "fetched", r.Fetched, "error", r.Err)
	case model.OutcomeFetchError:
		logger.Warn("fetch failed, skipping cycle", "error", r.Err)
	case model.OutcomeWriteError:
		logger.Error("database write failed, batch dropped", "rows", r.Fetched-r.Skipped, "error", r.Err)
	case model.OutcomeCanceled:
		logger.Info("cycle canceled", "error", r.Err)
	}
}
