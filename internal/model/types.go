package model

import (
	"time"

	"github.com/google/uuid"
)

// CaptureTimeLayout is the format of SnapshotRow.CaptureTime.
const CaptureTimeLayout = "2006-01-02 15:04:05"

// FormatCaptureTime renders t as a capture timestamp in local time.
func FormatCaptureTime(t time.Time) string {
	return t.Local().Format(CaptureTimeLayout)
}

// SnapshotRow is one asset's market state at one capture instant.
// Rows are append-only: written once, never updated.
type SnapshotRow struct {
	CoinID            string   // Upstream asset id (e.g., "bitcoin")
	CoinName          string   // Display name
	Symbol            string   // Upper-case ticker (e.g., "BTC")
	CurrentPriceUSD   *float64 // Spot price
	MarketCapUSD      *float64 // Market capitalisation
	Volume24hUSD      *float64 // Trailing 24h volume
	PriceChange24hPct *float64 // Signed 24h change in percent
	MarketCapRank     *int64   // Rank at capture time
	CaptureTime       string   // Shared by every row of a cycle
}

// Outcome classifies how a collection cycle ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeHTTPError  Outcome = "http_error"
	OutcomeEmpty      Outcome = "empty"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeWriteError Outcome = "write_error"
	OutcomeCanceled   Outcome = "canceled"
)

// Outcomes lists every Outcome value.
var Outcomes = []Outcome{
	OutcomeOK,
	OutcomeHTTPError,
	OutcomeEmpty,
	OutcomeFetchError,
	OutcomeWriteError,
	OutcomeCanceled,
}

// CycleReport summarises one collection cycle.
type CycleReport struct {
	ID          uuid.UUID
	CaptureTime string
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     Outcome
	StatusCode  int   // HTTP status for OutcomeHTTPError
	Fetched     int   // Records returned by the API
	Skipped     int   // Records rejected during transform
	Written     int   // Rows appended to the store
	Err         error // nil for OutcomeOK
}

// OK reports whether the cycle appended its batch.
func (r CycleReport) OK() bool {
	return r.Outcome == OutcomeOK
}
