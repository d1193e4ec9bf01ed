package api

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rickgao/crypto-snapshots/internal/model"
)

// Per-record validation failures.
var (
	ErrMissingID     = errors.New("missing id")
	ErrMissingSymbol = errors.New("missing symbol")
)

// RecordError describes a single record rejected during conversion.
type RecordError struct {
	Index  int    // Position in the API response
	CoinID string // Empty when the id itself is missing
	Err    error
}

func (e *RecordError) Error() string {
	if e.CoinID == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.CoinID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ToSnapshotRow converts a market record into a row stamped with captureTime.
func (m *CoinMarket) ToSnapshotRow(captureTime string) (model.SnapshotRow, error) {
	id := derefString(m.ID)
	if id == "" {
		return model.SnapshotRow{}, ErrMissingID
	}
	symbol := strings.TrimSpace(derefString(m.Symbol))
	if symbol == "" {
		return model.SnapshotRow{}, ErrMissingSymbol
	}

	return model.SnapshotRow{
		CoinID:            id,
		CoinName:          derefString(m.Name),
		Symbol:            strings.ToUpper(symbol),
		CurrentPriceUSD:   m.CurrentPrice,
		MarketCapUSD:      m.MarketCap,
		Volume24hUSD:      m.TotalVolume,
		PriceChange24hPct: m.PriceChangePercentage24h,
		MarketCapRank:     rankToInt(m.MarketCapRank),
		CaptureTime:       captureTime,
	}, nil
}

// ToSnapshotRows converts a page of records. Rejected records are returned
// separately and never abort the rest of the page.
func ToSnapshotRows(markets []CoinMarket, captureTime string) ([]model.SnapshotRow, []*RecordError) {
	rows := make([]model.SnapshotRow, 0, len(markets))
	var rejected []*RecordError

	for i := range markets {
		row, err := markets[i].ToSnapshotRow(captureTime)
		if err != nil {
			rejected = append(rejected, &RecordError{
				Index:  i,
				CoinID: derefString(markets[i].ID),
				Err:    err,
			})
			continue
		}
		rows = append(rows, row)
	}

	return rows, rejected
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rankToInt(rank *float64) *int64 {
	if rank == nil {
		return nil
	}
	r := int64(math.Round(*rank))
	return &r
}
