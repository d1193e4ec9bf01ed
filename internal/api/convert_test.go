package api

import (
	"errors"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestToSnapshotRow(t *testing.T) {
	m := CoinMarket{
		ID:                       strPtr("bitcoin"),
		Symbol:                   strPtr("btc"),
		Name:                     strPtr("Bitcoin"),
		CurrentPrice:             floatPtr(43250.12),
		MarketCap:                floatPtr(847000000000),
		TotalVolume:              floatPtr(21000000000),
		PriceChangePercentage24h: floatPtr(-1.25),
		MarketCapRank:            floatPtr(1),
	}

	row, err := m.ToSnapshotRow("2024-01-15 12:00:00")
	if err != nil {
		t.Fatalf("ToSnapshotRow() error = %v", err)
	}

	if row.CoinID != "bitcoin" {
		t.Errorf("CoinID = %q, want bitcoin", row.CoinID)
	}
	if row.CoinName != "Bitcoin" {
		t.Errorf("CoinName = %q, want Bitcoin", row.CoinName)
	}
	if row.Symbol != "BTC" {
		t.Errorf("Symbol = %q, want BTC", row.Symbol)
	}
	if row.CurrentPriceUSD == nil || *row.CurrentPriceUSD != 43250.12 {
		t.Errorf("CurrentPriceUSD = %v, want 43250.12", row.CurrentPriceUSD)
	}
	if row.MarketCapUSD == nil || *row.MarketCapUSD != 847000000000 {
		t.Errorf("MarketCapUSD = %v, want 847000000000", row.MarketCapUSD)
	}
	if row.Volume24hUSD == nil || *row.Volume24hUSD != 21000000000 {
		t.Errorf("Volume24hUSD = %v, want 21000000000", row.Volume24hUSD)
	}
	if row.PriceChange24hPct == nil || *row.PriceChange24hPct != -1.25 {
		t.Errorf("PriceChange24hPct = %v, want -1.25", row.PriceChange24hPct)
	}
	if row.MarketCapRank == nil || *row.MarketCapRank != 1 {
		t.Errorf("MarketCapRank = %v, want 1", row.MarketCapRank)
	}
	if row.CaptureTime != "2024-01-15 12:00:00" {
		t.Errorf("CaptureTime = %q, want 2024-01-15 12:00:00", row.CaptureTime)
	}
}

func TestToSnapshotRow_NullFields(t *testing.T) {
	m := CoinMarket{
		ID:     strPtr("solana"),
		Symbol: strPtr("sol"),
	}

	row, err := m.ToSnapshotRow("2024-01-15 12:00:00")
	if err != nil {
		t.Fatalf("ToSnapshotRow() error = %v", err)
	}

	if row.CoinName != "" {
		t.Errorf("CoinName = %q, want empty", row.CoinName)
	}
	if row.CurrentPriceUSD != nil || row.MarketCapUSD != nil || row.Volume24hUSD != nil || row.PriceChange24hPct != nil {
		t.Error("numeric fields should be nil when absent")
	}
	if row.MarketCapRank != nil {
		t.Errorf("MarketCapRank = %d, want nil", *row.MarketCapRank)
	}
}

func TestToSnapshotRow_Uppercase(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"btc", "BTC"},
		{"ETH", "ETH"},
		{"usdC", "USDC"},
		{" sol ", "SOL"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			m := CoinMarket{ID: strPtr("x"), Symbol: strPtr(tt.symbol)}
			row, err := m.ToSnapshotRow("t")
			if err != nil {
				t.Fatalf("ToSnapshotRow() error = %v", err)
			}
			if row.Symbol != tt.want {
				t.Errorf("Symbol = %q, want %q", row.Symbol, tt.want)
			}
		})
	}
}

func TestToSnapshotRow_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		market  CoinMarket
		wantErr error
	}{
		{"nil symbol", CoinMarket{ID: strPtr("bitcoin")}, ErrMissingSymbol},
		{"blank symbol", CoinMarket{ID: strPtr("bitcoin"), Symbol: strPtr("  ")}, ErrMissingSymbol},
		{"nil id", CoinMarket{Symbol: strPtr("btc")}, ErrMissingID},
		{"empty id", CoinMarket{ID: strPtr(""), Symbol: strPtr("btc")}, ErrMissingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.market.ToSnapshotRow("t")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestToSnapshotRow_RankRounding(t *testing.T) {
	m := CoinMarket{ID: strPtr("x"), Symbol: strPtr("x"), MarketCapRank: floatPtr(7.0)}
	row, err := m.ToSnapshotRow("t")
	if err != nil {
		t.Fatalf("ToSnapshotRow() error = %v", err)
	}
	if row.MarketCapRank == nil || *row.MarketCapRank != 7 {
		t.Errorf("MarketCapRank = %v, want 7", row.MarketCapRank)
	}
}

func TestToSnapshotRows(t *testing.T) {
	markets := []CoinMarket{
		{ID: strPtr("bitcoin"), Symbol: strPtr("btc")},
		{ID: strPtr("mystery")},
		{ID: strPtr("ethereum"), Symbol: strPtr("eth")},
		{Symbol: strPtr("zzz")},
	}

	rows, rejected := ToSnapshotRows(markets, "2024-01-15 12:00:00")

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Symbol != "BTC" || rows[1].Symbol != "ETH" {
		t.Errorf("symbols = %q, %q, want BTC, ETH", rows[0].Symbol, rows[1].Symbol)
	}
	for _, r := range rows {
		if r.CaptureTime != "2024-01-15 12:00:00" {
			t.Errorf("CaptureTime = %q, want shared batch time", r.CaptureTime)
		}
	}

	if len(rejected) != 2 {
		t.Fatalf("len(rejected) = %d, want 2", len(rejected))
	}
	if rejected[0].Index != 1 || rejected[0].CoinID != "mystery" || !errors.Is(rejected[0], ErrMissingSymbol) {
		t.Errorf("rejected[0] = %v, want record 1 (mystery) missing symbol", rejected[0])
	}
	if rejected[1].Index != 3 || !errors.Is(rejected[1], ErrMissingID) {
		t.Errorf("rejected[1] = %v, want record 3 missing id", rejected[1])
	}
	if got := rejected[0].Error(); got != "record 1 (mystery): missing symbol" {
		t.Errorf("Error() = %q", got)
	}
	if got := rejected[1].Error(); got != "record 3: missing id" {
		t.Errorf("Error() = %q", got)
	}
}
