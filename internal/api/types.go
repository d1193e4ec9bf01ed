package api

// CoinMarket is one record from GET /coins/markets.
//
// Every field is a pointer so that JSON null and absent keys both decode to
// nil instead of a zero value.
type CoinMarket struct {
	ID     *string `json:"id"`
	Symbol *string `json:"symbol"`
	Name   *string `json:"name"`

	// USD values
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`

	// Decoded as float so a fractional encoding does not reject the page.
	MarketCapRank *float64 `json:"market_cap_rank"`
}

// CoinMarketsOptions configures a GetCoinMarkets request.
type CoinMarketsOptions struct {
	VsCurrency string // e.g. "usd"
	Order      string // e.g. "market_cap_desc"
	PerPage    int
	Page       int
	Sparkline  bool
}

// DefaultCoinMarketsOptions returns the top-100-by-market-cap query.
func DefaultCoinMarketsOptions() CoinMarketsOptions {
	return CoinMarketsOptions{
		VsCurrency: "usd",
		Order:      "market_cap_desc",
		PerPage:    100,
		Page:       1,
		Sparkline:  false,
	}
}
