package database

import (
	"fmt"
	"strings"

	"github.com/rickgao/crypto-snapshots/internal/model"
)

// column is one snapshot column with its per-dialect type.
type column struct {
	name         string
	sqliteType   string
	postgresType string
}

// snapshotColumns is the fixed snapshot table schema, in insert order.
var snapshotColumns = []column{
	{"Coin_ID", "TEXT", "TEXT"},
	{"Coin_Name", "TEXT", "TEXT"},
	{"Symbol", "TEXT", "TEXT"},
	{"Current_Price_USD", "REAL", "DOUBLE PRECISION"},
	{"Market_Cap_USD", "REAL", "DOUBLE PRECISION"},
	{"Volume_24h_USD", "REAL", "DOUBLE PRECISION"},
	{"Price_Change_24h_PCT", "REAL", "DOUBLE PRECISION"},
	{"Market_Cap_Rank", "INTEGER", "BIGINT"},
	{"Capture_Time", "TEXT", "TEXT"},
}

// ColumnNames returns the snapshot column names in insert order.
func ColumnNames() []string {
	names := make([]string, len(snapshotColumns))
	for i, c := range snapshotColumns {
		names[i] = c.name
	}
	return names
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// createTableSQL returns the idempotent migration for table.
func createTableSQL(d dialect, table string) string {
	defs := make([]string, len(snapshotColumns))
	for i, c := range snapshotColumns {
		typ := c.sqliteType
		if d == dialectPostgres {
			typ = c.postgresType
		}
		defs[i] = "\t" + quoteIdent(c.name) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", quoteIdent(table), strings.Join(defs, ",\n"))
}

// insertSQL returns a single-row INSERT for table.
func insertSQL(d dialect, table string) string {
	cols := make([]string, len(snapshotColumns))
	params := make([]string, len(snapshotColumns))
	for i, c := range snapshotColumns {
		cols[i] = quoteIdent(c.name)
		if d == dialectPostgres {
			params[i] = fmt.Sprintf("$%d", i+1)
		} else {
			params[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// rowArgs flattens a row into insert arguments; nil pointers become NULL.
func rowArgs(r model.SnapshotRow) []any {
	return []any{
		r.CoinID,
		r.CoinName,
		r.Symbol,
		nullFloat(r.CurrentPriceUSD),
		nullFloat(r.MarketCapUSD),
		nullFloat(r.Volume24hUSD),
		nullFloat(r.PriceChange24hPct),
		nullInt(r.MarketCapRank),
		r.CaptureTime,
	}
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
