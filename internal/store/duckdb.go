package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"TrendScreener/internal/model"
)

// ParquetExporter writes bars to Parquet files through an in-memory DuckDB.
type ParquetExporter struct{}

func NewParquetExporter() *ParquetExporter { return &ParquetExporter{} }

// Export writes every symbol's bars into one Parquet file at path, sorted by
// symbol and date.
func (e *ParquetExporter) Export(ctx context.Context, bars map[string][]model.OHLCV, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE market_data (
			symbol    TEXT,
			time      TIMESTAMP,
			open      DOUBLE,
			high      DOUBLE,
			low       DOUBLE,
			close     DOUBLE,
			adj_close DOUBLE,
			volume    DOUBLE
		)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO market_data (symbol, time, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	symbols := make([]string, 0, len(bars))
	for sym := range bars {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		for _, b := range bars[sym] {
			if _, err := stmt.ExecContext(ctx, sym, b.Time, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("failed to insert data: %w", err)
			}
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	copySQL := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (FORMAT PARQUET)`,
		escapeLiteral(path))
	if _, err := db.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

// Read loads a file written by Export back into per-symbol bars.
func (e *ParquetExporter) Read(ctx context.Context, path string) (map[string][]model.OHLCV, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT symbol, time, open, high, low, close, adj_close, volume
		FROM read_parquet('%s') ORDER BY symbol, time`, escapeLiteral(path))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.OHLCV)
	for rows.Next() {
		var (
			sym string
			ts  time.Time
			b   model.OHLCV
		)
		if err := rows.Scan(&sym, &ts, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		b.Time = ts.UTC()
		out[sym] = append(out[sym], b)
	}
	return out, rows.Err()
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
