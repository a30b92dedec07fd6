package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
)

// barBatchSize keeps multi-row inserts under SQLite's bound-variable limit.
const barBatchSize = 500

// SQLiteStore persists bars and screening runs to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol    TEXT    NOT NULL,
			date      INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			adj_close REAL,
			volume    REAL,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS bar_ranges (
			symbol     TEXT PRIMARY KEY,
			start_date INTEGER NOT NULL,
			end_date   INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS screen_runs (
			id          TEXT PRIMARY KEY,
			strategy    TEXT NOT NULL,
			params      TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			scanned     INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON screen_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS screen_hits (
			run_id     TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			name       TEXT,
			trend      INTEGER,
			last_close REAL,
			avg_volume REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_run ON screen_hits(run_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, bool, error) {
	var startUnix, endUnix int64
	err := s.db.QueryRowContext(ctx,
		`SELECT start_date, end_date FROM bar_ranges WHERE symbol = ?`, symbol).Scan(&startUnix, &endUnix)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load range %s: %w", symbol, err)
	}
	cached := coveredRange{Start: time.Unix(startUnix, 0).UTC(), End: time.Unix(endUnix, 0).UTC()}
	if !cached.covers(start, end) {
		return nil, false, nil
	}

	query, args, err := sq.
		Select("date", "open", "high", "low", "close", "adj_close", "volume").
		From("bars").
		Where(sq.Eq{"symbol": symbol}).
		Where(sq.GtOrEq{"date": start.Unix()}).
		Where(sq.LtOrEq{"date": end.Unix()}).
		OrderBy("date").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build bars query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query bars %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var (
			b    model.OHLCV
			date int64
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, false, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(date, 0).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return bars, len(bars) > 0, nil
}

// SaveBars upserts bars by (symbol, date) and widens the covered range.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, start, end time.Time, bars []model.OHLCV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for from := 0; from < len(bars); from += barBatchSize {
		to := from + barBatchSize
		if to > len(bars) {
			to = len(bars)
		}
		insert := sq.Insert("bars").
			Columns("symbol", "date", "open", "high", "low", "close", "adj_close", "volume").
			Suffix(`ON CONFLICT(symbol, date) DO UPDATE SET
				open = excluded.open, high = excluded.high, low = excluded.low,
				close = excluded.close, adj_close = excluded.adj_close, volume = excluded.volume`)
		for _, b := range bars[from:to] {
			insert = insert.Values(symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert bars %s: %w", symbol, err)
		}
	}

	span := coveredRange{Start: start.UTC(), End: end.UTC()}
	var startUnix, endUnix int64
	err = tx.QueryRowContext(ctx,
		`SELECT start_date, end_date FROM bar_ranges WHERE symbol = ?`, symbol).Scan(&startUnix, &endUnix)
	switch {
	case err == nil:
		prev := coveredRange{Start: time.Unix(startUnix, 0).UTC(), End: time.Unix(endUnix, 0).UTC()}
		span = prev.merge(span)
	case err != sql.ErrNoRows:
		return fmt.Errorf("load range %s: %w", symbol, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO bar_ranges (symbol, start_date, end_date, fetched_at)
		VALUES (?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			start_date = excluded.start_date, end_date = excluded.end_date, fetched_at = excluded.fetched_at`,
		symbol, span.Start.Unix(), span.End.Unix(), time.Now().Unix()); err != nil {
		return fmt.Errorf("save range %s: %w", symbol, err)
	}
	return tx.Commit()
}

// Symbols lists every cached symbol.
func (s *SQLiteStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol FROM bar_ranges ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// RecordRun stores a run and its hits, assigning a RunID when empty.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *model.ScreenResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := sq.Insert("screen_runs").
		Columns("id", "strategy", "params", "started_at", "finished_at", "scanned", "failed").
		Values(run.RunID, run.Strategy, run.Params, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Scanned, run.Failed).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Hits) > 0 {
		insert := sq.Insert("screen_hits").Columns("run_id", "ticker", "name", "trend", "last_close", "avg_volume")
		for _, h := range run.Hits {
			insert = insert.Values(run.RunID, h.Scrip.Ticker, h.Scrip.Name, int(h.Trend), h.LastClose, h.AvgVolume)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build hits insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert hits: %w", err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, with their hits.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]model.ScreenResult, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := sq.
		Select("id", "strategy", "params", "started_at", "finished_at", "scanned", "failed").
		From("screen_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var runs []model.ScreenResult
	for rows.Next() {
		var (
			r                 model.ScreenResult
			params            sql.NullString
			started, finished int64
		)
		if err := rows.Scan(&r.RunID, &r.Strategy, &params, &started, &finished, &r.Scanned, &r.Failed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Params = params.String
		r.StartedAt, r.FinishedAt = time.Unix(started, 0), time.Unix(finished, 0)
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		hits, err := s.hits(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Hits = hits
	}
	return runs, nil
}

func (s *SQLiteStore) hits(ctx context.Context, runID string) ([]model.ScreenHit, error) {
	query, args, err := sq.
		Select("ticker", "name", "trend", "last_close", "avg_volume").
		From("screen_hits").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("ticker").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hits query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hits: %w", err)
	}
	defer rows.Close()
	var hits []model.ScreenHit
	for rows.Next() {
		var (
			h     model.ScreenHit
			name  sql.NullString
			trend int
		)
		if err := rows.Scan(&h.Scrip.Ticker, &name, &trend, &h.LastClose, &h.AvgVolume); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.Scrip.Name, h.Trend = name.String, model.Trend(trend)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
