package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"MarketAcquirer/internal/model"
)

// SQLiteRecorder persists acquired tables and a run log to a SQLite database.
type SQLiteRecorder struct {
	db    *sql.DB
	mu    sync.Mutex
	runID string
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// Each recorder instance tags its run log entries with a fresh run ID.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s (run %s)", dbPath, r.runID)
	return r, nil
}

// RunID identifies the rows this recorder writes to acquisition_runs.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS intraday_bars (
			symbol    TEXT    NOT NULL,
			interval  TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			PRIMARY KEY (symbol, interval, timestamp)
		)`,

		`CREATE TABLE IF NOT EXISTS news_articles (
			symbol                  TEXT    NOT NULL,
			url                     TEXT    NOT NULL,
			time_published          INTEGER NOT NULL,
			source                  TEXT,
			category_within_source  TEXT,
			overall_sentiment_score REAL,
			topics                  TEXT,
			relevance_score         REAL,
			ticker_sentiment_score  REAL,
			PRIMARY KEY (symbol, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_published ON news_articles(symbol, time_published)`,

		`CREATE TABLE IF NOT EXISTS acquisition_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT    NOT NULL,
			symbol        TEXT    NOT NULL,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			series_points INTEGER,
			series_error  TEXT,
			news_articles INTEGER,
			news_error    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_run ON acquisition_runs(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordTimeSeries upserts every bar keyed by (symbol, interval, timestamp).
func (r *SQLiteRecorder) RecordTimeSeries(ts *model.TimeSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO intraday_bars
		(symbol, interval, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, interval, timestamp) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range ts.Points {
		if _, err := stmt.Exec(ts.Symbol, string(ts.Interval), b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s %s: %w", ts.Symbol, b.Time.Format(csvTimeLayout), err)
		}
	}
	return tx.Commit()
}

// RecordNews upserts every article keyed by (symbol, url).
func (r *SQLiteRecorder) RecordNews(symbol string, news *model.NewsTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO news_articles
		(symbol, url, time_published, source, category_within_source,
		 overall_sentiment_score, topics, relevance_score, ticker_sentiment_score)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, url) DO UPDATE SET
			time_published=excluded.time_published, source=excluded.source,
			category_within_source=excluded.category_within_source,
			overall_sentiment_score=excluded.overall_sentiment_score,
			topics=excluded.topics, relevance_score=excluded.relevance_score,
			ticker_sentiment_score=excluded.ticker_sentiment_score`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range news.Rows() {
		topics, err := json.Marshal(a.Topics)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(symbol, a.URL, a.Published.Unix(), a.Source, a.CategoryWithinSource,
			a.OverallSentimentScore, string(topics), a.RelevanceScore, a.TickerSentimentScore); err != nil {
			return fmt.Errorf("insert article %s: %w", a.URL, err)
		}
	}
	return tx.Commit()
}

// RecordRun logs one symbol's outcome under this recorder's run ID.
func (r *SQLiteRecorder) RecordRun(res *model.SymbolResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO acquisition_runs
		(run_id, symbol, started_at, finished_at, series_points, series_error, news_articles, news_error)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.runID, res.Symbol, res.StartedAt.Unix(), res.FinishedAt.Unix(),
		res.TimeSeries.Len(), errText(res.SeriesErr),
		res.News.Len(), errText(res.NewsErr),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func errText(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
