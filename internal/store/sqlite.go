package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "trading-journal/internal/errors"
	"trading-journal/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", apperrors.ErrDatabaseError, err)
	}

	// Configure connection pool for concurrent request handlers
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", apperrors.ErrDatabaseError, err)
	}

	return s, nil
}

// initSchema creates the trades table and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		direction TEXT NOT NULL,
		setup TEXT,
		notes TEXT,
		tags TEXT,
		trade_date TEXT NOT NULL,
		ai_feedback TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
	CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tradeColumns = "id, ticker, entry_price, exit_price, direction, setup, notes, tags, trade_date, ai_feedback, created_at"

// Insert persists a new trade, assigning a fresh id and creation timestamp.
func (s *SQLiteStore) Insert(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	stored := *trade
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	if stored.Tags == nil {
		stored.Tags = []string{}
	}

	tagsJSON, err := json.Marshal(stored.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.Ticker, stored.Entry, stored.Exit, stored.Direction,
		stored.Setup, stored.Notes, string(tagsJSON), stored.Date.String(),
		stored.AIFeedback, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}

	return &stored, nil
}

// Get returns a trade by id, or ErrTradeNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+` FROM trades WHERE id = ?
	`, id)

	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}
	return trade, nil
}

// List returns all trades ordered by trade date descending, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM trades
		ORDER BY trade_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// Update merges the patch onto the stored trade and returns the result.
// Last write wins; there is no optimistic-concurrency token.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.TradePatch) (*models.Trade, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(current)
	if current.Tags == nil {
		current.Tags = []string{}
	}

	tagsJSON, err := json.Marshal(current.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET ticker = ?, entry_price = ?, exit_price = ?, direction = ?,
		    setup = ?, notes = ?, tags = ?, trade_date = ?
		WHERE id = ?
	`, current.Ticker, current.Entry, current.Exit, current.Direction,
		current.Setup, current.Notes, string(tagsJSON), current.Date.String(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.ErrTradeNotFound
	}

	return current, nil
}

// Delete removes a trade permanently. Deleting an unknown id returns
// ErrTradeNotFound, so a second delete of the same id is a clean miss.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}

// SetFeedback writes AI coaching feedback onto an existing trade.
func (s *SQLiteStore) SetFeedback(ctx context.Context, id string, feedback string) (*models.Trade, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET ai_feedback = ? WHERE id = ?
	`, feedback, id)
	if err != nil {
		return nil, fmt.Errorf("failed to set feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.ErrTradeNotFound
	}

	return s.Get(ctx, id)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var setup, notes, tagsJSON, feedback sql.NullString
	var dateStr string

	err := row.Scan(&t.ID, &t.Ticker, &t.Entry, &t.Exit, &t.Direction,
		&setup, &notes, &tagsJSON, &dateStr, &feedback, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Setup = setup.String
	t.Notes = notes.String
	t.AIFeedback = feedback.String

	t.Tags = []string{}
	if tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
	}

	date, err := models.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trade date: %w", err)
	}
	t.Date = date

	return &t, nil
}
