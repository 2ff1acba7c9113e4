package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.SignalRecordRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/wheel_bot.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, but the Go driver benefits from limiting connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS signal_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		symbol TEXT NOT NULL,
		strike REAL NOT NULL,
		expiry TEXT NOT NULL,
		premium REAL NOT NULL,
		quantity INTEGER NOT NULL,
		status TEXT NOT NULL,
		broker_order_ref TEXT DEFAULT NULL,
		error_message TEXT DEFAULT NULL,
		created_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP DEFAULT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signal_records_created_at ON signal_records (created_at);
	CREATE INDEX IF NOT EXISTS idx_signal_records_symbol_status ON signal_records (symbol, status);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Create saves a new signal record and returns its assigned ID.
func (r *Repository) Create(ctx context.Context, rec *domain.SignalRecord) (int64, error) {
	const query = `
	INSERT INTO signal_records (action, symbol, strike, expiry, premium, quantity, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		rec.Action, rec.Symbol, rec.Strike, rec.Expiry.Format(time.DateOnly),
		rec.Premium, rec.Quantity, rec.Status, rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert signal record for symbol %s: %w: %w", rec.Symbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for signal record %s: %w", rec.Symbol, err)
	}
	rec.ID = id
	r.logger.Debug(ctx, "Signal record created", map[string]interface{}{"recordID": id, "symbol": rec.Symbol, "action": rec.Action})
	return id, nil
}

// UpdateStatus moves an existing record to a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, rec *domain.SignalRecord) error {
	const query = `
	UPDATE signal_records
	SET status = ?, broker_order_ref = ?, error_message = ?, processed_at = ?
	WHERE id = ?`

	var processedAt sql.NullTime
	if !rec.ProcessedAt.IsZero() {
		processedAt = sql.NullTime{Time: rec.ProcessedAt, Valid: true}
	}
	var orderRef, errMsg sql.NullString
	if rec.BrokerOrderRef != nil {
		orderRef = sql.NullString{String: *rec.BrokerOrderRef, Valid: true}
	}
	if rec.ErrorMessage != nil {
		errMsg = sql.NullString{String: *rec.ErrorMessage, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, rec.Status, orderRef, errMsg, processedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update signal record ID %d: %w: %w", rec.ID, ports.ErrUpdateFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for update of record ID %d: %w", rec.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("signal record ID %d not found for update: %w", rec.ID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Signal record updated", map[string]interface{}{"recordID": rec.ID, "status": rec.Status})
	return nil
}

// FindByID retrieves a record by its unique ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.SignalRecord, error) {
	const query = `
	SELECT id, action, symbol, strike, expiry, premium, quantity, status,
	       broker_order_ref, error_message, created_at, processed_at
	FROM signal_records
	WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Signal record not found by ID", map[string]interface{}{"recordID": id})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query signal record by ID %d: %w", id, err)
	}
	return rec, nil
}

// ListRecent retrieves the most recent records, newest first, up to a limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.SignalRecord, error) {
	const query = `
	SELECT id, action, symbol, strike, expiry, premium, quantity, status,
	       broker_order_ref, error_message, created_at, processed_at
	FROM signal_records
	ORDER BY created_at DESC, id DESC
	LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent signal records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.SignalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal record during ListRecent: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal record rows: %w", err)
	}
	return records, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans a row into a domain.SignalRecord struct.
func scanRecord(s scanner) (*domain.SignalRecord, error) {
	rec := &domain.SignalRecord{}
	var action, status, expiry string
	var orderRef, errMsg sql.NullString
	var processedAt sql.NullTime
	err := s.Scan(
		&rec.ID, &action, &rec.Symbol, &rec.Strike, &expiry, &rec.Premium, &rec.Quantity,
		&status, &orderRef, &errMsg, &rec.CreatedAt, &processedAt)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	rec.Action = domain.SignalAction(action)
	rec.Status = domain.SignalStatus(status)
	rec.Expiry, err = time.Parse(time.DateOnly, expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry %q on record %d: %w", expiry, rec.ID, err)
	}
	if orderRef.Valid {
		rec.BrokerOrderRef = &orderRef.String
	}
	if errMsg.Valid {
		rec.ErrorMessage = &errMsg.String
	}
	if processedAt.Valid {
		rec.ProcessedAt = processedAt.Time
	}
	return rec, nil
}
