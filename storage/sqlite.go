package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/openrsvp/rsvp-registry/interfaces"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
	id                 INTEGER PRIMARY KEY,
	max_capacity       INTEGER NOT NULL,
	deposit            TEXT NOT NULL,
	owner              TEXT NOT NULL,
	name               TEXT NOT NULL,
	registration_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_state (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
INSERT OR IGNORE INTO registry_state (key, value) VALUES ('next_id', 0);
`

// SQLiteStore persists events in a single-file SQLite database. The id
// counter lives in a registry_state row and advances in the same
// transaction as the insert.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema. WAL mode keeps concurrent readers from blocking the writer.
func NewSQLiteStore(path string, log *slog.Logger) (*SQLiteStore, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// NextID returns the id the next inserted event will receive.
func (s *SQLiteStore) NextID(ctx context.Context) (uint64, error) {
	var next uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM registry_state WHERE key = 'next_id'`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	return next, nil
}

// Insert assigns the next id and persists the record, advancing the counter
// in the same transaction.
func (s *SQLiteStore) Insert(ctx context.Context, ev *interfaces.Event) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT value FROM registry_state WHERE key = 'next_id'`,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, max_capacity, deposit, owner, name, registration_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, ev.MaxCapacity, ev.Deposit.String(), ev.Owner.Hex(), ev.Name.String(), ev.RegistrationCount,
	); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE registry_state SET value = value + 1 WHERE key = 'next_id'`,
	); err != nil {
		return 0, fmt.Errorf("failed to advance id counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}

	ev.ID = id
	return id, nil
}

// Get returns the record stored under id, or ErrEventNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id uint64) (*interfaces.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, max_capacity, deposit, owner, name, registration_count
		 FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, id)
	}
	return ev, err
}

// Update rewrites the mutable fields of an existing record.
func (s *SQLiteStore) Update(ctx context.Context, ev *interfaces.Event) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET registration_count = ? WHERE id = ?`,
		ev.RegistrationCount, ev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, ev.ID)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*interfaces.Event, error) {
	var (
		ev         interfaces.Event
		depositStr string
		ownerHex   string
		name       string
	)
	if err := row.Scan(&ev.ID, &ev.MaxCapacity, &depositStr, &ownerHex, &name, &ev.RegistrationCount); err != nil {
		return nil, err
	}

	deposit, ok := new(big.Int).SetString(depositStr, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt event row %d: bad deposit %q", ev.ID, depositStr)
	}
	owner, err := interfaces.NewIdentityFromHex(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("corrupt event row %d: %w", ev.ID, err)
	}

	ev.Deposit = deposit
	ev.Owner = owner
	ev.Name = interfaces.EventName(name)
	return &ev, nil
}
