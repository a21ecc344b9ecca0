package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS events (
	id                 BIGINT PRIMARY KEY,
	max_capacity       BIGINT NOT NULL,
	deposit            TEXT NOT NULL,
	owner              TEXT NOT NULL,
	name               TEXT NOT NULL,
	registration_count BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_state (
	key   TEXT PRIMARY KEY,
	value BIGINT NOT NULL
);
INSERT INTO registry_state (key, value) VALUES ('next_id', 0)
	ON CONFLICT (key) DO NOTHING;
`

// PostgresStore persists events in PostgreSQL via a pgx connection pool.
// The id counter row is locked FOR UPDATE during inserts so concurrent
// creates from multiple processes never collide.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore connects to the database at dsn and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string, log *slog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &PostgresStore{pool: pool, log: log}, nil
}

// NextID returns the id the next inserted event will receive.
func (s *PostgresStore) NextID(ctx context.Context) (uint64, error) {
	var next uint64
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM registry_state WHERE key = 'next_id'`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	return next, nil
}

// Insert assigns the next id and persists the record, advancing the counter
// in the same transaction.
func (s *PostgresStore) Insert(ctx context.Context, ev *interfaces.Event) (uint64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uint64
	if err := tx.QueryRow(ctx,
		`SELECT value FROM registry_state WHERE key = 'next_id' FOR UPDATE`,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO events (id, max_capacity, deposit, owner, name, registration_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, ev.MaxCapacity, ev.Deposit.String(), ev.Owner.Hex(), ev.Name.String(), ev.RegistrationCount,
	); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE registry_state SET value = value + 1 WHERE key = 'next_id'`,
	); err != nil {
		return 0, fmt.Errorf("failed to advance id counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}

	ev.ID = id
	return id, nil
}

// Get returns the record stored under id, or ErrEventNotFound.
func (s *PostgresStore) Get(ctx context.Context, id uint64) (*interfaces.Event, error) {
	var (
		ev         interfaces.Event
		depositStr string
		ownerHex   string
		name       string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, max_capacity, deposit, owner, name, registration_count
		 FROM events WHERE id = $1`, id,
	).Scan(&ev.ID, &ev.MaxCapacity, &depositStr, &ownerHex, &name, &ev.RegistrationCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
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

// Update rewrites the mutable fields of an existing record.
func (s *PostgresStore) Update(ctx context.Context, ev *interfaces.Event) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE events SET registration_count = $1 WHERE id = $2`,
		ev.RegistrationCount, ev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, ev.ID)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
