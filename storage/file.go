package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// FileStore persists events on the local file system, one JSON file per
// event under <baseDir>/events plus a state file carrying the id counter.
type FileStore struct {
	baseDir string
	log     *slog.Logger

	mu     sync.Mutex
	nextID uint64
}

type fileStoreState struct {
	NextID uint64 `json:"next_id"`
}

type eventRecord struct {
	ID                uint64               `json:"id"`
	MaxCapacity       uint64               `json:"max_capacity"`
	Deposit           string               `json:"deposit"`
	Owner             interfaces.Identity  `json:"owner"`
	Name              string               `json:"name"`
	RegistrationCount uint64               `json:"registration_count"`
}

// NewFileStore opens (or initializes) a file-backed event store in baseDir.
// The id counter is recovered from the state file, so the store survives
// process restarts.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "events"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create events directory: %w", err)
	}

	s := &FileStore{baseDir: baseDir, log: log}

	raw, err := os.ReadFile(s.statePath())
	switch {
	case os.IsNotExist(err):
		// fresh store, counter starts at 0
	case err != nil:
		return nil, fmt.Errorf("failed to read store state: %w", err)
	default:
		var state fileStoreState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("corrupt store state: %w", err)
		}
		s.nextID = state.NextID
	}

	return s, nil
}

// NextID returns the id the next inserted event will receive.
func (s *FileStore) NextID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID, nil
}

// Insert assigns the next id, writes the event file, then advances and
// persists the counter. The counter file is written last so a crash between
// the two writes leaves an orphan event file rather than a reused id.
func (s *FileStore) Insert(ctx context.Context, ev *interfaces.Event) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	ev.ID = id
	if err := s.writeEvent(ev); err != nil {
		return 0, err
	}

	s.nextID++
	if err := s.writeState(); err != nil {
		s.nextID--
		return 0, err
	}

	s.log.Debug("Stored event record",
		slog.Uint64("eventID", id),
		slog.String("path", s.eventPath(id)))
	return id, nil
}

// Get reads the record stored under id, or returns ErrEventNotFound.
func (s *FileStore) Get(ctx context.Context, id uint64) (*interfaces.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readEvent(id)
}

// Update rewrites the record stored under ev.ID.
func (s *FileStore) Update(ctx context.Context, ev *interfaces.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readEvent(ev.ID); err != nil {
		return err
	}
	return s.writeEvent(ev)
}

// Close is a no-op; all writes are flushed synchronously.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) statePath() string {
	return filepath.Join(s.baseDir, "state.json")
}

func (s *FileStore) eventPath(id uint64) string {
	return filepath.Join(s.baseDir, "events", fmt.Sprintf("%d.json", id))
}

func (s *FileStore) writeState() error {
	raw, err := json.Marshal(fileStoreState{NextID: s.nextID})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.statePath(), raw, 0644); err != nil {
		return fmt.Errorf("failed to write store state: %w", err)
	}
	return nil
}

func (s *FileStore) writeEvent(ev *interfaces.Event) error {
	rec := eventRecord{
		ID:                ev.ID,
		MaxCapacity:       ev.MaxCapacity,
		Deposit:           ev.Deposit.String(),
		Owner:             ev.Owner,
		Name:              ev.Name.String(),
		RegistrationCount: ev.RegistrationCount,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.eventPath(ev.ID), raw, 0644); err != nil {
		return fmt.Errorf("failed to write event file: %w", err)
	}
	return nil
}

func (s *FileStore) readEvent(id uint64) (*interfaces.Event, error) {
	raw, err := os.ReadFile(s.eventPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var rec eventRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("corrupt event file %s: %w", s.eventPath(id), err)
	}

	deposit, ok := new(big.Int).SetString(rec.Deposit, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt event file %s: bad deposit %q", s.eventPath(id), rec.Deposit)
	}

	return &interfaces.Event{
		ID:                rec.ID,
		MaxCapacity:       rec.MaxCapacity,
		Deposit:           deposit,
		Owner:             rec.Owner,
		Name:              interfaces.EventName(rec.Name),
		RegistrationCount: rec.RegistrationCount,
	}, nil
}
