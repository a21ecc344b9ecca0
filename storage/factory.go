package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// ErrInvalidLocationURI indicates a malformed or unsupported store URI.
var ErrInvalidLocationURI = fmt.Errorf("invalid store location URI")

// StoreFactory creates event stores from location URIs.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a factory that passes log to the stores it builds.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates an event store from a location URI.
//
// Supported schemes:
//   - mem:// - volatile in-process store
//   - file:// - local filesystem storage
//   - sqlite:// - SQLite database file
//   - postgres:// / postgresql:// - PostgreSQL (the URI is passed to pgx as-is)
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *StoreFactory) StoreFor(ctx context.Context, locationURI string) (interfaces.EventStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mem":
		return NewMemoryStore(), nil
	case "file":
		dir := filepath.Join(u.Host, u.Path)
		if dir == "" {
			return nil, fmt.Errorf("%w: file URI needs a path", ErrInvalidLocationURI)
		}
		return NewFileStore(dir, f.log)
	case "sqlite":
		path := filepath.Join(u.Host, u.Path)
		if path == "" {
			return nil, fmt.Errorf("%w: sqlite URI needs a path", ErrInvalidLocationURI)
		}
		return NewSQLiteStore(path, f.log)
	case "postgres", "postgresql":
		return NewPostgresStore(ctx, locationURI, f.log)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, u.Scheme)
	}
}
