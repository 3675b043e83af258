// Package score persists the best final score across runs.
package score

import (
	"context"
	"errors"
	"fmt"
)

// Store is a best-score backend. Every Store satisfies game.BestScore.
type Store interface {
	Read(ctx context.Context) (int, error)
	WriteIfHigher(ctx context.Context, score int) (bool, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// DefaultProfile is used when Options.Profile is empty.
const DefaultProfile = "default"

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown score backend")

// Options selects and configures a backend.
type Options struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`    // file backend
	DSN     string `mapstructure:"dsn"`     // postgres backend
	Profile string `mapstructure:"profile"` // separates best scores of different players
}

// Open creates the backend named by opts.Backend. An empty name is memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	profile := opts.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		if opts.Path == "" {
			return nil, errors.New("file score backend needs a path")
		}
		return NewFileStore(opts.Path, profile), nil
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, errors.New("postgres score backend needs a dsn")
		}
		return NewPostgresStore(ctx, opts.DSN, profile)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
