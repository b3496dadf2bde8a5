package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers the last data signature published per target URL.

// Store tracks data signatures keyed by target URL.
type Store interface {
	Close() error
	// LastSignature returns the recorded signature for key, if it has not expired.
	LastSignature(key string) (string, bool, error)
	// RecordSignature stores sig for key and refreshes its expiry.
	RecordSignature(key, sig string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SignatureTTL    time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSignatureTTL    = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SignatureTTL <= 0 {
		opts.SignatureTTL = defaultSignatureTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore never remembers anything, so every success is treated as new.
type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) LastSignature(string) (string, bool, error) { return "", false, nil }
func (noopStore) RecordSignature(string, string) error       { return nil }
