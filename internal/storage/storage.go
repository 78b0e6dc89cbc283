package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
)

// ErrNotFound is returned by Get when no live record exists for an id.
var ErrNotFound = errors.New("exchange not found")

// Archive keeps a bounded-lifetime history of exchanges.
type Archive interface {
	Close() error
	Put(ex domain.Exchange) error
	Get(id string) (domain.Exchange, error)
	List() ([]domain.Exchange, error)
}

// Options controls retention characteristics for concrete archive implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewArchive creates the configured storage backend.
func NewArchive(typ, path string, opts Options) (Archive, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopArchive{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		a, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopArchive struct{}

func (noopArchive) Close() error                        { return nil }
func (noopArchive) Put(domain.Exchange) error           { return nil }
func (noopArchive) List() ([]domain.Exchange, error)    { return nil, nil }
func (noopArchive) Get(string) (domain.Exchange, error) { return domain.Exchange{}, ErrNotFound }
