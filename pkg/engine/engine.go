// Package engine is the workflow engine: the mutex-guarded owner of the
// in-memory nota store. Every operation validates before it mutates, so a
// failed capture or modify leaves the store untouched; batch transitions
// are per-item independent.
//
// The engine never performs I/O. Callers encode a snapshot after a
// successful mutation and hand the bytes to a persistence collaborator
// outside the engine's lock.
package engine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/notahq/nota/pkg/codec"
	"github.com/notahq/nota/pkg/core"
)

// ErrPersist marks a persistence failure that happened after the
// in-memory mutation was already applied. The caller must surface it
// differently from validation errors: the operation took effect, but the
// on-disk state may now disagree.
var ErrPersist = errors.New("change applied but not saved")

// Engine owns the dataset for the life of the process. All access goes
// through its lock; there is no per-entity locking.
type Engine struct {
	mu     sync.Mutex
	ds     *codec.Dataset
	logger *slog.Logger
	now    func() core.Date
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger. A nil logger is fine; the engine then
// stays silent.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNow overrides the clock used for created_at/updated_at stamps and
// recurrence fallback dates. Tests pin it to fixed dates.
func WithNow(now func() core.Date) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over an empty dataset.
func New(opts ...Option) *Engine {
	e := &Engine{ds: codec.NewDataset(), now: core.Today}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load creates an engine from persisted bytes, running the codec's
// migration chain when the document is in an older format.
func Load(data []byte, opts ...Option) (*Engine, error) {
	ds, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	e := New(opts...)
	e.ds = ds
	return e, nil
}

// Reload replaces the dataset from persisted bytes. Used when the data
// file changed underneath the process (external edit, out-of-band pull).
func (e *Engine) Reload(data []byte) error {
	ds, err := codec.Decode(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.ds = ds
	e.mu.Unlock()
	if e.logger != nil {
		e.logger.Info("dataset reloaded", "notas", ds.Store.Len())
	}
	return nil
}

// Encode produces the canonical on-disk bytes for the current dataset.
// The lock is held only while snapshotting, so slow persistence never
// blocks the next caller.
func (e *Engine) Encode() ([]byte, error) {
	e.mu.Lock()
	snapshot := &codec.Dataset{
		Store:          e.ds.Store.Clone(),
		TaskCounter:    e.ds.TaskCounter,
		ProjectCounter: e.ds.ProjectCounter,
	}
	e.mu.Unlock()
	return codec.Encode(snapshot)
}

// Len returns the number of notas currently held.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ds.Store.Len()
}

// Get returns a single nota by id.
func (e *Engine) Get(id string) (core.Nota, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ds.Store.Get(id)
}
