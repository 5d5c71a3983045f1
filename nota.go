package nota

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notahq/nota/internal/dispatch"
	"github.com/notahq/nota/pkg/core"
	"github.com/notahq/nota/pkg/engine"
	"github.com/notahq/nota/pkg/gitstore"
)

// --- Types ---

// Nota is the unified record type shared by every workflow state.
type Nota = core.Nota

// Status identifies the workflow state of a nota.
type Status = core.Status

// Filter selects notas in Service.List.
type Filter = engine.Filter

// CaptureInput carries the fields for Service.Capture.
type CaptureInput = engine.CaptureInput

// ModifyInput carries the optional field updates for Service.Modify.
type ModifyInput = engine.ModifyInput

// Outcome reports the per-id result of a status change.
type Outcome = engine.Outcome

// PurgeReport summarizes a trash purge.
type PurgeReport = engine.PurgeReport

// ErrPersist marks a change that was applied in memory but not saved.
var ErrPersist = engine.ErrPersist

// --- Configuration ---

type config struct {
	sync   bool
	logger *slog.Logger
	now    func() core.Date
}

// Option configures Open.
type Option func(*config)

// WithSync enables git pull before load and push after save.
func WithSync(enabled bool) Option {
	return func(c *config) { c.sync = enabled }
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock overrides the current-date source. Useful for testing.
func WithClock(now func() core.Date) Option {
	return func(c *config) { c.now = now }
}

// --- Service ---

// Service binds a workflow engine to a git-backed data file.
type Service struct {
	engine *engine.Engine
	store  *gitstore.FileStore
	logger *slog.Logger
}

// Open loads the data file at path and returns a ready Service.
// A missing file yields an empty dataset.
func Open(ctx context.Context, path string, opts ...Option) (*Service, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := gitstore.New(gitstore.Config{
		Path:   path,
		Sync:   cfg.sync,
		Logger: cfg.logger,
	})

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	engOpts := []engine.Option{engine.WithLogger(cfg.logger)}
	if cfg.now != nil {
		engOpts = append(engOpts, engine.WithNow(cfg.now))
	}
	eng, err := engine.Load(data, engOpts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Service{engine: eng, store: store, logger: cfg.logger}, nil
}

// Engine exposes the underlying workflow engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Capture adds a new nota and saves the file.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (core.Nota, error) {
	n, err := s.engine.Capture(in)
	if err != nil {
		return core.Nota{}, err
	}
	if err := s.flush(ctx, fmt.Sprintf("Add %s: %s", n.Status, n.Title)); err != nil {
		return n, err
	}
	return n, nil
}

// Modify updates fields of an existing nota and saves the file.
func (s *Service) Modify(ctx context.Context, id string, in ModifyInput) (core.Nota, error) {
	n, err := s.engine.Modify(id, in)
	if err != nil {
		return core.Nota{}, err
	}
	if err := s.flush(ctx, fmt.Sprintf("Update %s", id)); err != nil {
		return n, err
	}
	return n, nil
}

// ChangeStatus moves the given ids to a new status. Outcomes are per id;
// the file is saved when at least one id succeeded.
func (s *Service) ChangeStatus(ctx context.Context, ids []string, status, startDate string) ([]Outcome, error) {
	outcomes, err := s.engine.Transition(ids, status, startDate)
	if err != nil {
		return nil, err
	}
	changed := 0
	for _, o := range outcomes {
		if o.OK() {
			changed++
		}
	}
	if changed == 0 {
		return outcomes, nil
	}
	msg := fmt.Sprintf("Change %d items status to %s", changed, status)
	if changed == 1 {
		for _, o := range outcomes {
			if o.OK() {
				msg = fmt.Sprintf("Change %s status to %s", o.ID, status)
				break
			}
		}
	}
	if err := s.flush(ctx, msg); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// EmptyTrash permanently removes unreferenced trash notas and saves the file
// when anything was removed.
func (s *Service) EmptyTrash(ctx context.Context) (PurgeReport, error) {
	report, err := s.engine.PurgeTrash()
	if err != nil {
		return report, err
	}
	if len(report.Removed) == 0 {
		return report, nil
	}
	msg := fmt.Sprintf("Empty trash (%d items deleted)", len(report.Removed))
	if err := s.flush(ctx, msg); err != nil {
		return report, err
	}
	return report, nil
}

// List returns the notas matching the filter, ordered by workflow stage.
func (s *Service) List(f Filter) ([]core.Nota, error) {
	seq, err := s.engine.Query(f)
	if err != nil {
		return nil, err
	}
	var out []core.Nota
	for n := range seq {
		out = append(out, n)
	}
	return out, nil
}

// Get returns a single nota by id.
func (s *Service) Get(id string) (core.Nota, error) {
	return s.engine.Get(id)
}

// Sync pulls and pushes the backing repository.
func (s *Service) Sync(ctx context.Context) error {
	return s.store.Sync(ctx)
}

// Watch installs a filesystem watcher that reloads the engine when the
// data file changes on disk. Reloading continues until ctx is canceled.
func (s *Service) Watch(ctx context.Context) error {
	return s.engine.WatchFile(ctx, s.store.Path(), s.store.Load)
}

// Handler returns a request dispatcher bound to this service, suitable
// for serving newline-delimited JSON over a stream.
func (s *Service) Handler() *dispatch.Handler {
	return dispatch.NewHandler(s.engine, s.store, s.logger)
}

// Close pushes any pending commits and releases the store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

func (s *Service) flush(ctx context.Context, message string) error {
	data, err := s.engine.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.store.Persist(ctx, data, message); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
