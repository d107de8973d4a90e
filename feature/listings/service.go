package listings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/feature/listings/history"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunRepository persists sync runs.
type RunRepository interface {
	Save(ctx context.Context, run *history.SyncRun) error
	List(ctx context.Context, limit int) ([]history.SyncRun, error)
	Get(ctx context.Context, id string) (*history.SyncRun, error)
}

// RunArchiver stores run archives.
type RunArchiver interface {
	Put(ctx context.Context, key string, archive *RunArchive) error
	Get(ctx context.Context, key string) (*RunArchive, error)
	Prune(ctx context.Context, before time.Time) (int, error)
}

// SyncOptions selects what a sync run does.
type SyncOptions struct {
	DryRun  bool `json:"dry_run"`
	DoSync  bool `json:"do_sync"`
	DoPurge bool `json:"do_purge"`
}

// Service plans and runs reconciliation passes for the configured target.
type Service struct {
	cfg      Config
	spec     *reconcile.Spec
	mutator  reconcile.Mutator
	runs     RunRepository
	archiver RunArchiver
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithArchiver enables run archives.
func WithArchiver(a RunArchiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithClock replaces the wall clock used for expiry and run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a listing service. runs may be nil to skip run history.
func NewService(cfg Config, live reconcile.LiveSource, store reconcile.RecordSource, mutator reconcile.Mutator, runs RunRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		cfg: cfg,
		spec: &reconcile.Spec{
			Target:   cfg.Target(),
			Live:     live,
			Store:    store,
			CacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		},
		mutator: mutator,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the configured target.
func (s *Service) Target() reconcile.Target {
	return s.spec.Target
}

// DefaultOptions returns the sync options from the configuration.
func (s *Service) DefaultOptions() SyncOptions {
	return SyncOptions{DoSync: s.cfg.DoSync, DoPurge: s.cfg.DoPurge}
}

// Plan builds a plan from the cached snapshot without executing it.
func (s *Service) Plan(ctx context.Context) (*reconcile.ReconcilePlan, error) {
	return s.PlanWith(ctx, s.DefaultOptions())
}

// PlanWith is Plan with explicit action toggles. DryRun is ignored.
func (s *Service) PlanWith(ctx context.Context, opts SyncOptions) (*reconcile.ReconcilePlan, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	snap, err := reconcile.GetOrLoadSnapshot(ctx, s.spec)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildPlan(*snap, s.expiration(), reconcile.ReconcileOptions{
		DoSync:  opts.DoSync,
		DoPurge: opts.DoPurge,
	})
}

// Pass is a freshly loaded snapshot and the plan built from it.
type Pass struct {
	Snapshot *reconcile.Snapshot
	Plan     *reconcile.ReconcilePlan
	Options  SyncOptions
}

// Prepare loads a fresh snapshot and plans it with opts without executing
// anything. The result can be reviewed and handed to Execute.
func (s *Service) Prepare(ctx context.Context, opts SyncOptions) (*Pass, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	snap, err := reconcile.LoadSnapshot(ctx, s.spec)
	if err != nil {
		return nil, err
	}
	plan, err := reconcile.BuildPlan(*snap, s.expiration(), reconcile.ReconcileOptions{
		DoSync:  opts.DoSync,
		DoPurge: opts.DoPurge,
	})
	if err != nil {
		return nil, err
	}
	return &Pass{Snapshot: snap, Plan: plan, Options: opts}, nil
}

// Sync prepares and, unless DryRun is set, executes a pass in one go.
// Every pass is recorded in the run history even when it fails. The returned run
// is nil only when the pass could not start.
func (s *Service) Sync(ctx context.Context, opts SyncOptions) (*history.SyncRun, error) {
	return s.record(ctx, opts, func(ctx context.Context) (*Pass, error) {
		return s.Prepare(ctx, opts)
	})
}

// Execute archives, applies and records exactly the plan of a prepared pass.
func (s *Service) Execute(ctx context.Context, pass *Pass) (*history.SyncRun, error) {
	if pass == nil || pass.Snapshot == nil || pass.Plan == nil {
		return nil, ErrPassIncomplete
	}
	return s.record(ctx, pass.Options, func(context.Context) (*Pass, error) {
		return pass, nil
	})
}

// record runs one pass under the sync lock and saves it to the run history.
func (s *Service) record(ctx context.Context, opts SyncOptions, prepare func(context.Context) (*Pass, error)) (*history.SyncRun, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	run := &history.SyncRun{
		ID:        uuid.NewString(),
		Target:    s.spec.Target.Key(),
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	l := logger.WithRun(s.logger, run.ID, run.Target)
	l.Info("Sync started",
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("do_sync", opts.DoSync),
		zap.Bool("do_purge", opts.DoPurge))

	err := s.run(ctx, run, opts, prepare, l)
	if err != nil {
		run.Failed = true
		run.Error = err.Error()
	}
	run.FinishedAt = s.now()

	if s.runs != nil {
		if saveErr := s.runs.Save(context.WithoutCancel(ctx), run); saveErr != nil {
			l.Error("Failed to record sync run", zap.Error(saveErr))
			err = errors.Join(err, saveErr)
		}
	}

	if err != nil {
		l.Error("Sync failed", zap.Int("executed", run.Executed), zap.Error(err))
	} else {
		l.Info("Sync finished",
			zap.Int("executed", run.Executed),
			zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)))
	}
	return run, err
}

func (s *Service) run(ctx context.Context, run *history.SyncRun, opts SyncOptions, prepare func(context.Context) (*Pass, error), l *zap.Logger) error {
	pass, err := prepare(ctx)
	if err != nil {
		return err
	}
	run.ApplySummary(pass.Plan.Summary)

	if s.archiver != nil {
		key := ArchiveKey(run.ID, run.StartedAt)
		if err := s.archiver.Put(ctx, key, &RunArchive{RunID: run.ID, Snapshot: pass.Snapshot, Plan: pass.Plan}); err != nil {
			l.Warn("Failed to archive run", zap.Error(err))
		} else {
			run.ArchiveKey = key
		}
	}

	if opts.DryRun {
		return nil
	}

	executed, err := reconcile.ApplyPlan(ctx, s.mutator, pass.Plan, reconcile.ReconcileOptions{
		DoSync:    opts.DoSync,
		DoPurge:   opts.DoPurge,
		Confirmed: true,
	})
	run.Executed = executed
	if executed > 0 || err != nil {
		reconcile.InvalidateSnapshot(s.spec)
	}
	return err
}

// PruneArchives removes archives older than the configured retention.
func (s *Service) PruneArchives(ctx context.Context) (int, error) {
	if s.archiver == nil || s.cfg.ArchiveRetentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.cfg.ArchiveRetentionDays)
	return s.archiver.Prune(ctx, cutoff)
}

// Runs returns the most recent runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]history.SyncRun, error) {
	if s.runs == nil {
		return []history.SyncRun{}, nil
	}
	return s.runs.List(ctx, limit)
}

// Run returns one run.
func (s *Service) Run(ctx context.Context, id string) (*history.SyncRun, error) {
	if s.runs == nil {
		return nil, history.ErrNotFound
	}
	return s.runs.Get(ctx, id)
}

// Archive returns the archived snapshot and plan of a run.
func (s *Service) Archive(ctx context.Context, id string) (*RunArchive, error) {
	if s.archiver == nil {
		return nil, ErrArchiveDisabled
	}
	run, err := s.Run(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.ArchiveKey == "" {
		return nil, ErrArchiveNotFound
	}
	archive, err := s.archiver.Get(ctx, run.ArchiveKey)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return archive, nil
}

func (s *Service) expiration() *reconcile.Expiration {
	return reconcile.NewExpiration(s.now(), s.cfg.ExpirationDays)
}
