package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mwaldt/cfpbflow/internal/domain"
	"github.com/mwaldt/cfpbflow/internal/logger"
	"github.com/mwaldt/cfpbflow/internal/state"
)

// Extractor fetches the complete complaint set for one company and window.
// Pagination, rate limiting, and retries live behind this boundary.
type Extractor interface {
	FetchWindow(ctx context.Context, company string, window domain.DateRange) ([]domain.Complaint, error)
}

// Batch is one company's extraction result for a window, keyed by a batch ID
// so downstream storage can deduplicate at-least-once reruns.
type Batch struct {
	ID      string
	Company string
	Window  domain.DateRange
	Records []domain.Complaint
}

// Loader persists an extraction batch into raw storage. Loading the same
// batch twice must be idempotent.
type Loader interface {
	LoadBatch(ctx context.Context, batch *Batch) error
}

// Transformer rebuilds the analytical models after a successful load.
type Transformer interface {
	Run(ctx context.Context) error
	Test(ctx context.Context) []error
}

// RunRecorder persists the audit row for a pipeline run.
type RunRecorder interface {
	Record(ctx context.Context, run *domain.PipelineRun) error
}

// Settings are the immutable run inputs, resolved once at startup.
type Settings struct {
	StartDate domain.Date
	Companies []string
}

// RunOptions are the per-invocation flags.
type RunOptions struct {
	// Reset clears the checkpoint before computing the window, forcing a
	// full backfill from StartDate.
	Reset bool

	// DryRun computes and logs the window without extracting or loading.
	DryRun bool
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	RunID         string
	Window        *domain.DateRange // nil for a no-op run
	Companies     int
	LoadedRecords int64
	Status        domain.RunStatus
	StartTime     time.Time
	EndTime       time.Time
}

// Runner drives one pipeline run: compute window, extract, load, advance the
// checkpoint, then transform. Steps execute as a single linear sequence; any
// extraction or load failure aborts the run before the checkpoint is written,
// so the next run retries the same window (at-least-once).
type Runner struct {
	settings    Settings
	store       state.Store
	extractor   Extractor
	loader      Loader
	transformer Transformer
	recorder    RunRecorder
	logger      *logger.Logger
	now         func() domain.Date
}

// RunnerDeps wires the collaborators into a Runner. Transformer and Recorder
// are optional; Now defaults to the local calendar day.
type RunnerDeps struct {
	Settings    Settings
	Store       state.Store
	Extractor   Extractor
	Loader      Loader
	Transformer Transformer
	Recorder    RunRecorder
	Logger      *logger.Logger
	Now         func() domain.Date
}

// NewRunner constructs the orchestration component.
func NewRunner(deps RunnerDeps) *Runner {
	now := deps.Now
	if now == nil {
		now = func() domain.Date { return domain.Today(nil) }
	}
	log := deps.Logger
	if log == nil {
		log = logger.GetDefault()
	}
	return &Runner{
		settings:    deps.Settings,
		store:       deps.Store,
		extractor:   deps.Extractor,
		loader:      deps.Loader,
		transformer: deps.Transformer,
		recorder:    deps.Recorder,
		logger:      log,
		now:         now,
	}
}

// Run executes one pipeline run and returns its stats. On error the returned
// stats reflect progress up to the failed step; the checkpoint is only ever
// advanced after every company has loaded successfully.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunStats, error) {
	stats := &RunStats{
		RunID:     uuid.New().String(),
		Companies: len(r.settings.Companies),
		StartTime: time.Now(),
		Status:    domain.RunStatusFailed,
	}
	ctx = logger.SetRunID(ctx, stats.RunID)

	if opts.Reset {
		if err := r.store.Reset(); err != nil {
			return stats, &StateWriteError{Err: err}
		}
		logger.CtxInfo(ctx, "State reset, next window starts from %s", r.settings.StartDate)
	}

	st, err := r.store.Read()
	if err != nil {
		return stats, &StateWriteError{Err: err}
	}

	today := r.now()
	window, err := NextWindow(r.settings.StartDate, today, st)
	if err != nil {
		return stats, err
	}

	if window == nil {
		logger.CtxInfo(ctx, "No new data to load, last loaded date is %s", st.LastLoadedDate)
		stats.Status = domain.RunStatusNoop
		stats.EndTime = time.Now()
		r.record(ctx, stats, nil)
		return stats, nil
	}
	stats.Window = window

	logger.CtxInfo(ctx, "Loading window %s for %d companies", window, len(r.settings.Companies))

	if opts.DryRun {
		logger.CtxInfo(ctx, "Dry run, skipping extract and load")
		stats.Status = domain.RunStatusNoop
		stats.EndTime = time.Now()
		return stats, nil
	}

	for _, company := range r.settings.Companies {
		cctx := logger.SetCompany(ctx, company)

		records, err := r.extractor.FetchWindow(cctx, company, *window)
		if err != nil {
			stats.EndTime = time.Now()
			werr := &ExtractError{Company: company, Err: err}
			r.record(ctx, stats, werr)
			return stats, werr
		}

		batch := &Batch{
			ID:      uuid.New().String(),
			Company: company,
			Window:  *window,
			Records: records,
		}
		cctx = logger.SetBatchID(cctx, batch.ID)

		if err := r.loader.LoadBatch(cctx, batch); err != nil {
			stats.EndTime = time.Now()
			werr := &LoadError{Company: company, Err: err}
			r.record(ctx, stats, werr)
			return stats, werr
		}

		stats.LoadedRecords += int64(len(records))
		logger.With(logger.Fields{
			logger.FieldCount: len(records),
		}).WithCompany(company).Info(cctx, "Loaded batch for %q", company)
	}

	// All companies loaded; only now is progress durable.
	if err := r.store.Write(state.Checkpointed(window.End)); err != nil {
		stats.EndTime = time.Now()
		werr := &StateWriteError{Err: err}
		r.record(ctx, stats, werr)
		return stats, werr
	}
	logger.CtxInfo(ctx, "State updated: last_loaded_date = %s", window.End)

	r.transform(ctx)

	stats.Status = domain.RunStatusSucceeded
	stats.EndTime = time.Now()
	r.record(ctx, stats, nil)

	logger.With(logger.Fields{
		logger.FieldCount:      stats.LoadedRecords,
		logger.FieldDurationMs: stats.EndTime.Sub(stats.StartTime).Milliseconds(),
		logger.FieldStatus:     string(stats.Status),
	}).WithWindow(window.String()).Info(ctx, "Run completed")

	return stats, nil
}

// transform rebuilds the marts. The checkpoint is already advanced at this
// point, so a transform failure does not fail the run: the next run rebuilds
// the models from the raw table anyway.
func (r *Runner) transform(ctx context.Context) {
	if r.transformer == nil {
		return
	}

	if err := r.transformer.Run(ctx); err != nil {
		logger.CtxError(ctx, "Transform models failed: %v", err)
		return
	}

	for _, err := range r.transformer.Test(ctx) {
		logger.CtxWarn(ctx, "Transform data test failed: %v", err)
	}
}

// record writes the audit row. Recorder failures are logged and never mask
// the run's own outcome.
func (r *Runner) record(ctx context.Context, stats *RunStats, runErr error) {
	if r.recorder == nil {
		return
	}

	run := &domain.PipelineRun{
		ID:             stats.RunID,
		Status:         stats.Status,
		TotalCompanies: stats.Companies,
		LoadedRecords:  stats.LoadedRecords,
		StartedAt:      stats.StartTime,
	}
	if stats.Window != nil {
		run.WindowStart = stats.Window.Start
		run.WindowEnd = stats.Window.End
	}
	if !stats.EndTime.IsZero() {
		completed := stats.EndTime
		run.CompletedAt = &completed
	}
	if runErr != nil {
		run.ErrorLog = runErr.Error()
	}

	if err := r.recorder.Record(ctx, run); err != nil {
		logger.CtxError(ctx, "Failed to record pipeline run: %v", err)
	}
}
