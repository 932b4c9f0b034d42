package relocate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"handyman/internal/config"
	"handyman/internal/deps"
	"handyman/internal/logging"
	"handyman/internal/metadata"
	"handyman/internal/planner"
	"handyman/internal/preflight"
	"handyman/internal/services"
)

// eventBuffer sizes the run event channel so short bursts of log lines do not
// stall the worker while the caller redraws.
const eventBuffer = 64

// Relocator starts relocation runs.
type Relocator struct {
	cfg       *config.Config
	fs        afero.Fs
	prober    metadata.Prober
	base      *slog.Logger
	logger    *slog.Logger
	preflight bool
}

// Option customizes a Relocator.
type Option func(*Relocator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relocator) { r.base = logger }
}

// WithProber replaces the ffprobe-backed duration prober.
func WithProber(p metadata.Prober) Option {
	return func(r *Relocator) { r.prober = p }
}

// WithFilesystem runs against fsys instead of the host filesystem. Preflight
// directory checks only apply to the host filesystem and are skipped.
func WithFilesystem(fsys afero.Fs) Option {
	return func(r *Relocator) {
		r.fs = fsys
		r.preflight = false
	}
}

// New constructs a Relocator from configuration.
func New(cfg *config.Config, opts ...Option) *Relocator {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	r := &Relocator{
		cfg:       cfg,
		fs:        afero.NewOsFs(),
		preflight: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.prober == nil {
		r.prober = metadata.FFprobe{
			Binary:  deps.ResolveFFprobe(cfg.Probe.FFprobeBinary).Command,
			Timeout: cfg.ProbeTimeout(),
		}
	}
	r.logger = logging.NewComponentLogger(r.base, "relocate")
	return r
}

// Run is a relocation executing on a background worker.
type Run struct {
	id     string
	job    Job
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	summary Summary
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Job returns the normalized job being executed.
func (r *Run) Job() Job { return r.job }

// Events streams progress and log events, ending with a DoneEvent. The channel
// is closed when the worker exits. Callers must drain it until closed.
func (r *Run) Events() <-chan Event { return r.events }

// Cancel requests cooperative cancellation. The worker stops before the next
// item; an in-flight move or probe is allowed to finish.
func (r *Run) Cancel() { r.cancel() }

// Wait blocks until the worker exits and returns its summary.
func (r *Run) Wait() Summary {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Start validates job, takes the pair lock and launches the worker. The run
// stops early when ctx is cancelled or Run.Cancel is called.
func (rl *Relocator) Start(ctx context.Context, job Job) (*Run, error) {
	return rl.start(ctx, job, nil)
}

// Stream runs job on a background worker and dispatches its events to cb on
// the calling goroutine until the run finishes. The worker polls
// cb.IsCancelled before every item, so it is called from both goroutines
// and must be safe for concurrent use.
func (rl *Relocator) Stream(ctx context.Context, job Job, cb Callbacks) (Summary, error) {
	run, err := rl.start(ctx, job, cb)
	if err != nil {
		return Summary{}, err
	}
	return Drain(run, cb), nil
}

func (rl *Relocator) start(ctx context.Context, job Job, poll Canceller) (*Run, error) {
	job, lock, err := rl.prepare(job)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		id:     uuid.NewString(),
		job:    job,
		events: make(chan Event, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	runCtx = services.WithMode(services.WithRunID(runCtx, run.id), string(job.Mode))
	sink := &channelSink{ctx: runCtx, events: run.events, poll: poll}

	go func() {
		defer close(run.done)
		defer close(run.events)
		defer cancel()
		defer rl.release(runCtx, lock)

		summary := rl.execute(runCtx, run.id, job, sink)
		run.mu.Lock()
		run.summary = summary
		run.mu.Unlock()
		run.events <- DoneEvent{Summary: summary}
	}()
	return run, nil
}

// Execute runs job synchronously, reporting to sink. If sink implements
// Canceller it is polled before every item alongside ctx.
func (rl *Relocator) Execute(ctx context.Context, job Job, sink Sink) (Summary, error) {
	job, lock, err := rl.prepare(job)
	if err != nil {
		return Summary{}, err
	}
	runID := uuid.NewString()
	ctx = services.WithMode(services.WithRunID(ctx, runID), string(job.Mode))
	defer rl.release(ctx, lock)
	return rl.execute(ctx, runID, job, sink), nil
}

func (rl *Relocator) prepare(job Job) (Job, *flock.Flock, error) {
	job, err := job.normalize()
	if err != nil {
		return job, nil, err
	}
	if rl.preflight {
		if err := preflight.Err(preflight.RunAll(job.Source, job.Dest)); err != nil {
			return job, nil, err
		}
	}
	lock, err := acquireLock(rl.cfg.LockDir(), job.Source, job.Dest)
	if err != nil {
		return job, nil, err
	}
	return job, lock, nil
}

func (rl *Relocator) release(ctx context.Context, lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, rl.logger), "failed to release run lock", "lock_release_failed",
			logging.String("lock", lock.Path()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next run on this pair may report busy until the process exits"),
		)
	}
}

func (rl *Relocator) execute(ctx context.Context, runID string, job Job, sink Sink) Summary {
	if sink == nil {
		sink = Callbacks{}
	}
	maxSeconds := rl.cfg.Rules.ShortVideoMaxSeconds
	if job.MaxSeconds > 0 {
		maxSeconds = job.MaxSeconds
	}
	e := &engine{
		ctx:        ctx,
		job:        job,
		fs:         rl.fs,
		extractor:  metadata.NewExtractor(rl.fs, rl.prober, logging.WithContext(ctx, rl.base)),
		sink:       sink,
		logger:     logging.WithContext(ctx, rl.logger),
		maxSeconds: maxSeconds,
		videoExts:  extensionSet(rl.cfg.Rules.VideoExtensions),
		imageExts:  extensionSet(rl.cfg.Rules.ImageExtensions),
		reserved:   planner.Reserved{},
		summary:    Summary{RunID: runID, Mode: job.Mode, DryRun: job.DryRun},
	}
	if c, ok := sink.(Canceller); ok {
		e.canceller = c
	}
	e.start = time.Now()
	e.run()
	e.summary.Elapsed = time.Since(e.start)
	return e.summary
}

// channelSink forwards engine output onto a run's event channel. Once the run
// is cancelled, events that cannot be delivered immediately are dropped so the
// worker can wind down.
type channelSink struct {
	ctx    context.Context
	events chan<- Event
	poll   Canceller
}

func (s *channelSink) send(ev Event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *channelSink) Progress(p ProgressEvent) { s.send(p) }

func (s *channelSink) Log(message string) { s.send(LogEvent{Message: message}) }

func (s *channelSink) Cancelled() bool { return s.poll != nil && s.poll.Cancelled() }
