package relocate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"handyman/internal/fileutil"
	"handyman/internal/logging"
	"handyman/internal/metadata"
	"handyman/internal/planner"
	"handyman/internal/services"
)

const completeLabel = "Complete"

// engine holds the state of one run.
type engine struct {
	ctx        context.Context
	job        Job
	fs         afero.Fs
	extractor  *metadata.Extractor
	sink       Sink
	canceller  Canceller
	logger     *slog.Logger
	maxSeconds float64
	videoExts  map[string]struct{}
	imageExts  map[string]struct{}

	// reserved holds dry-run destinations so later items plan around them.
	reserved planner.Reserved

	snap    snapshot
	current int
	start   time.Time
	summary Summary
}

func (e *engine) run() {
	e.logf("Counting files...")
	e.snap = e.count()
	e.summary.Total = e.snap.total
	e.logf("Found %d %s", e.snap.total, e.job.Mode.noun())
	e.logger.Info("relocation counted",
		logging.String("source", e.job.Source),
		logging.String("dest", e.job.Dest),
		logging.Int("total", e.snap.total),
		logging.Bool("dry_run", e.job.DryRun),
	)

	if e.snap.total == 0 {
		e.logf("No %s found.", e.job.Mode.noun())
		e.sink.Progress(ProgressEvent{})
		return
	}

	var finished bool
	switch e.job.Mode {
	case ModeVideos:
		finished = e.walkFiles(e.processVideo)
	case ModeScreenshots:
		finished = e.walkFiles(e.processScreenshot)
	default:
		finished = e.walkByDate()
	}
	if !finished {
		e.summary.Cancelled = true
		e.logger.Info("relocation cancelled",
			logging.Int("processed", e.current),
			logging.Int("total", e.snap.total),
		)
		return
	}

	e.sink.Progress(ProgressEvent{Current: e.snap.total, Total: e.snap.total, Percent: 100, Label: completeLabel})
	suffix := ""
	if e.job.Mode != ModeByDate {
		suffix = "."
	}
	e.logf("Moved %d out of %d %s%s", e.summary.Moved, e.snap.total, e.job.Mode.noun(), suffix)
	e.logger.Info("relocation finished",
		logging.Group("counts",
			logging.Int("moved", e.summary.Moved),
			logging.Int("skipped", e.summary.Skipped),
			logging.Int("failed", e.summary.Failed),
		),
		logging.Duration("elapsed", time.Since(e.start)),
	)
}

// walkFiles visits every snapshot file in order. It returns false when the run
// was cancelled.
func (e *engine) walkFiles(process func(FileTask) bool) bool {
	for _, dir := range e.snap.dirs {
		for _, task := range dir.Files {
			if e.cancelled() {
				return false
			}
			if e.vanished(task) {
				e.advance(1, task.Name)
				continue
			}
			if !process(task) {
				return false
			}
			e.advance(1, task.Name)
		}
	}
	return true
}

func (e *engine) cancelled() bool {
	if e.ctx.Err() != nil {
		return true
	}
	return e.canceller != nil && e.canceller.Cancelled()
}

// vanished logs and counts a candidate that disappeared after counting.
func (e *engine) vanished(task FileTask) bool {
	exists, err := afero.Exists(e.fs, task.Path)
	if err == nil && exists {
		return false
	}
	if err == nil {
		err = fs.ErrNotExist
	}
	e.failf(fmt.Errorf("file no longer available: %w (%w)", err, services.ErrNotFound), "Error processing %s", task.Name)
	return true
}

// advance moves the progress cursor by n items and emits one event.
func (e *engine) advance(n int, label string) {
	e.current += n
	e.summary.Processed = e.current
	percent := 0
	if e.snap.total > 0 {
		percent = e.current * 100 / e.snap.total
	}
	e.sink.Progress(ProgressEvent{Current: e.current, Total: e.snap.total, Percent: percent, Label: label})
}

func (e *engine) logf(format string, args ...any) {
	e.sink.Log(fmt.Sprintf(format, args...))
}

// failf counts one failed item and reports it as "<prefix>: <err>".
func (e *engine) failf(err error, format string, args ...any) {
	e.summary.Failed++
	prefix := fmt.Sprintf(format, args...)
	e.logf("%s: %v", prefix, err)
	hint := "check permissions and free space at the destination"
	if errors.Is(err, services.ErrNotFound) {
		hint = "the file was moved or deleted while the run was in progress"
	}
	logging.WarnWithContext(e.logger, "relocation item failed", "item_failed",
		logging.String("item", prefix),
		logging.String("error_kind", services.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
}

// moveFile resolves a collision-free destination in dir and moves task there.
// In dry-run mode nothing is created or moved.
func (e *engine) moveFile(task FileTask, dir string) (planner.Plan, error) {
	plan, err := planner.Resolve(e.fs, dir, task.Name, e.reserved)
	if err != nil {
		return plan, err
	}
	if e.job.DryRun {
		e.reserved.Add(plan.Path)
		return plan, nil
	}
	if err := fileutil.MoveFile(e.fs, task.Path, plan.Path); err != nil {
		return plan, err
	}
	return plan, nil
}

// relDest renders path relative to the destination root for log lines.
func (e *engine) relDest(path string) string {
	rel, err := filepath.Rel(e.job.Dest, path)
	if err != nil {
		return path
	}
	return rel
}

func (e *engine) moveVerb() string {
	if e.job.DryRun {
		return "Would move"
	}
	return "Moved"
}
