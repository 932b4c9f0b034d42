package relocate

import (
	"fmt"
	"path/filepath"

	"handyman/internal/logging"
	"handyman/internal/planner"
)

// processVideo moves clips no longer than maxSeconds, mirroring their
// directory under the destination. It returns false when the probe was
// interrupted by cancellation; that item is left uncounted.
func (e *engine) processVideo(task FileTask) bool {
	duration, known := e.extractor.Duration(e.ctx, task.Path)
	if e.ctx.Err() != nil {
		return false
	}
	rel := filepath.Join(task.Rel, task.Name)
	e.logger.Debug("video probed",
		logging.String("file", rel),
		logging.Bool("duration_known", known),
		logging.Float64("duration_s", duration),
		logging.Float64("max_s", e.maxSeconds),
	)
	if !known || duration > e.maxSeconds {
		e.summary.Skipped++
		shown := "unknown"
		if known {
			shown = fmt.Sprintf("%.2fs", duration)
		}
		e.logf("Skipped: %s (duration: %s)", rel, shown)
		return true
	}
	e.mirror(task)
	return true
}

// processScreenshot moves images whose embedded metadata mentions a
// screenshot. Other images are skipped without a log line.
func (e *engine) processScreenshot(task FileTask) bool {
	if !e.extractor.IsScreenshot(task.Path) {
		e.summary.Skipped++
		return true
	}
	e.mirror(task)
	return true
}

// mirror moves task to the same relative directory under the destination.
func (e *engine) mirror(task FileTask) {
	rel := filepath.Join(task.Rel, task.Name)
	plan, err := e.moveFile(task, planner.MirrorDir(e.job.Dest, task.Rel))
	if err != nil {
		e.failf(err, "Error processing %s", task.Name)
		return
	}
	e.summary.Moved++
	if plan.Name != task.Name {
		e.logf("%s: %s -> %s", e.moveVerb(), rel, e.relDest(plan.Path))
		return
	}
	e.logf("%s: %s", e.moveVerb(), rel)
}
