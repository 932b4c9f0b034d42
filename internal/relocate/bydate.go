package relocate

import (
	"path/filepath"

	"handyman/internal/fileutil"
	"handyman/internal/logging"
	"handyman/internal/metadata"
	"handyman/internal/planner"
)

type folderOutcome int

const (
	folderNotMoved folderOutcome = iota
	folderMoved
	folderHandled
)

// walkByDate visits directories top-down. A folder whose contents carry an
// embedded date is relocated whole; everything else is bucketed file by file.
// It returns false when the run was cancelled.
func (e *engine) walkByDate() bool {
	var relocated []string
	for _, dir := range e.snap.dirs {
		if insideAny(dir.Path, relocated) {
			continue
		}
		if e.cancelled() {
			return false
		}
		if e.folderCandidate(dir) {
			if date, ok := e.extractor.FolderDate(dir.Path, taskNames(dir.Files)); ok {
				switch e.moveFolder(dir, date) {
				case folderMoved:
					relocated = append(relocated, dir.Path)
					continue
				case folderHandled:
					continue
				}
			}
		}
		for _, task := range dir.Files {
			if e.cancelled() {
				return false
			}
			if !e.vanished(task) {
				e.processDated(task)
			}
			e.advance(1, task.Name)
		}
	}
	return true
}

// folderCandidate reports whether dir may be relocated as a unit. The source
// root and folders that contain the destination never are.
func (e *engine) folderCandidate(dir *dirTasks) bool {
	if dir.Path == e.job.Source || len(dir.Files) == 0 {
		return false
	}
	if within(e.job.Dest, dir.Path) {
		return false
	}
	return metadata.FolderEligible(filepath.Base(dir.Path))
}

// moveFolder relocates dir under its date directory. Members of the folder
// (direct and nested) advance progress in a single event.
func (e *engine) moveFolder(dir *dirTasks, date metadata.Date) folderOutcome {
	name := filepath.Base(dir.Path)
	target := planner.FolderDir(e.job.Dest, date, name)
	destRel := e.relDest(target)

	exists, err := planner.Exists(e.fs, filepath.Dir(target), filepath.Base(target), e.reserved)
	if err != nil {
		e.failFolder(dir, err)
		return folderHandled
	}
	if exists {
		e.summary.Skipped += len(dir.Files)
		e.logf("Folder already exists at destination, skipped: %s", dir.Rel)
		e.logger.Info("folder destination exists",
			logging.String("folder", dir.Rel),
			logging.String("dest", destRel),
		)
		e.advance(len(dir.Files), name)
		return folderHandled
	}

	if e.job.DryRun {
		e.reserved.Add(target)
	} else if err := fileutil.MoveDir(e.fs, dir.Path, target); err != nil {
		e.failFolder(dir, err)
		return folderHandled
	}
	members := e.snap.filesUnder(dir.Path)
	e.summary.Moved += members
	if e.job.DryRun {
		e.logf("Would move entire folder: %s -> %s", dir.Rel, destRel)
	} else {
		e.logf("Moved entire folder: %s -> %s", dir.Rel, destRel)
	}
	e.advance(members, name)
	return folderMoved
}

func (e *engine) failFolder(dir *dirTasks, err error) {
	e.failf(err, "Error moving folder %s", dir.Rel)
	// failf counted one; the folder's direct files all stay behind
	e.summary.Failed += len(dir.Files) - 1
	e.advance(len(dir.Files), filepath.Base(dir.Path))
}

// processDated moves a single file into its capture-date directory.
func (e *engine) processDated(task FileTask) {
	date, source := e.extractor.CaptureDate(task.Path)
	if source == metadata.DateSourceNone {
		e.summary.Skipped++
		e.logf("Could not determine date for file: %s", task.Name)
		return
	}
	plan, err := e.moveFile(task, planner.DateDir(e.job.Dest, date))
	if err != nil {
		e.failf(err, "Error moving %s", task.Name)
		return
	}
	e.summary.Moved++
	e.logf("%s: %s -> %s", e.moveVerb(), task.Name, e.relDest(plan.Path))
	e.logger.Debug("file dated",
		logging.String("file", task.Name),
		logging.String("date", date.String()),
		logging.String("date_source", string(source)),
	)
}

func taskNames(tasks []FileTask) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return names
}

func insideAny(path string, roots []string) bool {
	for _, root := range roots {
		if within(path, root) {
			return true
		}
	}
	return false
}
