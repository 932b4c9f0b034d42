package relocate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"handyman/internal/logging"
)

// FileTask is one candidate captured while counting.
type FileTask struct {
	Path string
	// Rel is the containing directory relative to the source root ("." at the root).
	Rel  string
	Name string
}

// dirTasks groups the candidates found directly inside one directory.
type dirTasks struct {
	Path  string
	Rel   string
	Files []FileTask
}

// snapshot is the counted tree: directories in walk order (parents before
// children, siblings lexically) with their direct candidates.
type snapshot struct {
	dirs  []*dirTasks
	total int
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func (e *engine) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch e.job.Mode {
	case ModeVideos:
		_, ok := e.videoExts[ext]
		return ok
	case ModeScreenshots:
		_, ok := e.imageExts[ext]
		return ok
	default:
		return true
	}
}

// count walks the source tree once and records every candidate. The
// destination subtree is left out when it sits inside the source.
func (e *engine) count() snapshot {
	var snap snapshot
	byPath := map[string]*dirTasks{}

	_ = afero.Walk(e.fs, e.job.Source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			e.logger.Debug("walk entry unreadable", logging.String("path", path), logging.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path == e.job.Dest {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(e.job.Source, path)
			if relErr != nil {
				return filepath.SkipDir
			}
			dir := &dirTasks{Path: path, Rel: rel}
			byPath[path] = dir
			snap.dirs = append(snap.dirs, dir)
			return nil
		}
		if !e.accepts(info.Name()) {
			return nil
		}
		dir, ok := byPath[filepath.Dir(path)]
		if !ok {
			return nil
		}
		dir.Files = append(dir.Files, FileTask{Path: path, Rel: dir.Rel, Name: info.Name()})
		snap.total++
		return nil
	})
	return snap
}

// filesUnder counts snapshot candidates at or below dir.
func (s snapshot) filesUnder(dir string) int {
	n := 0
	for _, d := range s.dirs {
		if d.Path == dir || within(d.Path, dir) {
			n += len(d.Files)
		}
	}
	return n
}
