package relocate

import (
	"fmt"
	"path/filepath"
	"strings"

	"handyman/internal/services"
)

// Mode selects the classification rule for a run.
type Mode string

const (
	ModeVideos      Mode = "videos"
	ModeScreenshots Mode = "screenshots"
	ModeByDate      Mode = "bydate"
)

// ParseMode accepts the canonical names plus a few spellings used on the CLI.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "videos", "video", "short-videos":
		return ModeVideos, nil
	case "screenshots", "screenshot":
		return ModeScreenshots, nil
	case "bydate", "by-date", "date":
		return ModeByDate, nil
	default:
		return "", fmt.Errorf("unknown mode %q", value)
	}
}

// noun names the items a mode counts, as used in log lines.
func (m Mode) noun() string {
	switch m {
	case ModeVideos:
		return "video files"
	case ModeScreenshots:
		return "images"
	default:
		return "files"
	}
}

// Job describes one relocation request.
type Job struct {
	Mode   Mode
	Source string
	Dest   string
	// DryRun plans and logs every move without touching the filesystem.
	DryRun bool
	// MaxSeconds overrides rules.short_video_max_seconds when positive.
	MaxSeconds float64
}

// normalize makes Source and Dest absolute and clean, and rejects jobs that
// cannot be run.
func (j Job) normalize() (Job, error) {
	switch j.Mode {
	case ModeVideos, ModeScreenshots, ModeByDate:
	default:
		return j, services.Wrap(services.ErrValidation, "relocate", "validate job", fmt.Sprintf("unknown mode %q", j.Mode), nil)
	}
	if strings.TrimSpace(j.Source) == "" || strings.TrimSpace(j.Dest) == "" {
		return j, services.Wrap(services.ErrValidation, "relocate", "validate job", "source and destination are required", nil)
	}
	if j.MaxSeconds < 0 {
		return j, services.Wrap(services.ErrValidation, "relocate", "validate job", "max seconds must not be negative", nil)
	}

	source, err := filepath.Abs(j.Source)
	if err != nil {
		return j, services.Wrap(services.ErrValidation, "relocate", "resolve source", j.Source, err)
	}
	dest, err := filepath.Abs(j.Dest)
	if err != nil {
		return j, services.Wrap(services.ErrValidation, "relocate", "resolve destination", j.Dest, err)
	}
	if source == dest {
		return j, services.Wrap(services.ErrValidation, "relocate", "validate job", "source and destination are the same directory", nil)
	}
	if within(source, dest) {
		return j, services.Wrap(services.ErrValidation, "relocate", "validate job", "destination contains the source directory", nil)
	}
	j.Source = source
	j.Dest = dest
	return j, nil
}

// within reports whether path is strictly inside dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
