package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"handyman/internal/config"
	"handyman/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckSourceDirectory verifies that the source tree exists and can be listed.
// Files are moved out of it, so write access is required as well.
func CheckSourceDirectory(path string) Result {
	return CheckDirectoryAccess("Source directory", path)
}

// CheckDestinationDirectory verifies the destination root. A missing root is
// accepted when its nearest existing ancestor is writable, since the engine
// creates destination directories on demand.
func CheckDestinationDirectory(path string) Result {
	const name = "Destination directory"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "(error: not set)"}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		ancestor := nearestExisting(path)
		if ancestor == "" {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	return CheckDirectoryAccess(name, path)
}

// CheckFFprobe reports whether the duration probe binary can be found.
func CheckFFprobe(cfg *config.Config) Result {
	configured := ""
	if cfg != nil {
		configured = cfg.Probe.FFprobeBinary
	}
	status := deps.ResolveFFprobe(configured)
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	return Result{Name: status.Name, Detail: status.Detail}
}

// CheckSystemDeps evaluates the external binaries used by the relocation modes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	configured := ""
	if cfg != nil {
		configured = cfg.Probe.FFprobeBinary
	}
	ffprobe := deps.ResolveFFprobe(configured)
	return deps.CheckBinaries([]deps.Requirement{{
		Name:        ffprobe.Name,
		Command:     ffprobe.Command,
		Description: "Required for short video detection",
	}})
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "(error: not set)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

func nearestExisting(path string) string {
	current := filepath.Clean(path)
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		if info, err := os.Stat(parent); err == nil {
			if info.IsDir() {
				return parent
			}
			return ""
		}
		current = parent
	}
}
