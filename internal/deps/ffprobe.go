package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ffprobeFallbacks lists install locations checked when ffprobe is not on PATH.
// Launchers such as Finder or cron frequently run with a minimal PATH that
// omits Homebrew prefixes.
var ffprobeFallbacks = []string{
	"/opt/homebrew/bin/ffprobe",
	"/usr/local/bin/ffprobe",
	"/opt/homebrew/opt/ffmpeg/bin/ffprobe",
}

// ResolveFFprobe reports the ffprobe binary the duration probe will execute.
//
// A configured value (from config or FFPROBE_PATH) is used as-is when it
// resolves. Otherwise "ffprobe" is looked up on PATH, followed by the fixed
// fallback locations. When nothing resolves, Command holds the configured
// value or "ffprobe" so callers still have something to run and report.
func ResolveFFprobe(configured string) Status {
	result := Status{
		Name:        "FFprobe",
		Description: "Reads video durations",
	}

	configured = strings.TrimSpace(configured)
	if configured != "" {
		result.Command = configured
		if resolved, err := exec.LookPath(configured); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
		result.Detail = fmt.Sprintf("configured binary %q not found", configured)
		return result
	}

	if resolved, err := exec.LookPath("ffprobe"); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}
	for _, candidate := range ffprobeFallbacks {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			result.Command = candidate
			result.Available = true
			return result
		}
	}

	result.Command = "ffprobe"
	result.Detail = `binary "ffprobe" not found on PATH or in Homebrew locations`
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
