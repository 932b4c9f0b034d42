package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"handyman/internal/services"
)

// waitDelay bounds how long Run waits for output pipes after ctx kills ffprobe.
const waitDelay = 2 * time.Second

// ErrNoDuration reports that ffprobe ran but printed no usable duration.
var ErrNoDuration = errors.New("ffprobe: duration unavailable")

// Args returns the ffprobe argument list used to read the container duration.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// Duration executes ffprobe against path and returns the container duration in
// seconds. A non-zero exit, unparseable output, or a cancelled context all
// return an error; callers treat those files as having unknown duration.
func Duration(ctx context.Context, binary string, path string) (float64, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("ffprobe duration: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("ffprobe duration: %w", ctxErr)
		}
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "duration", strings.TrimSpace(stderr.String()), err)
	}
	return ParseDuration(stdout.String())
}

// ParseDuration parses the first line of ffprobe's duration output.
func ParseDuration(output string) (float64, error) {
	line := strings.TrimSpace(output)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" || strings.EqualFold(line, "N/A") {
		return 0, ErrNoDuration
	}
	value, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, line)
	}
	return value, nil
}
