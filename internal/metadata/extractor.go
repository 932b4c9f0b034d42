package metadata

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"handyman/internal/logging"
	"handyman/internal/services"
)

// DateSource records where a capture date came from.
type DateSource string

const (
	DateSourceNone     DateSource = ""
	DateSourceEmbedded DateSource = "embedded"
	DateSourceFilename DateSource = "filename"
)

// Extractor classifies files on a filesystem.
type Extractor struct {
	fs     afero.Fs
	prober Prober
	logger *slog.Logger
}

// NewExtractor builds an Extractor. A nil prober reports every duration as unknown.
func NewExtractor(fsys afero.Fs, prober Prober, logger *slog.Logger) *Extractor {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Extractor{
		fs:     fsys,
		prober: prober,
		logger: logging.NewComponentLogger(logger, "metadata"),
	}
}

// Duration probes a video. The boolean is false when the duration is unknown:
// no prober, a failed probe, or unusable output.
func (e *Extractor) Duration(ctx context.Context, path string) (float64, bool) {
	if e.prober == nil {
		return 0, false
	}
	seconds, err := e.prober.Duration(ctx, path)
	if err != nil {
		e.logger.Debug("duration probe failed",
			logging.String("path", path),
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
		return 0, false
	}
	return seconds, true
}

// EmbeddedDate returns the capture date stored in the file's EXIF block.
func (e *Extractor) EmbeddedDate(path string) (Date, bool) {
	embedded, err := ReadEmbedded(e.fs, path)
	if err != nil {
		e.logger.Debug("embedded metadata unreadable",
			logging.String("path", path),
			logging.Error(err),
		)
		return Date{}, false
	}
	return embedded.CaptureDate()
}

// CaptureDate resolves a file's date from embedded metadata, then from its
// name.
func (e *Extractor) CaptureDate(path string) (Date, DateSource) {
	if d, ok := e.EmbeddedDate(path); ok {
		return d, DateSourceEmbedded
	}
	if d, ok := DateFromFilename(filepath.Base(path)); ok {
		return d, DateSourceFilename
	}
	return Date{}, DateSourceNone
}

// IsScreenshot reports whether any embedded value mentions "screenshot".
// Unreadable files are not screenshots.
func (e *Extractor) IsScreenshot(path string) bool {
	embedded, err := ReadEmbedded(e.fs, path)
	if err != nil {
		return false
	}
	for _, value := range embedded.Values() {
		if strings.Contains(strings.ToLower(value), "screenshot") {
			return true
		}
	}
	return false
}

var datedFolderPattern = regexp.MustCompile(`^\d{4}[.-]\d{2}[.-]\d{2}`)

// FolderEligible reports whether a folder may be moved as a unit. Folders
// already named YYYY-MM-DD or YYYY.MM.DD are considered organized.
func FolderEligible(name string) bool {
	return !datedFolderPattern.MatchString(name)
}

// FolderDate returns the embedded date of the first file in names (taken in
// the given order) that has one. Filenames are not consulted.
func (e *Extractor) FolderDate(dir string, names []string) (Date, bool) {
	for _, name := range names {
		if d, ok := e.EmbeddedDate(filepath.Join(dir, name)); ok {
			return d, true
		}
	}
	return Date{}, false
}
