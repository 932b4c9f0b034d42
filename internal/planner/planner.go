// Package planner computes where relocated files and folders land.
//
// Directory helpers are pure path arithmetic. Resolve and Exists touch the
// filesystem: they look for the first free name so that an existing file is
// never overwritten. Names keep their source bytes; occupancy is compared in
// Unicode NFC so "Café" spelled decomposed collides with its composed twin.
package planner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"handyman/internal/metadata"
)

// Plan is a resolved destination for a single file.
type Plan struct {
	Dir  string
	Name string
	Path string
}

// DateDir returns <root>/<YYYY>/<MM>/<DD>.
func DateDir(root string, d metadata.Date) string {
	return filepath.Join(root,
		fmt.Sprintf("%04d", d.Year),
		fmt.Sprintf("%02d", int(d.Month)),
		fmt.Sprintf("%02d", d.Day),
	)
}

// FolderDir returns <root>/<YYYY>/<MM>/<DD>/<label> for a folder relocated as a unit.
func FolderDir(root string, d metadata.Date, folder string) string {
	return filepath.Join(DateDir(root, d), FolderLabel(folder))
}

// MirrorDir returns <root>/<rel>, keeping the source subpath.
func MirrorDir(root, rel string) string {
	if rel == "" || rel == "." {
		return root
	}
	return filepath.Join(root, rel)
}

var dayPrefixPattern = regexp.MustCompile(`^\d{2}(\.\d{2})?(\s+|$)`)

// FolderLabel strips a leading "DD" or "DD.MM" day prefix from a folder name.
// The date directories already carry the day. When nothing is left the
// original name is kept.
func FolderLabel(folder string) string {
	label := strings.TrimSpace(dayPrefixPattern.ReplaceAllString(folder, ""))
	if label == "" {
		return folder
	}
	return label
}

// Reserved holds destination paths promised to earlier items of a run but
// not yet on disk, as in a dry run. A nil Reserved holds nothing.
type Reserved map[string]struct{}

// Add reserves path.
func (r Reserved) Add(path string) {
	r[norm.NFC.String(path)] = struct{}{}
}

// Has reports whether path is reserved.
func (r Reserved) Has(path string) bool {
	_, ok := r[norm.NFC.String(path)]
	return ok
}

// Resolve picks the first free path for name inside dir: name.ext, then
// name_1.ext, name_2.ext and so on. Leading-dot names such as ".hidden" are
// treated as having no extension.
func Resolve(fsys afero.Fs, dir, name string, reserved Reserved) (Plan, error) {
	entries, err := dirEntries(fsys, dir)
	if err != nil {
		return Plan{}, err
	}
	free := func(candidate string) bool {
		_, taken := entries[norm.NFC.String(candidate)]
		return !taken && !reserved.Has(filepath.Join(dir, candidate))
	}

	if free(name) {
		return Plan{Dir: dir, Name: name, Path: filepath.Join(dir, name)}, nil
	}
	base, ext := splitExt(name)
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s_%d%s", base, n, ext)
		if free(next) {
			return Plan{Dir: dir, Name: next, Path: filepath.Join(dir, next)}, nil
		}
	}
}

// Exists reports whether dir already holds name, or it is reserved.
func Exists(fsys afero.Fs, dir, name string, reserved Reserved) (bool, error) {
	if reserved.Has(filepath.Join(dir, name)) {
		return true, nil
	}
	entries, err := dirEntries(fsys, dir)
	if err != nil {
		return false, err
	}
	_, ok := entries[norm.NFC.String(name)]
	return ok, nil
}

// dirEntries lists dir as a set of NFC names. A missing dir is empty.
func dirEntries(fsys afero.Fs, dir string) (map[string]struct{}, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("check %s: %w", dir, err)
	}
	entries := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		entries[norm.NFC.String(info.Name())] = struct{}{}
	}
	return entries, nil
}

func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" || strings.Trim(base, ".") == "" {
		return name, ""
	}
	return base, ext
}
