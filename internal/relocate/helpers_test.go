package relocate

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"handyman/internal/config"
	"handyman/internal/metadata"
)

type recorder struct {
	mu          sync.Mutex
	progress    []ProgressEvent
	logs        []string
	cancelAfter int
}

func (r *recorder) Progress(p ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *recorder) Log(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, message)
}

func (r *recorder) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelAfter > 0 && len(r.progress) >= r.cancelAfter
}

func (r *recorder) hasLog(message string) bool {
	for _, l := range r.logs {
		if l == message {
			return true
		}
	}
	return false
}

func (r *recorder) last() ProgressEvent {
	if len(r.progress) == 0 {
		return ProgressEvent{Current: -1}
	}
	return r.progress[len(r.progress)-1]
}

func (r *recorder) assertMonotonic(t *testing.T) {
	t.Helper()
	prev := -1
	for _, p := range r.progress {
		if p.Percent < prev {
			t.Fatalf("percent decreased: %+v", r.progress)
		}
		prev = p.Percent
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(cfg.Paths.StateDir, "logs")
	return &cfg
}

// durations returns a prober answering from a name -> seconds table; names
// not in the table fail to probe.
func durations(table map[string]float64) metadata.Prober {
	return metadata.ProberFunc(func(_ context.Context, path string) (float64, error) {
		if d, ok := table[filepath.Base(path)]; ok {
			return d, nil
		}
		return 0, fmt.Errorf("probe %s: invalid data", path)
	})
}

func touch(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if data == nil {
		data = []byte(filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err = %v", path, err)
	}
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

type exifField struct {
	tag   uint16
	value string
}

// jpegWithEXIF builds a minimal JPEG whose APP1 segment carries the given
// ASCII IFD0 fields (0x010E ImageDescription, 0x0132 DateTime, ...).
func jpegWithEXIF(fields ...exifField) []byte {
	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(42))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	dataOffset := uint32(8 + 2 + 12*len(fields) + 4)
	var data bytes.Buffer
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(len(fields)))
	for _, f := range fields {
		value := append([]byte(f.value), 0)
		for len(value) <= 4 {
			value = append(value, 0)
		}
		_ = binary.Write(&tiff, binary.LittleEndian, f.tag)
		_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
		_ = binary.Write(&tiff, binary.LittleEndian, uint32(len(value)))
		_ = binary.Write(&tiff, binary.LittleEndian, dataOffset+uint32(data.Len()))
		data.Write(value)
	}
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write(data.Bytes())

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

func photoTaken(date string) []byte {
	return jpegWithEXIF(exifField{0x0132, date})
}

func screenshotJPEG() []byte {
	return jpegWithEXIF(exifField{0x010E, "Screenshot"})
}

func joinLogs(r *recorder) string {
	return strings.Join(r.logs, "\n")
}

func (r *recorder) hasLogPrefix(prefix string) bool {
	for _, l := range r.logs {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// openCountingFs records every regular file opened through it.
type openCountingFs struct {
	afero.Fs
	mu     sync.Mutex
	opened []string
}

func (c *openCountingFs) Open(name string) (afero.File, error) {
	c.note(name)
	return c.Fs.Open(name)
}

func (c *openCountingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.note(name)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *openCountingFs) note(name string) {
	if info, err := c.Fs.Stat(name); err == nil && info.IsDir() {
		return
	}
	c.mu.Lock()
	c.opened = append(c.opened, name)
	c.mu.Unlock()
}

func (c *openCountingFs) files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.opened...)
}
