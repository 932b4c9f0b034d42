package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"handyman/internal/config"
	"handyman/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", "  "); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckDestinationDirectory_Missing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDestinationDirectory(dest)
	if !result.Passed {
		t.Fatalf("expected creatable destination to pass: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDestinationDirectory_UnderFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDestinationDirectory(filepath.Join(f, "dest")); result.Passed {
		t.Fatal("expected failure when parent is a file")
	}
}

func TestRunAllAndErr(t *testing.T) {
	results := RunAll(t.TempDir(), t.TempDir())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	results = RunAll(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	err := Err(results)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Source directory") {
		t.Fatalf("error should name failing check: %v", err)
	}
}

func TestCheckFFprobeConfigured(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Probe.FFprobeBinary = stub

	result := CheckFFprobe(&cfg)
	if !result.Passed || result.Detail != stub {
		t.Fatalf("unexpected result: %#v", result)
	}

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 1 || !statuses[0].Available {
		t.Fatalf("unexpected statuses: %#v", statuses)
	}
}

func TestCheckFFprobeMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Probe.FFprobeBinary = "/nonexistent/ffprobe"
	if result := CheckFFprobe(&cfg); result.Passed {
		t.Fatalf("expected failure, got %#v", result)
	}
}
