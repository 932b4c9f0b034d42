// Package logging assembles structured slog loggers and formatting helpers used
// across handyman.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so relocation code can tag log
// lines with run identifiers and modes automatically. The package also provides
// a no-op logger for tests and wiring code that cannot fail, plus a progress
// sampler that keeps per-file progress from flooding the log.
package logging
