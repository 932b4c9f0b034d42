// Package services defines shared utilities consumed by the relocation engine
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and relocation modes for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep startup failures
//     classifiable (configuration vs validation vs busy).
//
// Use these helpers when wiring new commands so operational behaviour stays
// uniform across the tool.
package services
