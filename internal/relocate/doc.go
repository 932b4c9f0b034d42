// Package relocate drives a relocation run: it snapshots the source tree,
// classifies each candidate through the metadata package, plans destinations
// with the planner package and moves files with fileutil.
//
// A run is sequential. Relocator.Start spawns a single worker goroutine and
// returns a Run whose Events channel carries progress, log and completion
// events to the caller; Drain adapts that channel back onto plain callbacks.
// Relocator.Execute runs the same engine synchronously.
//
// Per-item failures never abort a run. They become log events and are counted
// in the Summary. Only start-up problems (bad paths, a held lock) are returned
// as errors.
package relocate
