// Package preflight provides readiness checks for the directories and external
// binaries handyman depends on.
//
// These checks run in two contexts:
//   - The relocation engine calls RunAll before a run starts. If any check
//     fails, the run is rejected before a worker is spawned.
//   - The CLI "handyman check" command renders every check, including the
//     ffprobe lookup, as a table.
package preflight
