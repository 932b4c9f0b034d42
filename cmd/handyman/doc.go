// Package main hosts the handyman CLI entrypoint and command graph.
//
// Each relocation mode is its own command taking SOURCE and DEST. Commands
// resolve configuration lazily through the shared command context, start a
// run on the relocate engine, and render it either as an interactive progress
// view or as plain sampled lines when output is not a terminal.
//
// Keep this package thin: behavior belongs in internal packages and is only
// surfaced here as commands and flags.
package main
