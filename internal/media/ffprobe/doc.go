// Package ffprobe wraps the ffprobe binary for container duration lookups.
//
// It has no handyman-specific dependencies. Duration runs ffprobe with a
// compact key-less output format and parses the single number it prints.
package ffprobe
