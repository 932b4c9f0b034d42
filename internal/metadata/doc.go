// Package metadata classifies files for relocation.
//
// It answers three questions about a file: how long a video plays (through a
// Prober, normally ffprobe), when an image was captured (embedded EXIF first,
// then the filename), and whether an image calls itself a screenshot. Embedded
// metadata is located by sniffing magic bytes rather than trusting the
// extension. JPEG and TIFF go through goexif directly; PNG files are walked
// chunk by chunk so that eXIf payloads and text chunks are both visible.
//
// Absence of metadata is never an error here. Callers get a zero value and a
// false flag and decide whether to skip.
package metadata
