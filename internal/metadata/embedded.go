package metadata

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/spf13/afero"
)

// sniffSize matches the header length filetype needs for every matcher.
const sniffSize = 261

// exifDateFields are consulted in order for a capture date.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// Embedded holds the metadata found inside a single file.
type Embedded struct {
	// MIME is the sniffed container type, empty when unknown.
	MIME string
	exif *exif.Exif
	text map[string]string
}

// ReadEmbedded opens path on fsys, sniffs its container type and decodes any
// embedded metadata. A file without metadata yields an empty Embedded and no
// error; only I/O failures and malformed containers are reported.
func ReadEmbedded(fsys afero.Fs, path string) (*Embedded, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return nil, fmt.Errorf("sniff type: %w", err)
	}

	embedded := &Embedded{}
	if kind != filetype.Unknown {
		embedded.MIME = kind.MIME.Value
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	switch embedded.MIME {
	case "image/jpeg", "image/tiff", "image/x-canon-cr2":
		embedded.exif = decodeEXIF(f)
	case "image/png":
		meta, err := readPNGMetadata(f)
		if err != nil {
			return nil, err
		}
		embedded.text = meta.text
		if len(meta.exif) > 0 {
			embedded.exif = decodeEXIF(bytes.NewReader(meta.exif))
		}
	}
	return embedded, nil
}

func decodeEXIF(r io.Reader) *exif.Exif {
	x, err := exif.Decode(r)
	if x == nil {
		return nil
	}
	if err != nil && exif.IsCriticalError(err) {
		return nil
	}
	return x
}

// HasEXIF reports whether an EXIF block was decoded.
func (e *Embedded) HasEXIF() bool {
	return e != nil && e.exif != nil
}

// CaptureDate returns the first parseable EXIF date among DateTimeOriginal,
// DateTimeDigitized and DateTime.
func (e *Embedded) CaptureDate() (Date, bool) {
	if !e.HasEXIF() {
		return Date{}, false
	}
	for _, field := range exifDateFields {
		tag, err := e.exif.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		if d, ok := ParseEXIFDate(value); ok {
			return d, true
		}
	}
	return Date{}, false
}


// Values returns every embedded value rendered as text: all EXIF tags in walk
// order followed by PNG text entries sorted by key.
func (e *Embedded) Values() []string {
	if e == nil {
		return nil
	}
	var values []string
	if e.exif != nil {
		collector := &valueCollector{}
		_ = e.exif.Walk(collector)
		values = append(values, collector.values...)
	}
	keys := make([]string, 0, len(e.text))
	for key := range e.text {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		values = append(values, e.text[key])
	}
	return values
}

type valueCollector struct {
	values []string
}

func (c *valueCollector) Walk(_ exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	if value := tagText(tag); value != "" {
		c.values = append(c.values, value)
	}
	return nil
}

// undefinedCharsetPrefixes lead UserComment-style UNDEFINED values.
var undefinedCharsetPrefixes = []string{"ASCII\x00\x00\x00", "UNICODE\x00", "JIS\x00\x00\x00\x00\x00"}

func tagText(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimRight(s, "\x00 ")
	case tiff.UndefVal:
		s := string(tag.Val)
		for _, prefix := range undefinedCharsetPrefixes {
			s = strings.TrimPrefix(s, prefix)
		}
		return strings.Trim(s, "\x00 ")
	default:
		return tag.String()
	}
}
