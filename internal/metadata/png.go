package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// maxPNGMetadataChunk bounds how much of a single metadata chunk is buffered.
const maxPNGMetadataChunk = 8 << 20

type pngMetadata struct {
	exif []byte
	text map[string]string
}

// readPNGMetadata walks PNG chunks up to IEND, collecting the eXIf payload and
// every tEXt/zTXt/iTXt entry. Image data chunks are skipped without buffering.
func readPNGMetadata(r io.ReadSeeker) (pngMetadata, error) {
	meta := pngMetadata{text: map[string]string{}}

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return meta, fmt.Errorf("png signature: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return meta, errors.New("png signature mismatch")
	}

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) {
				return meta, nil
			}
			return meta, fmt.Errorf("png chunk header: %w", err)
		}
		length := int64(binary.BigEndian.Uint32(header[:4]))
		chunkType := string(header[4:8])

		switch chunkType {
		case "IEND":
			return meta, nil
		case "eXIf", "tEXt", "zTXt", "iTXt":
			if length > maxPNGMetadataChunk {
				if _, err := r.Seek(length+4, io.SeekCurrent); err != nil {
					return meta, err
				}
				continue
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return meta, fmt.Errorf("png %s chunk: %w", chunkType, err)
			}
			if _, err := r.Seek(4, io.SeekCurrent); err != nil {
				return meta, err
			}
			meta.addChunk(chunkType, data)
		default:
			if _, err := r.Seek(length+4, io.SeekCurrent); err != nil {
				return meta, err
			}
		}
	}
}

func (m *pngMetadata) addChunk(chunkType string, data []byte) {
	switch chunkType {
	case "eXIf":
		if m.exif == nil {
			m.exif = data
		}
	case "tEXt":
		key, value, ok := bytes.Cut(data, []byte{0})
		if ok {
			m.setText(string(key), latin1(value))
		}
	case "zTXt":
		key, rest, ok := bytes.Cut(data, []byte{0})
		if !ok || len(rest) < 1 || rest[0] != 0 {
			return
		}
		if text, err := inflate(rest[1:]); err == nil {
			m.setText(string(key), latin1(text))
		}
	case "iTXt":
		key, rest, ok := bytes.Cut(data, []byte{0})
		if !ok || len(rest) < 2 {
			return
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		// language tag, then translated keyword
		if _, rest, ok = bytes.Cut(rest, []byte{0}); !ok {
			return
		}
		if _, rest, ok = bytes.Cut(rest, []byte{0}); !ok {
			return
		}
		if compressed {
			text, err := inflate(rest)
			if err != nil {
				return
			}
			rest = text
		}
		m.setText(string(key), string(rest))
	}
}

func (m *pngMetadata) setText(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if existing, ok := m.text[key]; ok {
		m.text[key] = existing + "\n" + value
		return
	}
	m.text[key] = value
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxPNGMetadataChunk))
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
