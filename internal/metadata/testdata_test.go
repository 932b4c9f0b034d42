package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/spf13/afero"
)

const (
	tagImageDescription = 0x010E
	tagDateTime         = 0x0132
)

type asciiField struct {
	tag   uint16
	value string
}

// buildTIFF assembles a little-endian TIFF with a single IFD of ASCII fields.
func buildTIFF(fields ...asciiField) []byte {
	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, binary.LittleEndian, uint16(42))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(8))

	ifdSize := 2 + 12*len(fields) + 4
	dataOffset := uint32(8 + ifdSize)
	var data bytes.Buffer

	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(fields)))
	for _, f := range fields {
		value := append([]byte(f.value), 0)
		_ = binary.Write(&buf, binary.LittleEndian, f.tag)
		_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
		if len(value) <= 4 {
			padded := make([]byte, 4)
			copy(padded, value)
			buf.Write(padded)
			continue
		}
		_ = binary.Write(&buf, binary.LittleEndian, dataOffset+uint32(data.Len()))
		data.Write(value)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

// buildJPEG wraps a TIFF blob in a minimal JPEG APP1 segment.
func buildJPEG(tiffData []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	if tiffData != nil {
		payload := append([]byte("Exif\x00\x00"), tiffData...)
		buf.Write([]byte{0xFF, 0xE1})
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
		buf.Write(payload)
	}
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

type pngChunk struct {
	kind string
	data []byte
}

func buildPNG(chunks ...pngChunk) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature)
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8
	all := append([]pngChunk{{kind: "IHDR", data: ihdr}}, chunks...)
	all = append(all, pngChunk{kind: "IDAT", data: []byte{0x78, 0x9c, 0x63, 0, 0, 0, 1, 0, 1}}, pngChunk{kind: "IEND"})
	for _, c := range all {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(c.data)))
		buf.WriteString(c.kind)
		buf.Write(c.data)
		crc := crc32.NewIEEE()
		crc.Write([]byte(c.kind))
		crc.Write(c.data)
		_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())
	}
	return buf.Bytes()
}

func textChunk(key, value string) pngChunk {
	return pngChunk{kind: "tEXt", data: []byte(key + "\x00" + value)}
}

func ztxtChunk(t *testing.T, key, value string) pngChunk {
	t.Helper()
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write([]byte(value)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return pngChunk{kind: "zTXt", data: append([]byte(key+"\x00\x00"), compressed.Bytes()...)}
}

func itxtChunk(key, value string) pngChunk {
	return pngChunk{kind: "iTXt", data: []byte(key + "\x00\x00\x00en\x00\x00" + value)}
}

func writeFile(t *testing.T, fsys afero.Fs, path string, data []byte) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
