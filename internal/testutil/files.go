package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func CreateFile(t *testing.T, path, content string) {
	t.Helper()
	createFileBytes(t, path, []byte(content), 0o644, false, time.Time{})
}

func CreateFileWithModTime(t *testing.T, path, content string, modTime time.Time) {
	t.Helper()
	createFileBytes(t, path, []byte(content), 0o600, true, modTime)
}

func CreateFileBytes(t *testing.T, path string, content []byte) {
	t.Helper()
	createFileBytes(t, path, content, 0o644, false, time.Time{})
}

func createFileBytes(t *testing.T, path string, content []byte, mode os.FileMode, setModTime bool, modTime time.Time) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err)

	err = os.WriteFile(path, content, mode)
	require.NoError(t, err)

	if !setModTime {
		return
	}

	err = os.Chtimes(path, modTime, modTime)
	require.NoError(t, err)
}

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

// PNGBytes returns a small encoded PNG image.
func PNGBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sampleImage()))
	return buf.Bytes()
}

// JPEGBytes returns a small encoded JPEG image without any APP1 segment.
func JPEGBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sampleImage(), nil))
	return buf.Bytes()
}

// JPEGWithExif returns a JPEG carrying an EXIF APP1 segment. When
// dateTimeOriginal is empty the EXIF block holds only an Orientation tag,
// so the capture date tag is absent while the EXIF structure is valid.
func JPEGWithExif(t *testing.T, dateTimeOriginal string) []byte {
	t.Helper()

	plain := JPEGBytes(t)
	require.True(t, len(plain) > 2 && plain[0] == 0xFF && plain[1] == 0xD8, "encoder must emit SOI")

	payload := append([]byte("Exif\x00\x00"), exifTIFF(dateTimeOriginal)...)

	var out bytes.Buffer
	out.Write(plain[:2])
	out.Write([]byte{0xFF, 0xE1})
	require.NoError(t, binary.Write(&out, binary.BigEndian, uint16(len(payload)+2)))
	out.Write(payload)
	out.Write(plain[2:])

	return out.Bytes()
}

// exifTIFF builds a little-endian TIFF structure. With a date it holds IFD0
// pointing to an Exif sub-IFD with a single DateTimeOriginal (0x9003) entry.
func exifTIFF(dateTimeOriginal string) []byte {
	le := binary.LittleEndian
	var buf bytes.Buffer

	put16 := func(v uint16) { _ = binary.Write(&buf, le, v) }
	put32 := func(v uint32) { _ = binary.Write(&buf, le, v) }

	// Header: byte order, magic, offset of IFD0.
	buf.WriteString("II")
	put16(42)
	put32(8)

	if dateTimeOriginal == "" {
		// IFD0 with Orientation = 1.
		put16(1)
		put16(0x0112)
		put16(3)
		put32(1)
		put16(1)
		put16(0)
		put32(0)
		return buf.Bytes()
	}

	value := append([]byte(dateTimeOriginal), 0)

	const (
		ifd0Offset = 8
		entrySize  = 12
		exifOffset = ifd0Offset + 2 + entrySize + 4
		dataOffset = exifOffset + 2 + entrySize + 4
	)

	// IFD0: ExifIFDPointer.
	put16(1)
	put16(0x8769)
	put16(4)
	put32(1)
	put32(exifOffset)
	put32(0)

	// Exif IFD: DateTimeOriginal (ASCII).
	put16(1)
	put16(0x9003)
	put16(2)
	put32(uint32(len(value)))
	put32(dataOffset)
	put32(0)

	buf.Write(value)

	return buf.Bytes()
}
