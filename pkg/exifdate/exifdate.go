// Package exifdate derives the capture date prefix of an image.
//
// JPEG files are read through their EXIF DateTimeOriginal tag (key 36867).
// Every other accepted format has no usable tag, so the date is asked from
// the user instead.
package exifdate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// TagDateTimeOriginal is the numeric EXIF key of the capture date.
const TagDateTimeOriginal = 36867

// Sentinel replaces the date when the capture date tag is absent.
const Sentinel = "_"

// DatePrompt is the question asked for formats without EXIF support.
const DatePrompt = "Write the date:"

// ErrNoExif indicates the image carries no EXIF structure at all.
var ErrNoExif = errors.New("image has no EXIF data")

// Asker supplies interactive answers.
type Asker interface {
	Ask(question string) (string, error)
}

// IsJPEG reports whether ext is read through EXIF. Only the exact spellings
// ".jpg" and ".JPG" qualify.
func IsJPEG(ext string) bool {
	return ext == ".jpg" || ext == ".JPG"
}

// ReadRaw returns the raw DateTimeOriginal value, usually of the form
// "YYYY:MM:DD HH:MM:SS". An absent tag yields Sentinel. A missing or
// unreadable EXIF block wraps ErrNoExif.
func ReadRaw(r io.Reader) (string, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return "", fmt.Errorf("%w: %w", ErrNoExif, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		var notPresent exif.TagNotPresentError
		if errors.As(err, &notPresent) {
			return Sentinel, nil
		}
		return "", fmt.Errorf("read tag %d: %w", TagDateTimeOriginal, err)
	}

	raw, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("decode tag %d: %w", TagDateTimeOriginal, err)
	}

	return raw, nil
}

// Normalize keeps the first 10 characters of raw and drops every colon,
// turning "2018:06:30 15:04:33" into "20180630".
func Normalize(raw string) string {
	runes := []rune(raw)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return strings.ReplaceAll(string(runes), ":", "")
}

// Reader resolves capture dates for candidate files.
type Reader struct {
	asker Asker
}

// NewReader creates a Reader that falls back to asker for non-JPEG files.
func NewReader(asker Asker) *Reader {
	return &Reader{asker: asker}
}

// CaptureDate returns the normalized date prefix for a file with extension
// ext. For JPEG files src is read from its start; it is ignored otherwise.
func (r *Reader) CaptureDate(ext string, src io.ReadSeeker) (string, error) {
	var raw string

	if IsJPEG(ext) {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind image: %w", err)
		}

		value, err := ReadRaw(src)
		if err != nil {
			return "", err
		}
		raw = value
	} else {
		answer, err := r.asker.Ask(DatePrompt)
		if err != nil {
			return "", err
		}
		raw = answer
	}

	return Normalize(raw), nil
}
