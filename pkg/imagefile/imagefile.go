// Package imagefile opens candidate images for preview and metadata reads.
//
// A File keeps the underlying handle open until Close, so the capture date
// can be read from the same handle the preview was decoded from.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
)

var (
	// ErrUnsupported indicates the file is not in a registered image format.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrTruncated indicates the image data ends before the image is complete.
	ErrTruncated = errors.New("truncated image data")
)

// Options configures how images are decoded.
type Options struct {
	// AllowTruncated replaces images whose data ends early with a blank
	// canvas of the declared size instead of failing.
	AllowTruncated bool
}

// File is an open image.
type File struct {
	file      *os.File
	path      string
	format    string
	config    image.Config
	opts      Options
	truncated bool
	closed    bool
}

// Open opens path and identifies its format from the header. The caller
// must Close the returned File.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		f.Close()
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
		}
		return nil, fmt.Errorf("identify %s: %w", path, err)
	}

	return &File{
		file:   f,
		path:   path,
		format: format,
		config: cfg,
		opts:   opts,
	}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Format returns the registered format name, e.g. "jpeg" or "png".
func (f *File) Format() string { return f.format }

// Bounds returns the declared image dimensions.
func (f *File) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.config.Width, f.config.Height)
}

// Truncated reports whether the last Decode substituted a blank canvas.
func (f *File) Truncated() bool { return f.truncated }

// Read reads raw file bytes from the current offset.
func (f *File) Read(p []byte) (int, error) { return f.file.Read(p) }

// Seek moves the raw file offset.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

// Decode decodes the whole image from the start of the file.
func (f *File) Decode() (image.Image, error) {
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", f.path, err)
	}

	f.truncated = false
	img, _, err := image.Decode(f.file)
	if err == nil {
		return img, nil
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if !f.opts.AllowTruncated {
		return nil, fmt.Errorf("%w: %s: %w", ErrTruncated, f.path, err)
	}

	f.truncated = true
	return blank(f.Bounds()), nil
}

// Close releases the file handle. Calling it more than once is a no-op.
func (f *File) Close() error {
	if f == nil || f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

func blank(bounds image.Rectangle) image.Image {
	img := image.NewGray(bounds)
	draw.Draw(img, bounds, image.NewUniform(color.Gray{Y: 0x80}), image.Point{}, draw.Src)
	return img
}
