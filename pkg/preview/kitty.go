package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"

	"renimg/pkg/imagefile"
)

const (
	chunkSize = 4096 // Max bytes per escape sequence chunk

	defaultCols = 40
	defaultRows = 20
)

// IsKittySupported checks if the terminal supports Kitty graphics protocol.
func IsKittySupported(getenv func(string) string) bool {
	if getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}

	// KONSOLE_VERSION is like "220401" for 22.04.01.
	if version := getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}

	return strings.Contains(getenv("TERM"), "kitty")
}

// Kitty draws images inline with the Kitty graphics protocol.
type Kitty struct {
	out  io.Writer
	cols int
	rows int
}

// NewKitty creates a Kitty viewer writing to out. Non-positive sizes fall
// back to 40x20 cells.
func NewKitty(out io.Writer, cols, rows int) *Kitty {
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	return &Kitty{out: out, cols: cols, rows: rows}
}

// Show decodes the image, scales it to the cell box and writes it.
func (k *Kitty) Show(_ context.Context, f *imagefile.File) error {
	img, err := f.Decode()
	if err != nil {
		return err
	}

	seq, err := Encode(img, k.cols, k.rows)
	if err != nil {
		return err
	}

	_, err = io.WriteString(k.out, seq+"\n")
	return err
}

// Encode converts an image to a Kitty graphics protocol escape sequence
// displayed in a cols x rows cell box.
func Encode(img image.Image, cols, rows int) (string, error) {
	// A terminal cell is roughly 8x16 pixels.
	pixelWidth := uint(max(cols*8, 64))   //nolint:gosec // cell counts are small
	pixelHeight := uint(max(rows*16, 64)) //nolint:gosec // cell counts are small

	thumb := resize.Thumbnail(pixelWidth, pixelHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}

	b64Data := base64.StdEncoding.EncodeToString(buf.Bytes())

	// Format: ESC _ G <params> ; <payload> ESC \
	// a=T (transmit+display), f=100 (PNG), c=cols, r=rows
	var sb strings.Builder
	for i := 0; i < len(b64Data); i += chunkSize {
		end := min(i+chunkSize, len(b64Data))
		chunk := b64Data[i:end]

		// m=1 means more chunks follow, m=0 means last chunk
		more := 0
		if end < len(b64Data) {
			more = 1
		}

		if i == 0 {
			fmt.Fprintf(&sb, "\x1b_Ga=T,f=100,c=%d,r=%d,m=%d;%s\x1b\\", cols, rows, more, chunk)
		} else {
			fmt.Fprintf(&sb, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}

	return sb.String(), nil
}
