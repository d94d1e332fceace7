// Package preview shows an image to the user before it is renamed.
package preview

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"

	"renimg/pkg/imagefile"
)

// Mode selects how images are shown.
type Mode string

const (
	// ModeAuto shows images inline on Kitty-compatible terminals, through the
	// system viewer on other terminals, and not at all without a terminal.
	ModeAuto     Mode = "auto"
	ModeInline   Mode = "inline"
	ModeExternal Mode = "external"
	ModeNone     Mode = "none"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeInline, ModeExternal, ModeNone:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown preview mode %q (want auto, inline, external or none)", s)
	}
}

// Viewer displays an open image. Show blocks until the image was handed to
// the terminal or the viewer process exited.
type Viewer interface {
	Show(ctx context.Context, f *imagefile.File) error
}

// Options configures New.
type Options struct {
	Mode Mode
	// Command overrides the external viewer; the image path is appended.
	Command string
	// Out is the terminal inline previews are written to.
	Out io.Writer
	// Cols and Rows bound the inline preview in terminal cells.
	Cols, Rows int
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// New returns the Viewer for opts, resolving ModeAuto against the terminal.
func New(opts Options) (Viewer, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if mode == ModeAuto {
		mode = resolveAuto(opts.Out, getenv)
	}

	switch mode {
	case ModeNone:
		return None{}, nil
	case ModeInline:
		if opts.Out == nil {
			return nil, fmt.Errorf("inline preview needs an output")
		}
		return NewKitty(opts.Out, opts.Cols, opts.Rows), nil
	case ModeExternal:
		return NewExternal(opts.Command)
	default:
		return nil, fmt.Errorf("unknown preview mode %q", mode)
	}
}

func resolveAuto(out io.Writer, getenv func(string) string) Mode {
	f, ok := out.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return ModeNone
	}
	if IsKittySupported(getenv) {
		return ModeInline
	}
	return ModeExternal
}

// None skips the preview.
type None struct{}

// Show does nothing.
func (None) Show(context.Context, *imagefile.File) error { return nil }

// External opens images with a viewer program.
type External struct {
	args []string
}

// NewExternal creates an External viewer. An empty command selects the
// platform's default opener.
func NewExternal(command string) (*External, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = defaultOpener(runtime.GOOS)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no default image viewer on %s, use --viewer", runtime.GOOS)
	}

	return &External{args: args}, nil
}

// Args returns the command line without the image path.
func (e *External) Args() []string {
	return append([]string(nil), e.args...)
}

// Show runs the viewer and waits for it to exit.
func (e *External) Show(ctx context.Context, f *imagefile.File) error {
	args := append(e.Args()[1:], f.Path())
	cmd := exec.CommandContext(ctx, e.args[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w: %s", e.args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func defaultOpener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open", "-W"}
	case "windows":
		return []string{"cmd", "/c", "start", "/wait", ""}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open"}
	default:
		return nil
	}
}
