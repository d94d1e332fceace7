// Package session drives the interactive rename of a directory: every
// selected image is shown, labelled by the user, dated and renamed in turn.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"renimg/pkg/exifdate"
	"renimg/pkg/imagefile"
	"renimg/pkg/namer"
	"renimg/pkg/preview"
	"renimg/pkg/progress"
	"renimg/pkg/prompt"
	"renimg/pkg/renamer"
	"renimg/pkg/safepath"
	"renimg/pkg/selector"
)

// ProgressCallback receives the position of the file about to be handled.
type ProgressCallback func(processed, total int)

// Options configures a Session.
type Options struct {
	Dir     string
	Pattern *regexp.Regexp
	// Extensions overrides selector.DefaultExtensions when non-empty.
	Extensions  []string
	StrictNames bool
	Decode      imagefile.Options
	// Viewer defaults to preview.None.
	Viewer preview.Viewer
	In     io.Reader
	Out    io.Writer
	Logger *log.Logger

	OnProgress ProgressCallback
}

// Result contains the outcome of a run.
type Result struct {
	RootDir      string
	Operations   []renamer.Operation
	TotalFiles   int
	RenamedCount int
	SkippedCount int
}

// Session holds the collaborators of one interactive run.
type Session struct {
	validator  *safepath.Validator
	selector   *selector.Selector
	composer   *namer.Composer
	dates      *exifdate.Reader
	renamer    *renamer.Renamer
	viewer     preview.Viewer
	decode     imagefile.Options
	out        io.Writer
	logger     *log.Logger
	detail     lipgloss.Style
	showDetail bool
	onProgress ProgressCallback
}

// New wires a Session. All prompts share a single reader over opts.In, so
// answers are consumed strictly in the order they are asked.
func New(opts Options) (*Session, error) {
	if opts.In == nil || opts.Out == nil {
		return nil, errors.New("session: input and output are required")
	}

	validator, err := safepath.New(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	sel, err := selector.New(selector.Criteria{
		Pattern:    opts.Pattern,
		Extensions: opts.Extensions,
	})
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	viewer := opts.Viewer
	if viewer == nil {
		viewer = preview.None{}
	}

	asker := prompt.New(opts.In, opts.Out)
	composer := namer.New(asker, namer.Options{StrictNames: opts.StrictNames})

	ren, err := renamer.New(validator.Root(), renamer.Options{
		Asker:     asker,
		Relabeler: composer,
		Out:       opts.Out,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	renderer := lipgloss.NewRenderer(opts.Out)

	return &Session{
		validator:  validator,
		selector:   sel,
		composer:   composer,
		dates:      exifdate.NewReader(asker),
		renamer:    ren,
		viewer:     viewer,
		decode:     opts.Decode,
		out:        opts.Out,
		logger:     logger,
		detail:     renderer.NewStyle().Faint(true),
		showDetail: isTerminal(opts.Out),
		onProgress: opts.OnProgress,
	}, nil
}

// Root returns the resolved directory being renamed.
func (s *Session) Root() string {
	return s.validator.Root()
}

// Run handles every selected file in order. The first fatal error stops the
// run; files handled before it keep their new names.
func (s *Session) Run(ctx context.Context) (Result, error) {
	result := Result{RootDir: s.Root()}

	candidates, err := s.selector.Select(s.Root())
	if err != nil {
		return result, fmt.Errorf("failed to list directory: %w", err)
	}
	result.TotalFiles = len(candidates)
	s.logger.Debug("selected files", "dir", s.Root(), "count", len(candidates), "extensions", s.selector.Extensions())

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		progress.Emit(s.onProgress, i+1, len(candidates))

		op, err := s.handle(ctx, c, i+1, len(candidates))
		if err != nil {
			return result, err
		}

		result.Operations = append(result.Operations, op)
		if op.Skipped {
			result.SkippedCount++
		} else {
			result.RenamedCount++
		}
	}

	return result, nil
}

func (s *Session) handle(ctx context.Context, c selector.Candidate, position, total int) (renamer.Operation, error) {
	if err := s.validator.ValidatePathForRead(c.Path); err != nil {
		return renamer.Operation{}, err
	}

	file, err := imagefile.Open(c.Path, s.decode)
	if err != nil {
		return renamer.Operation{}, fmt.Errorf("open %s: %w", c.Name, err)
	}
	defer file.Close()

	s.printHeader(c, file, position, total)

	if err := s.show(ctx, file); err != nil {
		return renamer.Operation{}, err
	}

	draft, ok, err := s.composer.Compose(func() (string, error) {
		return s.dates.CaptureDate(c.Ext, file)
	})
	if err != nil {
		return renamer.Operation{}, fmt.Errorf("%s: %w", c.Name, err)
	}
	if !ok {
		s.logger.Debug("left unchanged", "name", c.Name)
		return renamer.Operation{
			OriginalPath: c.Path,
			OriginalName: c.Name,
			Skipped:      true,
			SkipReason:   "no name given",
		}, nil
	}

	// Some platforms refuse to rename a file that is still open.
	if err := file.Close(); err != nil {
		return renamer.Operation{}, fmt.Errorf("close %s: %w", c.Name, err)
	}

	return s.renamer.Rename(c.Path, c.Ext, draft)
}

// printHeader writes the current file name. The detail line only goes to
// an interactive terminal so piped transcripts keep the plain protocol.
func (s *Session) printHeader(c selector.Candidate, file *imagefile.File, position, total int) {
	b := file.Bounds()
	fmt.Fprintf(s.out, "\nCurrent file name: %s\n", c.Name)

	s.logger.Debug("file", "position", progress.Fraction(position, total), "size", c.Size, "width", b.Dx(), "height", b.Dy(), "format", file.Format())
	if s.showDetail {
		fmt.Fprintln(s.out, s.detail.Render(fmt.Sprintf("[%s] %s, %dx%d %s",
			progress.Fraction(position, total), humanize.Bytes(uint64(c.Size)), b.Dx(), b.Dy(), file.Format())))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// show displays the image. With truncation disallowed the image is decoded
// up front so a broken file stops the run whatever the viewer; viewer
// failures are otherwise only logged.
func (s *Session) show(ctx context.Context, file *imagefile.File) error {
	if !s.decode.AllowTruncated {
		if _, err := file.Decode(); err != nil {
			return err
		}
	}

	err := s.viewer.Show(ctx, file)
	switch {
	case err == nil:
		if file.Truncated() {
			s.logger.Warn("image data is truncated, showing a blank canvas", "path", file.Path())
		}
		return nil
	case errors.Is(err, imagefile.ErrTruncated), errors.Is(err, context.Canceled):
		return err
	default:
		s.logger.Warn("could not display image", "path", file.Path(), "err", err)
		return nil
	}
}
