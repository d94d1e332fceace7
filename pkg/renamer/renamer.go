// Package renamer applies drafted names to files in place.
// A taken destination is never replaced; the user is asked for another
// label until the rename succeeds or is abandoned.
package renamer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"

	"renimg/pkg/namer"
	"renimg/pkg/safepath"
)

// Asker supplies interactive answers.
type Asker interface {
	Ask(question string) (string, error)
}

// Relabeler turns a replacement label into a new draft keeping the date.
type Relabeler interface {
	Relabel(d namer.Draft, label string) (namer.Draft, bool)
}

// Operation describes a single rename.
type Operation struct {
	OriginalPath string
	NewPath      string
	OriginalName string
	NewName      string
	Attempts     int
	Skipped      bool
	SkipReason   string
}

// Options configures a Renamer.
type Options struct {
	Asker     Asker
	Relabeler Relabeler
	// Out receives collision notices. Defaults to io.Discard.
	Out    io.Writer
	Logger *log.Logger
}

// Renamer handles file renaming operations.
type Renamer struct {
	validator *safepath.Validator
	asker     Asker
	relabeler Relabeler
	out       io.Writer
	logger    *log.Logger
}

// New creates a new Renamer with path containment validation.
func New(rootDir string, opts Options) (*Renamer, error) {
	if opts.Asker == nil || opts.Relabeler == nil {
		return nil, errors.New("renamer: asker and relabeler are required")
	}

	v, err := safepath.New(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Renamer{
		validator: v,
		asker:     opts.Asker,
		relabeler: opts.Relabeler,
		out:       out,
		logger:    logger,
	}, nil
}

// Root returns the root directory being validated against.
func (r *Renamer) Root() string {
	return r.validator.Root()
}

// Rename moves oldPath to "<draft name><ext>" in the same directory.
//
// When the destination exists the notice is printed, a new label is asked
// and the rename is retried with the same date and extension. A blank
// replacement label abandons the rename and leaves the file untouched.
// Any other failure is returned as is.
func (r *Renamer) Rename(oldPath, ext string, draft namer.Draft) (Operation, error) {
	op := Operation{
		OriginalPath: oldPath,
		OriginalName: filepath.Base(oldPath),
	}
	dir := filepath.Dir(oldPath)

	for {
		op.Attempts++
		op.NewName = draft.Name() + ext
		op.NewPath = filepath.Join(dir, op.NewName)

		if op.NewName == op.OriginalName {
			op.Skipped = true
			op.SkipReason = "name unchanged"
			return op, nil
		}

		err := r.validator.SafeRename(oldPath, op.NewPath)
		if err == nil {
			r.logger.Debug("renamed", "from", op.OriginalName, "to", op.NewName, "attempts", op.Attempts)
			return op, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return op, fmt.Errorf("rename %s: %w", op.OriginalName, err)
		}

		r.logger.Debug("destination taken", "name", op.NewName)
		fmt.Fprintf(r.out, "\nFile name \"%s\" already exists... rename the file.\n", draft.Name())

		label, err := r.asker.Ask(namer.LabelPrompt)
		if err != nil {
			return op, err
		}

		next, ok := r.relabeler.Relabel(draft, label)
		if !ok {
			op.NewName = ""
			op.NewPath = ""
			op.Skipped = true
			op.SkipReason = "no replacement name given"
			return op, nil
		}
		draft = next
	}
}
