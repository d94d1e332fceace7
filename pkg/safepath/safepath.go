// Package safepath keeps renames inside the directory being processed.
package safepath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrPathEscape indicates a path outside the root.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrSymlinkEscape indicates a symlink resolving outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes root directory")
	// ErrInvalidRoot indicates the root is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrTargetExists indicates a rename destination is already taken.
	// Errors carrying it also match fs.ErrExist.
	ErrTargetExists = errors.New("target already exists")
)

// Validator checks paths against a root directory.
type Validator struct {
	root string // absolute, symlink-free
}

// New creates a Validator for root, which must be an existing directory.
// Symlinks in root itself are resolved.
func New(root string) (*Validator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: filepath.Clean(resolved)}, nil
}

// Root returns the resolved root directory.
func (v *Validator) Root() string {
	return v.root
}

// ValidatePathForRead checks that path lies inside the root and, when it is
// a symlink, that its target does too.
func (v *Validator) ValidatePathForRead(path string) error {
	if err := v.inside(path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("cannot resolve symlink %s: %w", path, err)
	}
	if v.inside(target) != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, target)
	}

	return nil
}

// SafeRename renames oldPath to newPath when both stay inside the root, and
// never replaces an existing destination. A taken destination yields an
// error matching both ErrTargetExists and fs.ErrExist.
func (v *Validator) SafeRename(oldPath, newPath string) error {
	if err := v.checkMutation(oldPath); err != nil {
		return fmt.Errorf("source %w: %s", err, oldPath)
	}
	if err := v.checkMutation(newPath); err != nil {
		return fmt.Errorf("destination %w: %s", err, newPath)
	}

	err := renameNoReplace(oldPath, newPath)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %w", ErrTargetExists, err)
	}
	return err
}

// inside reports ErrPathEscape unless path, made absolute and cleaned,
// is the root or below it. Symlinks are not followed.
func (v *Validator) inside(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	rel, err := filepath.Rel(v.root, abs)
	if err != nil || !(rel == "." || filepath.IsLocal(rel)) {
		return ErrPathEscape
	}

	return nil
}

// checkMutation also resolves the deepest existing ancestor of path, so a
// symlinked directory cannot redirect a rename out of the root.
func (v *Validator) checkMutation(path string) error {
	if err := v.inside(path); err != nil {
		return err
	}

	resolved, err := resolveExisting(path)
	if err != nil {
		return err
	}
	if v.inside(resolved) != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, resolved)
	}

	return nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path.
func resolveExisting(path string) (string, error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("cannot resolve symlinks: %w", err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("cannot resolve symlinks: %w", err)
		}
		current = parent
	}
}
