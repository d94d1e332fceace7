package safepath

import (
	"errors"
	"io/fs"
	"os"
)

// renameIfAbsent renames oldPath to newPath unless newPath already names
// another file. The check and the rename are two steps, so a file created in
// between can still be replaced; renameNoReplace avoids that where the
// platform allows it.
func renameIfAbsent(oldPath, newPath string) error {
	target, err := os.Lstat(newPath)
	switch {
	case err == nil:
		// Case-only renames on case-insensitive filesystems resolve to the
		// source itself.
		source, srcErr := os.Lstat(oldPath)
		if srcErr != nil || !os.SameFile(source, target) {
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrExist}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	return os.Rename(oldPath, newPath)
}
