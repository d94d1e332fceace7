// Package selector picks the image files of a single directory that are
// eligible for renaming.
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"
)

// DefaultExtensions is the extension allow-list. The comparison is case
// sensitive, so ".Jpg" or ".jpeg" are not accepted.
var DefaultExtensions = []string{".png", ".jpg", ".tiff", ".bmp", ".JPG", ".PNG", ".BMP"}

// Candidate holds metadata about a selected file.
type Candidate struct {
	Path    string    // Full path to the file
	Dir     string    // Directory containing the file
	Name    string    // Base filename, extension included
	Ext     string    // Extension as returned by filepath.Ext
	Size    int64     // File size in bytes
	ModTime time.Time // Modification time
}

// Criteria configures which directory entries are selected.
type Criteria struct {
	// Pattern must match somewhere in the base filename.
	Pattern *regexp.Regexp
	// Extensions overrides DefaultExtensions when non-empty.
	Extensions []string
}

// Selector lists a directory and filters its entries.
type Selector struct {
	pattern    *regexp.Regexp
	extensions map[string]bool
}

// New creates a Selector for the given criteria.
func New(c Criteria) (*Selector, error) {
	if c.Pattern == nil {
		return nil, fmt.Errorf("selector: file name pattern is required")
	}

	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	s := &Selector{
		pattern:    c.Pattern,
		extensions: make(map[string]bool, len(exts)),
	}
	for _, ext := range exts {
		s.extensions[ext] = true
	}

	return s, nil
}

// Matches reports whether a base filename passes both the extension
// allow-list and the pattern.
func (s *Selector) Matches(name string) bool {
	return s.extensions[filepath.Ext(name)] && s.pattern.MatchString(name)
}

// Extensions returns the accepted extensions in sorted order.
func (s *Selector) Extensions() []string {
	exts := make([]string, 0, len(s.extensions))
	for ext := range s.extensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Select returns the matching files directly inside dir. Subdirectories are
// neither selected nor descended into. Results follow os.ReadDir order,
// which is sorted by filename.
func (s *Selector) Select(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !s.Matches(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, Candidate{
			Path:    filepath.Join(dir, entry.Name()),
			Dir:     dir,
			Name:    entry.Name(),
			Ext:     filepath.Ext(entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return candidates, nil
}
