package safepath_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renimg/pkg/safepath"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()

		v, err := safepath.New(tmpDir)
		require.NoError(t, err)

		resolved, err := filepath.EvalSymlinks(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, resolved, v.Root())
	})

	t.Run("non-existent directory", func(t *testing.T) {
		t.Parallel()
		_, err := safepath.New("/nonexistent/path/12345")
		assert.ErrorIs(t, err, safepath.ErrInvalidRoot)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		tmpFile := filepath.Join(t.TempDir(), "file.jpg")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		_, err := safepath.New(tmpFile)
		assert.ErrorIs(t, err, safepath.ErrInvalidRoot)
	})
}

func TestValidatePathForRead(t *testing.T) {
	t.Parallel()

	t.Run("regular file within root", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "photo.jpg")
		require.NoError(t, os.WriteFile(filePath, []byte("content"), 0o644))

		v, err := safepath.New(tmpDir)
		require.NoError(t, err)

		assert.NoError(t, v.ValidatePathForRead(filepath.Join(v.Root(), "photo.jpg")))
	})

	t.Run("symlink escape", func(t *testing.T) {
		t.Parallel()
		baseDir := t.TempDir()
		rootDir := filepath.Join(baseDir, "root")
		outsideDir := filepath.Join(baseDir, "outside")
		require.NoError(t, os.MkdirAll(rootDir, 0o755))
		require.NoError(t, os.MkdirAll(outsideDir, 0o755))

		outsideFile := filepath.Join(outsideDir, "secret.jpg")
		require.NoError(t, os.WriteFile(outsideFile, []byte("secret"), 0o644))

		v, err := safepath.New(rootDir)
		require.NoError(t, err)

		linkPath := filepath.Join(v.Root(), "IMG_link.jpg")
		if err := os.Symlink(outsideFile, linkPath); err != nil {
			t.Skip("symlinks not supported")
		}

		assert.ErrorIs(t, v.ValidatePathForRead(linkPath), safepath.ErrSymlinkEscape)
	})

	t.Run("symlink staying inside root", func(t *testing.T) {
		t.Parallel()
		v, err := safepath.New(t.TempDir())
		require.NoError(t, err)

		target := filepath.Join(v.Root(), "photo.jpg")
		require.NoError(t, os.WriteFile(target, []byte("content"), 0o644))

		linkPath := filepath.Join(v.Root(), "IMG_link.jpg")
		if err := os.Symlink(target, linkPath); err != nil {
			t.Skip("symlinks not supported")
		}

		assert.NoError(t, v.ValidatePathForRead(linkPath))
	})

	t.Run("path outside root", func(t *testing.T) {
		t.Parallel()
		v, err := safepath.New(t.TempDir())
		require.NoError(t, err)

		assert.ErrorIs(t, v.ValidatePathForRead(filepath.Dir(v.Root())), safepath.ErrPathEscape)
	})
}

func TestSafeRename(t *testing.T) {
	t.Parallel()

	newRoot := func(t *testing.T) (*safepath.Validator, string) {
		t.Helper()
		v, err := safepath.New(t.TempDir())
		require.NoError(t, err)
		return v, v.Root()
	}

	t.Run("rename within root", func(t *testing.T) {
		t.Parallel()
		v, root := newRoot(t)
		src := filepath.Join(root, "IMG_1.jpg")
		dst := filepath.Join(root, "20180630 - beach trip.jpg")
		require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

		require.NoError(t, v.SafeRename(src, dst))

		assert.NoFileExists(t, src)
		assert.FileExists(t, dst)
	})

	t.Run("rename to outside root blocked", func(t *testing.T) {
		t.Parallel()
		v, root := newRoot(t)
		src := filepath.Join(root, "inside.jpg")
		require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

		err := v.SafeRename(src, filepath.Join(root, "..", "outside.jpg"))
		require.ErrorIs(t, err, safepath.ErrPathEscape)
		assert.FileExists(t, src)
	})

	t.Run("rename refuses to overwrite existing file", func(t *testing.T) {
		t.Parallel()
		v, root := newRoot(t)
		src := filepath.Join(root, "IMG_2.jpg")
		dst := filepath.Join(root, "20190101 - a.jpg")
		require.NoError(t, os.WriteFile(src, []byte("source content"), 0o644))
		require.NoError(t, os.WriteFile(dst, []byte("existing content"), 0o644))

		err := v.SafeRename(src, dst)
		require.Error(t, err, "SafeRename must refuse to overwrite existing file")
		assert.ErrorIs(t, err, safepath.ErrTargetExists)
		assert.ErrorIs(t, err, fs.ErrExist)

		srcData, err := os.ReadFile(src)
		require.NoError(t, err)
		dstData, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "source content", string(srcData))
		assert.Equal(t, "existing content", string(dstData))
	})

	t.Run("rename refuses to overwrite symlink", func(t *testing.T) {
		t.Parallel()
		v, root := newRoot(t)
		src := filepath.Join(root, "source.jpg")
		target := filepath.Join(root, "target.jpg")
		link := filepath.Join(root, "link.jpg")
		require.NoError(t, os.WriteFile(src, []byte("source"), 0o644))
		require.NoError(t, os.WriteFile(target, []byte("target"), 0o644))
		if err := os.Symlink(target, link); err != nil {
			t.Skip("symlinks not supported")
		}

		err := v.SafeRename(src, link)
		require.ErrorIs(t, err, safepath.ErrTargetExists)
		assert.FileExists(t, src)
	})

	t.Run("missing source is not a collision", func(t *testing.T) {
		t.Parallel()
		v, root := newRoot(t)

		err := v.SafeRename(filepath.Join(root, "missing.jpg"), filepath.Join(root, "new.jpg"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, safepath.ErrTargetExists)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}
