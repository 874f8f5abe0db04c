package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// newOSPort returns a port guarded by a fresh temp dir and the dir itself.
func newOSPort(t *testing.T) (*filesystem.Billy, string) {
	t.Helper()
	base := t.TempDir()
	return filesystem.NewOS(base), base
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	path := filepath.Join(base, "about.md")
	content := "# demo\n\nUnicode: ✓ ünïcödé\n"

	require.NoError(t, fs.WriteFile(path, content))
	got, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	raw, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestWriteFile_ReplacesAndLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	path := filepath.Join(base, "state.json")

	require.NoError(t, fs.WriteFile(path, "first"))
	require.NoError(t, fs.WriteFile(path, "second"))

	got, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	names, err := fs.ReadDir(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"state.json"}, names)
}

func TestWriteFile_RejectsPathOutsideBase(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	outside := filepath.Join(base, "..", "escape.md")

	err := fs.WriteFile(outside, "nope")
	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrPathSecurity)
	assert.NoFileExists(t, outside)

	err = fs.WriteFile(base, "nope")
	require.ErrorIs(t, err, svperrors.ErrPathSecurity)
}

func TestWriteFile_ParentIsFileIsFileSystemError(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, fs.WriteFile(blocker, "not a dir"))
	path := filepath.Join(blocker, "file.md")

	err := fs.WriteFile(path, "x")
	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrFileSystem)
	assert.Contains(t, err.Error(), "Failed to write file")
	assert.Equal(t, path, svperrors.Normalize(err).Path)
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	_, err := fs.ReadFile(filepath.Join(base, "nope.md"))
	require.ErrorIs(t, err, svperrors.ErrFileSystem)
	assert.Contains(t, err.Error(), "Failed to read file")
}

func TestMkdir(t *testing.T) {
	t.Parallel()

	t.Run("recursive creates nested directories and tolerates existing", func(t *testing.T) {
		t.Parallel()
		fs, base := newOSPort(t)
		nested := filepath.Join(base, ".project", "stories")

		require.NoError(t, fs.Mkdir(nested, true))
		require.NoError(t, fs.Mkdir(nested, true))
		assert.DirExists(t, nested)
	})

	t.Run("non-recursive fails when directory exists", func(t *testing.T) {
		t.Parallel()
		fs, base := newOSPort(t)
		dir := filepath.Join(base, "demo")

		require.NoError(t, fs.Mkdir(dir, false))
		err := fs.Mkdir(dir, false)
		require.ErrorIs(t, err, svperrors.ErrFileSystem)
		assert.Contains(t, err.Error(), "Failed to create directory")
	})

	t.Run("non-recursive fails when parent is missing", func(t *testing.T) {
		t.Parallel()
		fs, base := newOSPort(t)
		dir := filepath.Join(base, "a", "b")

		require.ErrorIs(t, fs.Mkdir(dir, false), svperrors.ErrFileSystem)
		assert.NoDirExists(t, dir)
	})
}

func TestExistsAndIsDirectory(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	file := filepath.Join(base, "f.txt")
	require.NoError(t, fs.WriteFile(file, "x"))

	assert.True(t, fs.Exists(file))
	assert.True(t, fs.Exists(base))
	assert.False(t, fs.Exists(filepath.Join(base, "nope")))

	isDir, err := fs.IsDirectory(base)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = fs.IsDirectory(file)
	require.NoError(t, err)
	assert.False(t, isDir)

	_, err = fs.IsDirectory(filepath.Join(base, "nope"))
	require.ErrorIs(t, err, svperrors.ErrFileSystem)
}

func TestReadDir_Sorted(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	for _, name := range []string{"c.md", "a.md", "b"} {
		require.NoError(t, fs.WriteFile(filepath.Join(base, name), name))
	}

	names, err := fs.ReadDir(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b", "c.md"}, names)

	_, err = fs.ReadDir(filepath.Join(base, "missing"))
	require.ErrorIs(t, err, svperrors.ErrFileSystem)
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	src := filepath.Join(base, "src.md")
	dst := filepath.Join(base, "dst.md")
	require.NoError(t, fs.WriteFile(src, "payload"))

	require.NoError(t, fs.CopyFile(src, dst))
	got, err := fs.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	err = fs.CopyFile(src, filepath.Join(base, "..", "stolen.md"))
	require.ErrorIs(t, err, svperrors.ErrPathSecurity)

	err = fs.CopyFile(filepath.Join(base, "missing.md"), dst)
	require.ErrorIs(t, err, svperrors.ErrFileSystem)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	fs, base := newOSPort(t)
	file := filepath.Join(base, "demo.json")
	require.NoError(t, fs.WriteFile(file, "{}"))

	require.NoError(t, fs.Remove(file))
	assert.NoFileExists(t, file)
	require.NoError(t, fs.Remove(file), "removing a missing file is not an error")

	require.ErrorIs(t, fs.Remove(base), svperrors.ErrPathSecurity)
}

func TestNoBaseDir_SkipsGuard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := filesystem.NewOS("")
	path := filepath.Join(dir, "x.md")

	require.NoError(t, fs.WriteFile(path, "ok"))
	assert.True(t, fs.Exists(path))
}

func TestMemory_RoundTrip(t *testing.T) {
	t.Parallel()

	fs := filesystem.NewMemory("/work")
	require.NoError(t, fs.Mkdir("/work/demo/.project", true))
	require.NoError(t, fs.WriteFile("/work/demo/.project/about.md", "# demo\n"))

	got, err := fs.ReadFile("/work/demo/.project/about.md")
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", got)

	names, err := fs.ReadDir("/work/demo/.project")
	require.NoError(t, err)
	assert.Equal(t, []string{"about.md"}, names)

	require.ErrorIs(t, fs.WriteFile("/etc/passwd", "x"), svperrors.ErrPathSecurity)
}
