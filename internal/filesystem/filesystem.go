// Package filesystem is the file I/O port used by the project pipeline.
//
// Every failure crossing this port is a FileSystem error carrying the path;
// raw I/O errors never leak to callers. When the port is constructed with a
// base directory, writes, copies and removals are refused unless the path
// lies strictly inside it.
package filesystem

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/pathsafe"
)

// FileSystem is the set of operations the pipeline performs on disk.
// All paths are absolute.
type FileSystem interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	Mkdir(path string, recursive bool) error
	Exists(path string) bool
	IsDirectory(path string) (bool, error)
	ReadDir(path string) ([]string, error)
	CopyFile(src, dst string) error
	Remove(path string) error
}

// Billy implements FileSystem on top of a go-billy filesystem.
type Billy struct {
	fs      billy.Filesystem
	baseDir string
}

// Compile-time interface check.
var _ FileSystem = (*Billy)(nil)

// New wraps fsys. An empty baseDir disables the containment check.
func New(fsys billy.Filesystem, baseDir string) *Billy {
	return &Billy{fs: fsys, baseDir: baseDir}
}

// NewOS returns a port over the real filesystem guarded by baseDir.
func NewOS(baseDir string) *Billy {
	return New(osfs.New(string(filepath.Separator)), baseDir)
}

// NewMemory returns an in-memory port guarded by baseDir.
func NewMemory(baseDir string) *Billy {
	return New(memfs.New(), baseDir)
}

func (b *Billy) guard(path string) error {
	if b.baseDir == "" {
		return nil
	}
	return pathsafe.AssertWithin(b.baseDir, path)
}

// ReadFile returns the file content as a string.
func (b *Billy) ReadFile(path string) (string, error) {
	data, err := util.ReadFile(b.fs, path)
	if err != nil {
		return "", svperrors.FileSystem("Failed to read file", path, err)
	}
	return string(data), nil
}

// WriteFile replaces the file with content. The data goes to a temp file in
// the same directory first and is renamed into place, so readers never see a
// partial file.
func (b *Billy) WriteFile(path, content string) error {
	if err := b.guard(path); err != nil {
		return err
	}
	if err := b.atomicWrite(path, []byte(content)); err != nil {
		return svperrors.FileSystem("Failed to write file", path, err)
	}
	return nil
}

func (b *Billy) atomicWrite(path string, data []byte) error {
	tmpName := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), tmpCounter.Add(1)))

	tmp, err := b.fs.OpenFile(tmpName, os.O_CREATE|os.O_WRONLY|os.O_EXCL, constants.FilePerm)
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = b.fs.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = b.fs.Remove(tmpName)
		return err
	}
	if err = b.fs.Rename(tmpName, path); err != nil {
		_ = b.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Mkdir creates a directory. With recursive it behaves like mkdir -p. Without
// it the directory must not exist yet and its parent must.
func (b *Billy) Mkdir(path string, recursive bool) error {
	if !recursive {
		if _, err := b.fs.Lstat(path); err == nil {
			return svperrors.FileSystem("Failed to create directory", path, os.ErrExist)
		}
		parent := filepath.Dir(path)
		info, err := b.fs.Stat(parent)
		if err != nil {
			return svperrors.FileSystem("Failed to create directory", path, err)
		}
		if !info.IsDir() {
			return svperrors.FileSystem("Failed to create directory", path, errParentNotDir)
		}
	}

	if err := b.fs.MkdirAll(path, constants.DirPerm); err != nil {
		return svperrors.FileSystem("Failed to create directory", path, err)
	}
	return nil
}

// Exists reports whether anything exists at path.
func (b *Billy) Exists(path string) bool {
	_, err := b.fs.Stat(path)
	return err == nil
}

// IsDirectory reports whether path is a directory. A missing path is an error.
func (b *Billy) IsDirectory(path string) (bool, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return false, svperrors.FileSystem("Failed to check directory", path, err)
	}
	return info.IsDir(), nil
}

// ReadDir returns the entry names in path, sorted.
func (b *Billy) ReadDir(path string) ([]string, error) {
	infos, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, svperrors.FileSystem("Failed to read directory", path, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// CopyFile copies src to dst. Both paths must pass the containment check.
func (b *Billy) CopyFile(src, dst string) error {
	if err := b.guard(src); err != nil {
		return err
	}
	if err := b.guard(dst); err != nil {
		return err
	}

	in, err := b.fs.Open(src)
	if err != nil {
		return svperrors.FileSystem("Failed to copy file", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := b.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePerm)
	if err != nil {
		return svperrors.FileSystem("Failed to copy file", dst, err)
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return svperrors.FileSystem("Failed to copy file", src, err)
	}
	if err = out.Close(); err != nil {
		return svperrors.FileSystem("Failed to copy file", dst, err)
	}
	return nil
}

// Remove deletes a file or an empty directory. A missing path is not an error.
func (b *Billy) Remove(path string) error {
	if err := b.guard(path); err != nil {
		return err
	}
	if err := b.fs.Remove(path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return svperrors.FileSystem("Failed to remove file", path, err)
	}
	return nil
}

var errParentNotDir = stderrors.New("parent is not a directory")

//nolint:gochecknoglobals // process-wide temp name sequence
var tmpCounter atomic.Uint64
