// Package assets loads the packaged templates, file assets and data files
// that ship alongside the start-vibe-project binary.
//
// The asset root is the first directory, walking upward from a set of start
// directories, that contains the start-vibe-project.yaml manifest. Logical
// asset paths are resolved under fixed subdirectories of that root.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// Loader resolves logical asset paths to file content.
// Safe for concurrent use. The root lookup runs once per Loader on success.
type Loader struct {
	fs        filesystem.FileSystem
	startDirs []string

	mu   sync.Mutex
	root string
}

// Option configures a Loader.
type Option func(*Loader)

// WithRoot uses root directly instead of searching for the manifest.
// An empty root is ignored.
func WithRoot(root string) Option {
	return func(l *Loader) {
		if root != "" {
			l.startDirs = append([]string{root}, l.startDirs...)
		}
	}
}

// WithStartDirs replaces the default search start directories.
func WithStartDirs(dirs ...string) Option {
	return func(l *Loader) {
		l.startDirs = dirs
	}
}

// NewLoader creates a Loader reading through fs. By default the search
// starts at the executable's directory, this source file's directory and
// the working directory, in that order.
func NewLoader(fs filesystem.FileSystem, opts ...Option) *Loader {
	l := &Loader{fs: fs, startDirs: defaultStartDirs()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func defaultStartDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		if resolved, rerr := filepath.EvalSymlinks(exe); rerr == nil {
			exe = resolved
		}
		dirs = append(dirs, filepath.Dir(exe))
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		dirs = append(dirs, filepath.Dir(file))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}

// LoadTemplate returns the content of templates/<logicalPath>.
func (l *Loader) LoadTemplate(logicalPath string) (string, error) {
	return l.load(constants.TemplatesDir, logicalPath, "Failed to load template")
}

// LoadFileAsset returns the content of files/<logicalPath>.
func (l *Loader) LoadFileAsset(logicalPath string) (string, error) {
	return l.load(constants.FilesDir, logicalPath, "Failed to load file asset")
}

// LoadData returns the content of data/<logicalPath>.
func (l *Loader) LoadData(logicalPath string) (string, error) {
	return l.load(constants.DataDir, logicalPath, "Failed to load data file")
}

// Root returns the asset root, searching for it on first use.
func (l *Loader) Root() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.root != "" {
		return l.root, nil
	}

	for _, start := range l.startDirs {
		if root, ok := l.findRoot(start); ok {
			l.root = root
			return root, nil
		}
	}

	return "", svperrors.TemplateLoad(
		fmt.Sprintf("Could not locate %s starting from %s", constants.AssetManifest, strings.Join(l.startDirs, ", ")),
		"package-root-not-found",
		nil,
	)
}

func (l *Loader) findRoot(start string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for range constants.MaxRootSearchDepth {
		if l.fs.Exists(filepath.Join(current, constants.AssetManifest)) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", false
}

func (l *Loader) load(subdir, logicalPath, failure string) (string, error) {
	if err := validateLogicalPath(logicalPath); err != nil {
		return "", err
	}

	root, err := l.Root()
	if err != nil {
		return "", err
	}

	content, err := l.fs.ReadFile(filepath.Join(root, subdir, filepath.FromSlash(logicalPath)))
	if err != nil {
		return "", svperrors.TemplateLoad(fmt.Sprintf("%s: %s", failure, err.Error()), logicalPath, err)
	}
	return content, nil
}

// validateLogicalPath keeps logical paths inside their asset subdirectory.
func validateLogicalPath(logicalPath string) error {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(logicalPath)))
	if logicalPath == "" || filepath.IsAbs(logicalPath) || clean == ".." || strings.HasPrefix(clean, "../") {
		return svperrors.TemplateLoad(fmt.Sprintf("Invalid asset path %q", logicalPath), logicalPath, svperrors.ErrPathSecurity)
	}
	return nil
}
