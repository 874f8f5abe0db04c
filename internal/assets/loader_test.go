package assets_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechmeat/start-vibe-project/internal/assets"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// countingFS records Exists probes so memoization can be asserted.
type countingFS struct {
	filesystem.FileSystem

	exists int
}

func (c *countingFS) Exists(path string) bool {
	c.exists++
	return c.FileSystem.Exists(path)
}

func newPackagedFS(t *testing.T) *filesystem.Billy {
	t.Helper()

	fs := filesystem.NewMemory("")
	require.NoError(t, fs.Mkdir("/pkg/bin/nested", true))
	require.NoError(t, fs.WriteFile("/pkg/start-vibe-project.yaml", "name: start-vibe-project\n"))
	require.NoError(t, fs.WriteFile("/pkg/templates/plans/init.md", "# INIT {{name}}\n"))
	require.NoError(t, fs.WriteFile("/pkg/files/.editorconfig", "root = true\n"))
	require.NoError(t, fs.WriteFile("/pkg/files/.github/copilot-instructions.md", "# Copilot\n"))
	require.NoError(t, fs.WriteFile("/pkg/data/skill-registry.json", `{"start_skills":[]}`))
	return fs
}

func TestLoader_LoadsFromEachSubdirectory(t *testing.T) {
	t.Parallel()

	loader := assets.NewLoader(newPackagedFS(t), assets.WithStartDirs("/pkg/bin/nested"))

	got, err := loader.LoadTemplate("plans/init.md")
	require.NoError(t, err)
	assert.Equal(t, "# INIT {{name}}\n", got)

	got, err = loader.LoadFileAsset(".editorconfig")
	require.NoError(t, err)
	assert.Equal(t, "root = true\n", got)

	got, err = loader.LoadFileAsset(".github/copilot-instructions.md")
	require.NoError(t, err)
	assert.Equal(t, "# Copilot\n", got)

	got, err = loader.LoadData("skill-registry.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_skills":[]}`, got)

	root, err := loader.Root()
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/pkg"), root)
}

func TestLoader_MissingTemplate(t *testing.T) {
	t.Parallel()

	loader := assets.NewLoader(newPackagedFS(t), assets.WithStartDirs("/pkg"))

	_, err := loader.LoadTemplate("agents/missing.md")
	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrTemplateLoad)
	assert.Contains(t, err.Error(), "Failed to load template")
	assert.Equal(t, "agents/missing.md", svperrors.Normalize(err).Context["templatePath"])

	_, err = loader.LoadFileAsset("AGENTS.md")
	require.ErrorIs(t, err, svperrors.ErrTemplateLoad)
	assert.Contains(t, err.Error(), "Failed to load file asset")
}

func TestLoader_RootNotFound(t *testing.T) {
	t.Parallel()

	fs := filesystem.NewMemory("")
	require.NoError(t, fs.Mkdir("/elsewhere", true))
	loader := assets.NewLoader(fs, assets.WithStartDirs("/elsewhere"))

	_, err := loader.LoadTemplate("plans/init.md")
	require.ErrorIs(t, err, svperrors.ErrTemplateLoad)
	assert.Contains(t, err.Error(), "Could not locate start-vibe-project.yaml")
}

func TestLoader_SearchDepthIsCapped(t *testing.T) {
	t.Parallel()

	fs := newPackagedFS(t)
	deep := "/pkg/a/b/c/d/e/f/g/h/i"
	require.NoError(t, fs.Mkdir(deep, true))

	loader := assets.NewLoader(fs, assets.WithStartDirs(deep))
	_, err := loader.Root()
	require.ErrorIs(t, err, svperrors.ErrTemplateLoad)
}

func TestLoader_RootIsMemoized(t *testing.T) {
	t.Parallel()

	counting := &countingFS{FileSystem: newPackagedFS(t)}
	loader := assets.NewLoader(counting, assets.WithStartDirs("/pkg/bin/nested"))

	_, err := loader.LoadTemplate("plans/init.md")
	require.NoError(t, err)
	probes := counting.exists

	_, err = loader.LoadFileAsset(".editorconfig")
	require.NoError(t, err)
	assert.Equal(t, probes, counting.exists)
}

func TestLoader_WithRootTakesPrecedence(t *testing.T) {
	t.Parallel()

	fs := newPackagedFS(t)
	require.NoError(t, fs.WriteFile("/override/start-vibe-project.yaml", "name: override\n"))
	require.NoError(t, fs.WriteFile("/override/templates/plans/init.md", "override\n"))

	loader := assets.NewLoader(fs, assets.WithStartDirs("/pkg"), assets.WithRoot("/override"))
	got, err := loader.LoadTemplate("plans/init.md")
	require.NoError(t, err)
	assert.Equal(t, "override\n", got)
}

func TestLoader_RejectsEscapingLogicalPaths(t *testing.T) {
	t.Parallel()

	loader := assets.NewLoader(newPackagedFS(t), assets.WithStartDirs("/pkg"))

	for _, p := range []string{"", "../start-vibe-project.yaml", "/etc/passwd", "plans/../../data/skill-registry.json"} {
		_, err := loader.LoadTemplate(p)
		require.ErrorIs(t, err, svperrors.ErrTemplateLoad, p)
	}
}
