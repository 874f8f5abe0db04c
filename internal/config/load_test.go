package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromPaths_Defaults(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, constants.SkillInstallTimeout, cfg.Skills.Timeout)
	assert.Equal(t, DefaultSkillRetryAttempts, cfg.Skills.Retry.MaxAttempts)
	assert.Equal(t, constants.CompanionPackage, cfg.Companion.Package)
	assert.True(t, cfg.Git.Enabled)
}

func TestLoadFromPaths_MissingGlobalIsIgnored(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(), "", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromPaths_ExplicitFileOverridesGlobal(t *testing.T) {
	global := writeConfig(t, t.TempDir(), `
log:
  level: warn
skills:
  timeout: 90s
  retry:
    max_attempts: 4
git:
  commit_message: "chore: global"
`)
	explicit := writeConfig(t, t.TempDir(), `
skills:
  retry:
    max_attempts: 1
companion:
  enabled: false
`)

	cfg, err := LoadFromPaths(context.Background(), explicit, global)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 90*time.Second, cfg.Skills.Timeout)
	assert.Equal(t, 1, cfg.Skills.Retry.MaxAttempts)
	assert.False(t, cfg.Companion.Enabled)
	assert.Equal(t, "chore: global", cfg.Git.CommitMessage)
	assert.Equal(t, constants.BreakerResetTimeout, cfg.Skills.Breaker.ResetTimeout)
}

func TestLoadFromPaths_MissingExplicitFile(t *testing.T) {
	_, err := LoadFromPaths(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.ErrorIs(t, err, errors.ErrConfigNotFound)
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestLoadFromPaths_InvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "skills:\n  retry:\n    max_attempts: 0\n")

	_, err := LoadFromPaths(context.Background(), path, "")
	require.ErrorIs(t, err, errors.ErrValidation)
	assert.Contains(t, err.Error(), "skills.retry.max_attempts")
}

func TestLoadFromPaths_EnvironmentOverridesFiles(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "git:\n  enabled: true\n")
	t.Setenv("SVP_GIT_ENABLED", "false")
	t.Setenv("SVP_SKILLS_TIMEOUT", "2m")

	cfg, err := LoadFromPaths(context.Background(), path, "")
	require.NoError(t, err)
	assert.False(t, cfg.Git.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Skills.Timeout)
}

func TestLoadFromPaths_LegacyLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromPaths_FlagsOverrideFiles(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "git:\n  enabled: true\nassets:\n  root: /from/file\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("git", true, "")
	fs.String("assets-root", "", "")
	require.NoError(t, fs.Parse([]string{"--git=false"}))

	cfg, err := LoadFromPaths(context.Background(), path, "",
		FlagBinding{Key: "git.enabled", Flag: fs.Lookup("git")},
		FlagBinding{Key: "assets.root", Flag: fs.Lookup("assets-root")},
		FlagBinding{Key: "ignored", Flag: nil},
	)
	require.NoError(t, err)
	assert.False(t, cfg.Git.Enabled)
	assert.Equal(t, "/from/file", cfg.Assets.Root, "unset flags do not override")
}

func TestProgressDir(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/work", constants.ProgressDir), ProgressDir(cfg, "/work"))

	cfg.Progress.Dir = "/var/run/svp"
	assert.Equal(t, "/var/run/svp", ProgressDir(cfg, "/work"))
}

func TestPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.AppName, filepath.Base(GlobalConfigDir()))
	assert.Equal(t, constants.GlobalConfigFileName, filepath.Base(GlobalConfigPath()))
	assert.Equal(t, constants.CLILogFileName, filepath.Base(LogFilePath()))
	assert.Equal(t, LogDir(), filepath.Dir(LogFilePath()))
}
