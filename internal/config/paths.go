package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/itechmeat/start-vibe-project/internal/constants"
)

// GlobalConfigDir returns $XDG_CONFIG_HOME/start-vibe-project.
func GlobalConfigDir() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName)
}

// GlobalConfigPath returns the full path of the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), constants.GlobalConfigFileName)
}

// StateDir returns $XDG_STATE_HOME/start-vibe-project.
func StateDir() string {
	return filepath.Join(xdg.StateHome, constants.AppName)
}

// LogDir returns the directory of the rotating CLI log.
func LogDir() string {
	return filepath.Join(StateDir(), constants.LogsDir)
}

// LogFilePath returns the rotating CLI log file path.
func LogFilePath() string {
	return filepath.Join(LogDir(), constants.CLILogFileName)
}

// ProgressDir resolves cfg's progress directory against cwd.
func ProgressDir(cfg *Config, cwd string) string {
	if filepath.IsAbs(cfg.Progress.Dir) {
		return cfg.Progress.Dir
	}
	return filepath.Join(cwd, cfg.Progress.Dir)
}
