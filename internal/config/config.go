// Package config provides layered configuration for start-vibe-project.
//
// Sources, highest precedence first:
//  1. CLI flags bound by the caller
//  2. Environment variables (SVP_* prefix; LOG_LEVEL is honoured for log.level)
//  3. An explicit --config file
//  4. The global config file ($XDG_CONFIG_HOME/start-vibe-project/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Assets    AssetsConfig    `yaml:"assets" mapstructure:"assets"`
	Shell     ShellConfig     `yaml:"shell" mapstructure:"shell"`
	Skills    SkillsConfig    `yaml:"skills" mapstructure:"skills"`
	Companion CompanionConfig `yaml:"companion" mapstructure:"companion"`
	Git       GitConfig       `yaml:"git" mapstructure:"git"`
	Progress  ProgressConfig  `yaml:"progress" mapstructure:"progress"`
}

// LogConfig controls the console and file loggers.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `yaml:"level" mapstructure:"level"`

	// File enables the rotating log file under the XDG state directory.
	File bool `yaml:"file" mapstructure:"file"`
}

// AssetsConfig locates the packaged templates and data.
type AssetsConfig struct {
	// Root overrides the upward search for the asset manifest.
	Root string `yaml:"root" mapstructure:"root"`
}

// ShellConfig holds settings for external commands.
type ShellConfig struct {
	// Timeout applies to commands that do not set their own.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SkillsConfig holds settings for skill installation.
type SkillsConfig struct {
	// Command launches the skills-installer CLI.
	Command string `yaml:"command" mapstructure:"command"`

	// Timeout bounds one source install.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Breaker BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// RetryConfig is the per-source retry policy.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" mapstructure:"multiplier"`
}

// BreakerConfig is the circuit breaker guarding the attempts of one skill source.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeout     time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout"`
	HalfOpenMaxCalls int           `yaml:"half_open_max_calls" mapstructure:"half_open_max_calls"`
}

// CompanionConfig controls the global companion-tool install during finalize.
type CompanionConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Package string        `yaml:"package" mapstructure:"package"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GitConfig controls repository initialization during finalize.
type GitConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	CommitMessage string `yaml:"commit_message" mapstructure:"commit_message"`
}

// ProgressConfig locates progress and lock files.
type ProgressConfig struct {
	// Dir is relative to the working directory unless absolute.
	Dir string `yaml:"dir" mapstructure:"dir"`
}
