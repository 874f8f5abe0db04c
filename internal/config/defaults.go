package config

import (
	"github.com/spf13/viper"

	"github.com/itechmeat/start-vibe-project/internal/constants"
)

// DefaultSkillRetryAttempts is lower than the generic retry default: a
// failing source is usually a typo or a missing repository, not a flake.
const DefaultSkillRetryAttempts = 2

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			File:  true,
		},
		Shell: ShellConfig{
			Timeout: constants.DefaultCommandTimeout,
		},
		Skills: SkillsConfig{
			Command: constants.SkillsCommand,
			Timeout: constants.SkillInstallTimeout,
			Retry: RetryConfig{
				MaxAttempts:  DefaultSkillRetryAttempts,
				InitialDelay: constants.InitialBackoff,
				MaxDelay:     constants.MaxBackoff,
				Multiplier:   constants.BackoffMultiplier,
			},
			Breaker: BreakerConfig{
				FailureThreshold: constants.BreakerFailureThreshold,
				ResetTimeout:     constants.BreakerResetTimeout,
				HalfOpenMaxCalls: constants.BreakerHalfOpenMaxCalls,
			},
		},
		Companion: CompanionConfig{
			Enabled: true,
			Package: constants.CompanionPackage,
			Timeout: constants.CompanionInstallTimeout,
		},
		Git: GitConfig{
			Enabled:       true,
			CommitMessage: constants.InitialCommitMessage,
		},
		Progress: ProgressConfig{
			Dir: constants.ProgressDir,
		},
	}
}

// setDefaults registers DefaultConfig on v.
// IMPORTANT: Keys must match the mapstructure tags exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("assets.root", d.Assets.Root)

	v.SetDefault("shell.timeout", d.Shell.Timeout.String())

	v.SetDefault("skills.command", d.Skills.Command)
	v.SetDefault("skills.timeout", d.Skills.Timeout.String())
	v.SetDefault("skills.retry.max_attempts", d.Skills.Retry.MaxAttempts)
	v.SetDefault("skills.retry.initial_delay", d.Skills.Retry.InitialDelay.String())
	v.SetDefault("skills.retry.max_delay", d.Skills.Retry.MaxDelay.String())
	v.SetDefault("skills.retry.multiplier", d.Skills.Retry.Multiplier)
	v.SetDefault("skills.breaker.failure_threshold", d.Skills.Breaker.FailureThreshold)
	v.SetDefault("skills.breaker.reset_timeout", d.Skills.Breaker.ResetTimeout.String())
	v.SetDefault("skills.breaker.half_open_max_calls", d.Skills.Breaker.HalfOpenMaxCalls)

	v.SetDefault("companion.enabled", d.Companion.Enabled)
	v.SetDefault("companion.package", d.Companion.Package)
	v.SetDefault("companion.timeout", d.Companion.Timeout.String())

	v.SetDefault("git.enabled", d.Git.Enabled)
	v.SetDefault("git.commit_message", d.Git.CommitMessage)

	v.SetDefault("progress.dir", d.Progress.Dir)
}
