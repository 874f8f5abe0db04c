package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/errors"
)

// Validate checks cfg and returns a VALIDATION error for the first invalid
// value.
//
// Validation rules:
//   - log.level must be a zerolog level name
//   - every timeout and delay must be positive
//   - skills.retry.max_attempts >= 1 and skills.retry.multiplier >= 1
//   - breaker threshold and half-open limit >= 1
//   - skills.command, companion.package and git.commit_message must not be empty
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Internal("config is nil", nil)
	}

	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || lvl == zerolog.NoLevel {
		return invalid("log.level", "must be a valid log level, got %q", cfg.Log.Level)
	}

	if cfg.Shell.Timeout <= 0 {
		return invalid("shell.timeout", "must be positive, got %s", cfg.Shell.Timeout)
	}

	if err := validateSkills(&cfg.Skills); err != nil {
		return err
	}

	if cfg.Companion.Timeout <= 0 {
		return invalid("companion.timeout", "must be positive, got %s", cfg.Companion.Timeout)
	}
	if strings.TrimSpace(cfg.Companion.Package) == "" {
		return invalid("companion.package", "must not be empty")
	}

	if strings.TrimSpace(cfg.Git.CommitMessage) == "" {
		return invalid("git.commit_message", "must not be empty")
	}

	if strings.TrimSpace(cfg.Progress.Dir) == "" {
		return invalid("progress.dir", "must not be empty")
	}
	return nil
}

func validateSkills(cfg *SkillsConfig) error {
	if strings.TrimSpace(cfg.Command) == "" {
		return invalid("skills.command", "must not be empty")
	}
	if cfg.Timeout <= 0 {
		return invalid("skills.timeout", "must be positive, got %s", cfg.Timeout)
	}

	r := cfg.Retry
	if r.MaxAttempts < 1 {
		return invalid("skills.retry.max_attempts", "must be at least 1, got %d", r.MaxAttempts)
	}
	if r.InitialDelay <= 0 {
		return invalid("skills.retry.initial_delay", "must be positive, got %s", r.InitialDelay)
	}
	if r.MaxDelay < r.InitialDelay {
		return invalid("skills.retry.max_delay", "must not be below initial_delay, got %s", r.MaxDelay)
	}
	if r.Multiplier < 1 {
		return invalid("skills.retry.multiplier", "must be at least 1, got %g", r.Multiplier)
	}

	b := cfg.Breaker
	if b.FailureThreshold < 1 {
		return invalid("skills.breaker.failure_threshold", "must be at least 1, got %d", b.FailureThreshold)
	}
	if b.ResetTimeout <= 0 {
		return invalid("skills.breaker.reset_timeout", "must be positive, got %s", b.ResetTimeout)
	}
	if b.HalfOpenMaxCalls < 1 {
		return invalid("skills.breaker.half_open_max_calls", "must be at least 1, got %d", b.HalfOpenMaxCalls)
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return errors.Validation(key+" "+fmt.Sprintf(format, args...)).WithContext("key", key)
}
