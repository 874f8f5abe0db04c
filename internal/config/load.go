package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/itechmeat/start-vibe-project/internal/errors"
)

// EnvPrefix is the prefix of configuration environment variables.
const EnvPrefix = "SVP"

// newViperInstance creates a Viper instance with defaults, the SVP_ prefix
// and the key replacer applied.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// LOG_LEVEL predates the SVP_ prefix.
	_ = v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	return v
}

// FlagBinding maps a command-line flag onto a config key. The flag wins over
// every other layer, but only when the user set it.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// Load reads the global config file, then configFile if given, then the
// environment, then bound flags. A missing global file is fine; a missing
// explicit file is an error.
func Load(ctx context.Context, configFile string, flags ...FlagBinding) (*Config, error) {
	return LoadFromPaths(ctx, configFile, GlobalConfigPath(), flags...)
}

// LoadFromPaths is Load with an explicit global config path. An empty
// globalPath skips the global layer.
func LoadFromPaths(ctx context.Context, configFile, globalPath string, flags ...FlagBinding) (*Config, error) {
	v := newViperInstance()

	for _, b := range flags {
		if b.Flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, b.Flag); err != nil {
			return nil, errors.Wrapf(err, "failed to bind flag %s", b.Flag.Name)
		}
	}

	if globalPath != "" && fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalPath)
		}
	}

	if configFile != "" {
		if !fileExists(configFile) {
			return nil, errors.NewError(errors.ErrConfigNotFound, "Config file not found: "+configFile).
				WithContext("path", configFile)
		}
		v.SetConfigFile(configFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config: %s", configFile)
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("log.level", cfg.Log.Level).
		Dur("skills.timeout", cfg.Skills.Timeout).
		Int("skills.retry.max_attempts", cfg.Skills.Retry.MaxAttempts).
		Bool("git.enabled", cfg.Git.Enabled).
		Msg("configuration loaded")

	return cfg, nil
}

// unmarshalAndValidate unmarshals v into a Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isConfigNotFoundError reports whether err is viper's missing-file error.
func isConfigNotFoundError(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// viperDecoderOption decodes duration strings such as "30s".
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
