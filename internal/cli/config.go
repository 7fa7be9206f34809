package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/matzehuels/quaff/pkg/errors"
)

// Config holds CLI defaults read from a config file and the environment.
type Config struct {
	// Extensions restricts the walked extensions. Empty means all
	// declarative formats.
	Extensions []string `mapstructure:"extensions"`

	// IncludeScripts makes directory loads pick up script data sources.
	IncludeScripts bool `mapstructure:"include_scripts"`

	// Format is the default output format of load and file.
	Format string `mapstructure:"format"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	Serve ServeConfig `mapstructure:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Format: outputJSON,
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// LoadConfig reads path, or quaff.{yaml,yml,toml,json} from the working
// directory when path is empty. A missing default file is not an error. It
// returns the config and the file it came from, if any.
func LoadConfig(ctx context.Context, path string) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("include_scripts", defaults.IncludeScripts)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("serve.addr", defaults.Serve.Addr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
		}
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validateOutputFormat(cfg.Format); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}
