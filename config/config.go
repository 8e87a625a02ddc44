package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tinted-terminal/preset"
)

// EnvPrefix is prepended to every environment override, e.g. TINT_PORT.
const EnvPrefix = "TINT"

// Config holds the server settings.
type Config struct {
	Port            string `mapstructure:"port"`
	PreferencesFile string `mapstructure:"preferences_file"`
	Shell           string `mapstructure:"shell"`
	DefaultPreset   int    `mapstructure:"default_preset"`
	Log             Log    `mapstructure:"log"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Load reads configuration from defaults, an optional file, the .env file in
// the working directory, and the environment, in increasing precedence.
// An empty path skips the config file.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names the service accepted before the TINT_ prefix existed.
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")
	_ = v.BindEnv("preferences_file", EnvPrefix+"_PREFERENCES_FILE", "PRESET_FILE")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("preferences_file", "/data/preferences.json")
	v.SetDefault("shell", "bash")
	v.SetDefault("default_preset", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	if !preset.InRange(c.DefaultPreset) {
		return fmt.Errorf("default_preset: %w: %d", preset.ErrOutOfRange, c.DefaultPreset)
	}
	if strings.TrimSpace(c.Shell) == "" {
		return errors.New("shell must not be empty")
	}
	if strings.TrimSpace(strings.TrimPrefix(c.Port, ":")) == "" {
		return errors.New("port must not be empty")
	}
	return nil
}
