// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration. It sets tool-level defaults;
// the mapping document itself is a separate per-project file.
type Config struct {
	Mapping string `mapstructure:"mapping"`
	Output  struct {
		Indent int  `mapstructure:"indent"`
		Color  bool `mapstructure:"color"`
	} `mapstructure:"output"`
	Watch struct {
		DebounceMs int `mapstructure:"debounce_ms"`
	} `mapstructure:"watch"`
}

// Load reads the configuration from ~/.sheetxml/config.yaml and environment
// variables prefixed with SHEETXML.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// Defaults
	viper.SetDefault("mapping", "mapping.json")
	viper.SetDefault("output.indent", 2)
	viper.SetDefault("output.color", true)
	viper.SetDefault("watch.debounce_ms", 500)

	// Environment variable overrides
	viper.SetEnvPrefix("SHEETXML")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetxml"
	}
	return filepath.Join(home, ".sheetxml")
}

// Path returns the configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Init writes a default config file if none exists. It reports whether a
// file was created.
func Init() (bool, error) {
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return false, err
	}
	defaults := `# sheetxml configuration
mapping: mapping.json
output:
  indent: 2
  color: true
watch:
  debounce_ms: 500
`
	if err := os.WriteFile(path, []byte(defaults), 0644); err != nil {
		return false, err
	}
	return true, nil
}
