package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Organize holds the defaults for organizing flags; command-line flags win
// over anything set here.
type Organize struct {
	Recursive        bool     `toml:"recursive"`
	Daily            bool     `toml:"daily"`
	NoYear           bool     `toml:"no_year"`
	Copy             bool     `toml:"copy"`
	DeleteDuplicates bool     `toml:"delete_duplicates"`
	Exif             bool     `toml:"exif"`
	Endings          []string `toml:"endings"`
	Exclude          string   `toml:"exclude"`
	ExcludeRegex     bool     `toml:"exclude_regex"`
	Workers          int      `toml:"workers"`
}

// Hashing bounds the duplicate-detection fingerprinter.
type Hashing struct {
	MaxSizeMiB int64 `toml:"max_size_mib"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Progress struct {
	Disabled bool `toml:"disabled"`
}

type Config struct {
	Organize Organize `toml:"organize"`
	Hashing  Hashing  `toml:"hashing"`
	Logging  Logging  `toml:"logging"`
	Progress Progress `toml:"progress"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{Workers: 1},
		Hashing:  Hashing{MaxSizeMiB: 100},
		Logging:  Logging{Level: "warn", Format: "console"},
	}
}

// Load reads the TOML config at path, or the default location when path is
// empty. A missing file is not an error; defaults apply. Returns the config,
// the resolved path, and whether a file was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = "~/.config/phorg/config.toml"
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return filepath.Abs(path)
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Organize.Exclude = strings.TrimSpace(c.Organize.Exclude)
	if c.Organize.Workers < 1 {
		c.Organize.Workers = 1
	}
	if c.Hashing.MaxSizeMiB < 1 {
		c.Hashing.MaxSizeMiB = 100
	}
}

// Validate rejects values the rest of the program would choke on later.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// MaxHashBytes converts the configured hashing bound to bytes.
func (c *Config) MaxHashBytes() int64 {
	return c.Hashing.MaxSizeMiB << 20
}

// EnvOrEmpty returns the trimmed value of an environment variable.
func EnvOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// EnvTruthy interprets common affirmative spellings of an env toggle.
func EnvTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
