// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/yuanying/narou2epub/internal/narou"
)

// Config holds the user-tunable settings. Command line flags override any
// value loaded from the file.
type Config struct {
	Horizontal bool    `toml:"horizontal"` // left-to-right pages with horizontal text
	Wait       float64 `toml:"wait"`       // seconds between episode fetches
	OutputDir  string  `toml:"output_dir"` // where finished EPUBs are placed
	UserAgent  string  `toml:"user_agent"` // sent with every request
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Wait:      1.0,
		OutputDir: ".",
		UserAgent: narou.AgentName,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "narou2epub", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error;
// Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Wait < 0 {
		return cfg, fmt.Errorf("config %s: wait must not be negative", path)
	}
	return cfg, nil
}
