package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "cuesync"

// Playback controls the simulated media clock used by `play`.
type Playback struct {
	Interval time.Duration `yaml:"interval"`
	Rate     float64       `yaml:"rate"`
}

// Transcribe holds speech-to-text defaults for `generate`.
type Transcribe struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	Language     string `yaml:"language"`
	ChunkMinutes int    `yaml:"chunk_minutes"`
	Concurrency  int    `yaml:"concurrency"`
}

type Config struct {
	// VaultDir is where relative video paths in notes are resolved.
	VaultDir   string     `yaml:"vault_dir"`
	Playback   Playback   `yaml:"playback"`
	Transcribe Transcribe `yaml:"transcribe"`

	path string
}

func Default() *Config {
	return &Config{
		Playback: Playback{
			Interval: 250 * time.Millisecond,
			Rate:     1,
		},
		Transcribe: Transcribe{
			Provider:     "gemini",
			ChunkMinutes: 1,
			Concurrency:  3,
		},
	}
}

// DefaultPath is the config file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.yaml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.VaultDir = expandHome(strings.TrimSpace(cfg.VaultDir))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	if c.Playback.Interval <= 0 {
		return fmt.Errorf("playback.interval must be positive")
	}
	if c.Playback.Rate <= 0 {
		return fmt.Errorf("playback.rate must be positive")
	}
	switch strings.ToLower(c.Transcribe.Provider) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("transcribe.provider %q is not supported (use gemini or openai)", c.Transcribe.Provider)
	}
	if c.Transcribe.ChunkMinutes <= 0 {
		return fmt.Errorf("transcribe.chunk_minutes must be positive")
	}
	if c.Transcribe.Concurrency <= 0 {
		return fmt.Errorf("transcribe.concurrency must be positive")
	}
	return nil
}

// APIKey returns the credential for provider from the environment.
func APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
