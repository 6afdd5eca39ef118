// Package config loads playlens settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/playlens/internal/actionrender"
	"github.com/abhisek/playlens/internal/llm"
	"github.com/abhisek/playlens/internal/playthrough"
)

// Config is the full settings tree. Zero-valued sections in the file keep
// their defaults.
type Config struct {
	// DB is the SQLite database path. Empty means the XDG default.
	DB       string `yaml:"db"`
	LogLevel string `yaml:"log_level"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `yaml:"log_file"`

	Playthrough PlaythroughConfig `yaml:"playthrough"`
	Render      RenderConfig      `yaml:"render"`
	LLM         llm.Config        `yaml:"llm"`
}

// PlaythroughConfig controls recording and issue detection.
type PlaythroughConfig struct {
	// RecordingProbability is the fraction of sessions recorded, in [0, 1].
	RecordingProbability float64                `yaml:"recording_probability"`
	Thresholds           playthrough.Thresholds `yaml:"thresholds"`
}

// RenderConfig controls how playthroughs are shown to authors.
type RenderConfig struct {
	MinBlockSize int `yaml:"min_block_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Playthrough: PlaythroughConfig{
			RecordingProbability: 0.2,
			Thresholds:           playthrough.DefaultThresholds(),
		},
		Render: RenderConfig{MinBlockSize: actionrender.MinBlockSize},
		LLM:    llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/playlens/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "playlens", "config.yaml"), nil
}

// Load reads path over the defaults and then applies PLAYLENS_*
// environment overrides. An empty path means DefaultPath; a missing file
// at the default path is not an error. A zero render.min_block_size means
// the default.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Render.MinBlockSize == 0 {
		cfg.Render.MinBlockSize = actionrender.MinBlockSize
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PLAYLENS_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("PLAYLENS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLAYLENS_RECORDING_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PLAYLENS_RECORDING_PROBABILITY: %w", err)
		}
		cfg.Playthrough.RecordingProbability = p
	}
	llm.ApplyEnv(&cfg.LLM)
	return nil
}

// Validate rejects settings no component can work with. LLM settings are
// checked only when a command needs a provider.
func (c Config) Validate() error {
	var errs []error
	if p := c.Playthrough.RecordingProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("playthrough.recording_probability %v is outside [0, 1]", p))
	}
	th := c.Playthrough.Thresholds
	if th.NumIncorrectAnswers < 1 || th.NumRepeatedCycles < 1 || th.EarlyQuitSecs < 0 {
		errs = append(errs, fmt.Errorf("playthrough.thresholds %+v: counts must be positive", th))
	}
	if c.Render.MinBlockSize < 1 {
		errs = append(errs, fmt.Errorf("render.min_block_size must be at least 1"))
	}
	return errors.Join(errs...)
}
