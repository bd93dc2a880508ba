package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the optional user configuration file. Flags always take
// precedence; the file only supplies defaults.
type Config struct {
	Quality      int               `yaml:"quality,omitempty"`
	Threads      int               `yaml:"threads,omitempty"`
	TargetFormat string            `yaml:"target_format,omitempty"`
	ReportPrefix string            `yaml:"report_prefix,omitempty"`
	Presets      map[string]Preset `yaml:"presets,omitempty"`
}

// Preset is a named bundle of optimization options.
type Preset struct {
	Quality          int    `yaml:"quality,omitempty"`
	Resize           string `yaml:"resize,omitempty"`
	TargetFormat     string `yaml:"target_format,omitempty"`
	PreserveMetadata bool   `yaml:"preserve_metadata,omitempty"`
	Watermark        string `yaml:"watermark,omitempty"`
}

const (
	DefaultQuality      = 85
	DefaultThreads      = 4
	DefaultTargetFormat = "original"
	DefaultReportPrefix = "report"

	// Environment variable overrides.
	EnvThreads = "IMGPRESS_THREADS"
	EnvQuality = "IMGPRESS_QUALITY"
)

var BuiltinPresets = map[string]Preset{
	"web": {
		Quality:      75,
		Resize:       "1920x1080",
		TargetFormat: "webp",
	},
	"archive": {
		Quality:          90,
		TargetFormat:     "avif",
		PreserveMetadata: true,
	},
	"thumbnail": {
		Quality:      80,
		Resize:       "320x320",
		TargetFormat: "jpeg",
	},
	"lossless": {
		TargetFormat: "png",
	},
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imgpress"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if present. A missing file is not an error;
// defaults apply. Environment variables override file values.
func Load() (*Config, error) {
	cfg := &Config{
		Quality:      DefaultQuality,
		Threads:      DefaultThreads,
		TargetFormat: DefaultTargetFormat,
		ReportPrefix: DefaultReportPrefix,
		Presets:      make(map[string]Preset),
	}

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Quality == 0 {
		cfg.Quality = DefaultQuality
	}
	if cfg.Threads == 0 {
		cfg.Threads = DefaultThreads
	}
	if cfg.TargetFormat == "" {
		cfg.TargetFormat = DefaultTargetFormat
	}
	if cfg.ReportPrefix == "" {
		cfg.ReportPrefix = DefaultReportPrefix
	}
	if cfg.Presets == nil {
		cfg.Presets = make(map[string]Preset)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Threads = n
		}
	}
	if v := os.Getenv(EnvQuality); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			cfg.Quality = n
		}
	}
}

func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// GetPreset resolves a preset by name, checking user presets before the
// built-ins.
func (c *Config) GetPreset(name string) (Preset, bool) {
	if preset, ok := c.Presets[name]; ok {
		return preset, true
	}
	if preset, ok := BuiltinPresets[name]; ok {
		return preset, true
	}
	return Preset{}, false
}
