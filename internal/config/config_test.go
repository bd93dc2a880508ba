package config

import (
	"os"
	"path/filepath"
	"testing"
)

// pointHome redirects the config dir to a temp location for the test.
func pointHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	pointHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Quality != DefaultQuality {
		t.Errorf("Quality = %d, want %d", cfg.Quality, DefaultQuality)
	}
	if cfg.Threads != DefaultThreads {
		t.Errorf("Threads = %d, want %d", cfg.Threads, DefaultThreads)
	}
	if cfg.TargetFormat != DefaultTargetFormat {
		t.Errorf("TargetFormat = %q, want %q", cfg.TargetFormat, DefaultTargetFormat)
	}
	if cfg.ReportPrefix != DefaultReportPrefix {
		t.Errorf("ReportPrefix = %q, want %q", cfg.ReportPrefix, DefaultReportPrefix)
	}
}

func TestLoad_FromFile(t *testing.T) {
	home := pointHome(t)

	dir := filepath.Join(home, ".config", "imgpress")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := `quality: 70
threads: 8
target_format: webp
presets:
  mine:
    quality: 55
    resize: 800x600
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Quality != 70 {
		t.Errorf("Quality = %d, want 70", cfg.Quality)
	}
	if cfg.Threads != 8 {
		t.Errorf("Threads = %d, want 8", cfg.Threads)
	}
	if cfg.TargetFormat != "webp" {
		t.Errorf("TargetFormat = %q, want webp", cfg.TargetFormat)
	}

	preset, ok := cfg.GetPreset("mine")
	if !ok {
		t.Fatal("GetPreset(mine) not found")
	}
	if preset.Quality != 55 || preset.Resize != "800x600" {
		t.Errorf("preset = %+v", preset)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	pointHome(t)
	t.Setenv(EnvThreads, "16")
	t.Setenv(EnvQuality, "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Threads != 16 {
		t.Errorf("Threads = %d, want 16 from env", cfg.Threads)
	}
	if cfg.Quality != 42 {
		t.Errorf("Quality = %d, want 42 from env", cfg.Quality)
	}
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	pointHome(t)
	t.Setenv(EnvThreads, "zero")
	t.Setenv(EnvQuality, "400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Threads != DefaultThreads {
		t.Errorf("Threads = %d, want default for bad env value", cfg.Threads)
	}
	if cfg.Quality != DefaultQuality {
		t.Errorf("Quality = %d, want default for out-of-range env value", cfg.Quality)
	}
}

func TestSaveAndLoad(t *testing.T) {
	pointHome(t)

	cfg := &Config{
		Quality:      60,
		Threads:      2,
		TargetFormat: "avif",
		Presets: map[string]Preset{
			"small": {Quality: 50, Resize: "320x320", TargetFormat: "jpeg"},
		},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Quality != 60 || loaded.Threads != 2 || loaded.TargetFormat != "avif" {
		t.Errorf("loaded = %+v", loaded)
	}
	if _, ok := loaded.GetPreset("small"); !ok {
		t.Error("saved preset missing after reload")
	}
}

func TestGetPreset_Builtin(t *testing.T) {
	cfg := &Config{Presets: map[string]Preset{}}

	preset, ok := cfg.GetPreset("web")
	if !ok {
		t.Fatal("builtin preset web not found")
	}
	if preset.TargetFormat != "webp" {
		t.Errorf("web preset format = %q, want webp", preset.TargetFormat)
	}

	if _, ok := cfg.GetPreset("nope"); ok {
		t.Error("GetPreset(nope) should not exist")
	}
}

func TestGetPreset_UserOverridesBuiltin(t *testing.T) {
	cfg := &Config{Presets: map[string]Preset{
		"web": {Quality: 99},
	}}

	preset, _ := cfg.GetPreset("web")
	if preset.Quality != 99 {
		t.Errorf("user preset should shadow builtin, got %+v", preset)
	}
}
