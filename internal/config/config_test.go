package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cddarip/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CDDARIP_DEVICE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, "Music", "cddarip")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	wantDB := filepath.Join(tempHome, ".local", "share", "cddarip", "library.db")
	if cfg.Paths.LibraryDB != wantDB {
		t.Fatalf("unexpected library db: got %q want %q", cfg.Paths.LibraryDB, wantDB)
	}
	if cfg.Drive.Device != "/dev/sr0" {
		t.Fatalf("unexpected device: %q", cfg.Drive.Device)
	}
	if cfg.Drive.ReadBatchSectors != 32 || cfg.Drive.MaxPasses != 9 {
		t.Fatalf("unexpected drive defaults: %+v", cfg.Drive)
	}
	if cfg.Encoder.Name != "wav" || cfg.Encoder.Format != "wav" {
		t.Fatalf("unexpected encoder defaults: %+v", cfg.Encoder)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndDeviceEnvOverride(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CDDARIP_DEVICE", "/dev/sr1")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
output_dir = "~/rips"

[drive]
device = "/dev/sr0"
read_batch_sectors = 16
max_passes = 3

[encoder]
name = "FFmpeg"
format = ".FLAC"
settings = "  -compression_level 8 "

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "rips") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Drive.Device != "/dev/sr1" {
		t.Fatalf("expected env device override, got %q", cfg.Drive.Device)
	}
	if cfg.Drive.ReadBatchSectors != 16 || cfg.Drive.MaxPasses != 3 {
		t.Fatalf("unexpected drive settings: %+v", cfg.Drive)
	}
	if cfg.Encoder.Name != "ffmpeg" || cfg.Encoder.Format != "flac" {
		t.Fatalf("expected normalized encoder, got %+v", cfg.Encoder)
	}
	if cfg.Encoder.Settings != "-compression_level 8" {
		t.Fatalf("unexpected encoder settings: %q", cfg.Encoder.Settings)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "batch too large",
			mutate: func(c *config.Config) { c.Drive.ReadBatchSectors = 76 },
			want:   "read_batch_sectors",
		},
		{
			name:   "negative passes",
			mutate: func(c *config.Config) { c.Drive.MaxPasses = -1 },
			want:   "max_passes",
		},
		{
			name:   "unknown encoder",
			mutate: func(c *config.Config) { c.Encoder.Name = "lame" },
			want:   "encoder.name",
		},
		{
			name:   "wav encoder with mp3 format",
			mutate: func(c *config.Config) { c.Encoder.Format = "mp3" },
			want:   "encoder.format",
		},
		{
			name: "ffmpeg unsupported format",
			mutate: func(c *config.Config) {
				c.Encoder.Name = "ffmpeg"
				c.Encoder.Format = "ape"
			},
			want: "encoder.format",
		},
		{
			name:   "log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
		{
			name:   "empty output",
			mutate: func(c *config.Config) { c.Paths.OutputDir = "" },
			want:   "output_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	if _, _, _, err := config.Load(dir); err == nil {
		t.Fatal("expected error for directory config path")
	}
}

func TestCreateSampleProducesParsableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config did not parse: %v", err)
	}
	if cfg.Drive.MaxPasses != 9 {
		t.Fatalf("unexpected sample max_passes: %d", cfg.Drive.MaxPasses)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed validation: %v", err)
	}
}

func TestEnsureDirectoriesCreatesStateAndLogs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LibraryDB = filepath.Join(base, "db", "library.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LibraryDB)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
