package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mediapress.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
upload_dir: /srv/uploads
output_dir: /srv/out
request_timeout: 30s
huffman:
  source_quality: 80
video:
  preset: fast
archive:
  enable: true
  codec: lz4
  level: 3
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.UploadDir != "/srv/uploads" || cfg.OutputDir != "/srv/out" {
		t.Fatalf("dirs %q %q", cfg.UploadDir, cfg.OutputDir)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("timeout %s", cfg.RequestTimeout)
	}
	if cfg.Video.Preset != "fast" || cfg.Video.Codec != "libx264" {
		t.Fatalf("video %+v", cfg.Video)
	}
	if cfg.MaxFileSizeBytes != 100*1024*1024 {
		t.Fatalf("unset fields should keep defaults, max size %d", cfg.MaxFileSizeBytes)
	}

	opts := cfg.EngineOptions()
	if opts.HuffmanOptions.SourceQuality != 80 || !opts.ArchiveOptions.Enable || opts.ArchiveOptions.Codec != "lz4" || opts.ArchiveOptions.Level != 3 {
		t.Fatalf("engine options %+v %+v", opts.HuffmanOptions, opts.ArchiveOptions)
	}
	if opts.VideoOptions.BinaryPath != "ffmpeg" || opts.RequestTimeout != 30*time.Second {
		t.Fatalf("engine options %+v", opts)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MEDIAPRESS_OUTPUT_DIR", "/env/out")
	t.Setenv("MEDIAPRESS_MAX_FILE_SIZE_BYTES", "2048")
	t.Setenv("MEDIAPRESS_REQUEST_TIMEOUT", "1m")
	t.Setenv("MEDIAPRESS_ARCHIVE_ENABLE", "true")
	t.Setenv("MEDIAPRESS_FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")

	cfg, err := LoadConfig(writeConfig(t, "output_dir: /file/out\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.OutputDir != "/env/out" {
		t.Fatalf("env should override the file, got %q", cfg.OutputDir)
	}
	if cfg.MaxFileSizeBytes != 2048 || cfg.RequestTimeout != time.Minute || !cfg.Archive.Enable {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Video.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg path %q", cfg.Video.FFmpegPath)
	}
}

func TestEnvironmentParseErrors(t *testing.T) {
	for _, key := range []string{
		"MEDIAPRESS_MAX_FILE_SIZE_BYTES",
		"MEDIAPRESS_REQUEST_TIMEOUT",
		"MEDIAPRESS_ARCHIVE_LEVEL",
		"MEDIAPRESS_TELEMETRY_ENABLE",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-value")
			if _, err := LoadConfig(""); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := map[string]func(*Config){
		"empty upload dir": func(c *Config) { c.UploadDir = "" },
		"zero max size":    func(c *Config) { c.MaxFileSizeBytes = 0 },
		"negative timeout": func(c *Config) { c.RequestTimeout = -time.Second },
		"bad log level":    func(c *Config) { c.LogLevel = "verbose" },
		"bad quality":      func(c *Config) { c.Huffman.SourceQuality = 0 },
		"no ffmpeg":        func(c *Config) { c.Video.FFmpegPath = "" },
		"bad codec":        func(c *Config) { c.Archive.Codec = "brotli" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadConfig(writeConfig(t, "upload_dir: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}
