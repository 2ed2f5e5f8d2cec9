// Package config loads mediapress settings from a YAML file, an optional
// .env file and MEDIAPRESS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MEDIAPRESS_"

type Config struct {
	UploadDir        string        `yaml:"upload_dir"`          // Where originals are stored
	OutputDir        string        `yaml:"output_dir"`          // Where artifacts are written
	MaxFileSizeBytes int64         `yaml:"max_file_size_bytes"` // Largest accepted source
	LogLevel         string        `yaml:"log_level"`           // debug, info, warn or error
	RequestTimeout   time.Duration `yaml:"request_timeout"`     // Per-request strategy bound, 0 disables

	Huffman   HuffmanConfig   `yaml:"huffman"`
	Video     VideoConfig     `yaml:"video"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HuffmanConfig struct {
	SourceQuality int `yaml:"source_quality"` // JPEG quality of the coded stream (1-100)
}

// Holds the external encoder invocation.
type VideoConfig struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	Codec        string `yaml:"codec"`
	Preset       string `yaml:"preset"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type ArchiveConfig struct {
	Enable bool   `yaml:"enable"` // Keep the Huffman codestream next to the artifact
	Codec  string `yaml:"codec"`  // zstd, lz4 or none
	Level  int    `yaml:"level"`
}

type TelemetryConfig struct {
	Enable       bool   `yaml:"enable"`
	OTELEndpoint string `yaml:"otel_endpoint"` // Empty keeps metrics in process
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		UploadDir:        "static/uploads",
		OutputDir:        "static/compressed",
		MaxFileSizeBytes: 100 * 1024 * 1024, // 100MB
		LogLevel:         "info",
		Huffman:          HuffmanConfig{SourceQuality: 95},
		Video: VideoConfig{
			FFmpegPath:   "ffmpeg",
			Codec:        "libx264",
			Preset:       "medium",
			AudioCodec:   "aac",
			AudioBitrate: "128k",
		},
		Archive: ArchiveConfig{Codec: "zstd"},
	}
}

// Loads configuration from a YAML file, then applies environment overrides.
// An empty filename skips the file. A .env file in the working directory is
// loaded when present; variables already set in the environment win.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromEnv overrides fields from MEDIAPRESS_* variables.
func loadFromEnv(config *Config) error {
	strs := map[string]*string{
		"UPLOAD_DIR":    &config.UploadDir,
		"OUTPUT_DIR":    &config.OutputDir,
		"LOG_LEVEL":     &config.LogLevel,
		"FFMPEG_PATH":   &config.Video.FFmpegPath,
		"VIDEO_CODEC":   &config.Video.Codec,
		"VIDEO_PRESET":  &config.Video.Preset,
		"AUDIO_CODEC":   &config.Video.AudioCodec,
		"AUDIO_BITRATE": &config.Video.AudioBitrate,
		"ARCHIVE_CODEC": &config.Archive.Codec,
		"OTEL_ENDPOINT": &config.Telemetry.OTELEndpoint,
	}
	for key, dest := range strs {
		if val, ok := lookup(key); ok {
			*dest = val
		}
	}

	if val, ok := lookup("MAX_FILE_SIZE_BYTES"); ok {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_FILE_SIZE_BYTES: %w", envPrefix, err)
		}
		config.MaxFileSizeBytes = n
	}

	if val, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		config.RequestTimeout = d
	}

	ints := map[string]*int{
		"HUFFMAN_SOURCE_QUALITY": &config.Huffman.SourceQuality,
		"ARCHIVE_LEVEL":          &config.Archive.Level,
	}
	for key, dest := range ints {
		if val, ok := lookup(key); ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dest = n
		}
	}

	bools := map[string]*bool{
		"ARCHIVE_ENABLE":   &config.Archive.Enable,
		"TELEMETRY_ENABLE": &config.Telemetry.Enable,
	}
	for key, dest := range bools {
		if val, ok := lookup(key); ok {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dest = b
		}
	}

	return nil
}

func lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(envPrefix + key)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func validateConfig(config *Config) error {
	if config.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}

	if config.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if config.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max_file_size_bytes must be positive")
	}

	if config.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	if q := config.Huffman.SourceQuality; q < 1 || q > 100 {
		return fmt.Errorf("huffman.source_quality must be between 1 and 100")
	}

	if config.Video.FFmpegPath == "" {
		return fmt.Errorf("video.ffmpeg_path is required")
	}

	switch config.Archive.Codec {
	case "zstd", "lz4", "none":
	default:
		return fmt.Errorf("archive.codec must be one of zstd, lz4, none")
	}

	return nil
}

// EngineOptions maps the configuration onto the engine's options.
func (c *Config) EngineOptions() *domain.EngineOptions {
	return &domain.EngineOptions{
		MaxFileSizeBytes: c.MaxFileSizeBytes,
		UploadDir:        c.UploadDir,
		OutputDir:        c.OutputDir,
		RequestTimeout:   c.RequestTimeout,
		HuffmanOptions:   &domain.HuffmanOptions{SourceQuality: c.Huffman.SourceQuality},
		VideoOptions: &domain.VideoOptions{
			BinaryPath:   c.Video.FFmpegPath,
			Codec:        c.Video.Codec,
			Preset:       c.Video.Preset,
			AudioCodec:   c.Video.AudioCodec,
			AudioBitrate: c.Video.AudioBitrate,
		},
		ArchiveOptions: &domain.ArchiveOptions{
			Enable: c.Archive.Enable,
			Codec:  c.Archive.Codec,
			Level:  c.Archive.Level,
		},
	}
}
