package engine

import (
	"strings"
	"time"

	"github.com/iamNilotpal/mediapress/internal/adapters/compression"
	"github.com/iamNilotpal/mediapress/internal/adapters/huffman"
	"github.com/iamNilotpal/mediapress/internal/adapters/video"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
)

const (
	DefaultMaxFileSizeBytes = 100 * 1024 * 1024 // 100MB
	DefaultUploadDir        = "static/uploads"
	DefaultOutputDir        = "static/compressed"
	DefaultRequestTimeout   = time.Duration(0) // disabled

	// MinArtifactQuality bounds the JPEG quality of persisted image artifacts.
	MinArtifactQuality = 10
)

// ArtifactQuality is the JPEG quality used to persist an image compressed at level.
func ArtifactQuality(level int) int {
	return max(MinArtifactQuality, 100-level)
}

func prepareDefaults(opts *domain.EngineOptions) *domain.EngineOptions {
	if opts.MaxFileSizeBytes == 0 {
		opts.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}

	if strings.TrimSpace(opts.UploadDir) == "" {
		opts.UploadDir = DefaultUploadDir
	}

	if strings.TrimSpace(opts.OutputDir) == "" {
		opts.OutputDir = DefaultOutputDir
	}

	if opts.HuffmanOptions == nil {
		opts.HuffmanOptions = &domain.HuffmanOptions{SourceQuality: huffman.DefaultSourceQuality}
	} else if opts.HuffmanOptions.SourceQuality == 0 {
		opts.HuffmanOptions.SourceQuality = huffman.DefaultSourceQuality
	}

	if opts.VideoOptions == nil {
		opts.VideoOptions = video.DefaultOptions()
	} else {
		v := opts.VideoOptions
		if strings.TrimSpace(v.BinaryPath) == "" {
			v.BinaryPath = video.DefaultBinaryPath
		}
		if strings.TrimSpace(v.Codec) == "" {
			v.Codec = video.DefaultCodec
		}
		if strings.TrimSpace(v.Preset) == "" {
			v.Preset = video.DefaultPreset
		}
		if strings.TrimSpace(v.AudioCodec) == "" {
			v.AudioCodec = video.DefaultAudioCodec
		}
		if strings.TrimSpace(v.AudioBitrate) == "" {
			v.AudioBitrate = video.DefaultAudioBitrate
		}
		if strings.TrimSpace(v.OutputExtension) == "" {
			v.OutputExtension = video.DefaultOutputExtension
		}
	}

	if opts.ArchiveOptions == nil {
		opts.ArchiveOptions = compression.DefaultOptions()
	} else if strings.TrimSpace(opts.ArchiveOptions.Codec) == "" {
		opts.ArchiveOptions.Codec = compression.AlgorithmZstd
	}

	return opts
}
