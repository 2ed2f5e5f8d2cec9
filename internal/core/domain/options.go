package domain

import "time"

// EngineOptions defines the configuration parameters for the compression engine.
// It replaces module level state (directories, size limits) with an explicit
// value handed to the orchestrator at construction.
type EngineOptions struct {
	// MaxFileSizeBytes rejects sources larger than this many bytes before any
	// decoding happens.
	//
	// Default: 100MB
	MaxFileSizeBytes int64

	// UploadDir is where incoming originals are stored under a fresh name.
	//
	// Default: "static/uploads"
	UploadDir string

	// OutputDir is where compressed artifacts are written.
	//
	// Default: "static/compressed"
	OutputDir string

	// RequestTimeout bounds a single strategy run. Zero disables the timeout.
	// Strategies observe cancellation between stages only; a running matrix
	// decomposition or encoder process is not interrupted mid-way except by
	// the process runner killing the child.
	RequestTimeout time.Duration

	// HuffmanOptions configures the Huffman strategy.
	HuffmanOptions *HuffmanOptions

	// VideoOptions configures the external encoder.
	VideoOptions *VideoOptions

	// ArchiveOptions configures optional codestream archiving.
	ArchiveOptions *ArchiveOptions
}

// HuffmanOptions configures the Huffman strategy.
type HuffmanOptions struct {
	// SourceQuality is the baseline JPEG quality used to serialize the raster
	// into the byte stream that gets entropy coded. Must be between 1 and 100.
	//
	// Default: 95
	SourceQuality int
}

// VideoOptions describes how the external encoder is invoked.
type VideoOptions struct {
	// BinaryPath is the encoder executable, looked up on PATH when not absolute.
	//
	// Default: "ffmpeg"
	BinaryPath string

	// Codec is the fixed video codec (-c:v).
	//
	// Default: "libx264"
	Codec string

	// Preset is the fixed speed/quality preset (-preset).
	//
	// Default: "medium"
	Preset string

	// AudioCodec (-c:a) and AudioBitrate (-b:a) are passed through unchanged.
	//
	// Default: "aac", "128k"
	AudioCodec   string
	AudioBitrate string

	// OutputExtension is the container of every video artifact.
	//
	// Default: ".mp4"
	OutputExtension string
}

// ArchiveOptions controls whether the Huffman codestream is kept.
// Archiving is off by default and the codestream is discarded.
type ArchiveOptions struct {
	// Enable toggles writing the codestream next to the artifact.
	Enable bool

	// Codec is one of "zstd", "lz4" or "none".
	//
	// Default: "zstd"
	Codec string

	// Level is the codec specific compression level.
	// zstd accepts 1-4, lz4 accepts 0-9. Zero picks the codec default.
	Level int
}
