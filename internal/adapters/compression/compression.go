// Package compression provides the general purpose codecs used to archive
// Huffman codestreams next to image artifacts.
package compression

import (
	"fmt"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/ports"
)

const (
	AlgorithmZstd = "zstd"
	AlgorithmLZ4  = "lz4"
	AlgorithmNone = "none"
)

// Returns ArchiveOptions with archiving disabled and zstd selected for when it is enabled.
func DefaultOptions() *domain.ArchiveOptions {
	return &domain.ArchiveOptions{
		Enable: false,
		Codec:  AlgorithmZstd,
		Level:  int(DefaultLevel),
	}
}

// Checks if the archive options are valid and returns an error if any option
// is outside acceptable bounds.
func Validate(input *domain.ArchiveOptions) error {
	switch input.Codec {
	case AlgorithmZstd:
		if input.Level != 0 && (input.Level < int(FastestLevel) || input.Level > int(BestLevel)) {
			return fmt.Errorf("zstd level must be between %d and %d, got %d", FastestLevel, BestLevel, input.Level)
		}
	case AlgorithmLZ4:
		if input.Level < 0 || input.Level > 9 {
			return fmt.Errorf("lz4 level must be between 0 and 9, got %d", input.Level)
		}
	case AlgorithmNone:
	default:
		return fmt.Errorf("unsupported archive codec: %s", input.Codec)
	}
	return nil
}

// New creates a codec for the configured algorithm.
func New(opts *domain.ArchiveOptions) (ports.CompressionPort, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	switch opts.Codec {
	case AlgorithmZstd:
		level := uint8(opts.Level)
		if level == 0 {
			level = DefaultLevel
		}
		return NewZstdCompression(Options{Level: level})
	case AlgorithmLZ4:
		return NewLZ4Compression(opts.Level), nil
	default:
		return NoOpCompression{}, nil
	}
}

// NoOpCompression stores data as-is.
type NoOpCompression struct{}

func (NoOpCompression) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoOpCompression) Decompress(data []byte) ([]byte, error) { return data, nil }
func (NoOpCompression) Close() error                           { return nil }
func (NoOpCompression) Algorithm() string                      { return AlgorithmNone }
