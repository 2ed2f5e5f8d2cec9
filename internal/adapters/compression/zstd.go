package compression

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
)

type Options struct {
	Level              uint8
	EncoderConcurrency uint8
	DecoderConcurrency uint8
}

// ZstdCompression implements CompressionPort using the zstd compression algorithm.
// It provides thread-safe compression and decompression operations with configurable
// compression levels.
type ZstdCompression struct {
	level   uint8         // Current compression level (1-4)
	mu      sync.RWMutex  // Protects concurrent access to compression state
	decoder *zstd.Decoder // Thread-safe decoder instance for decompression
	encoder *zstd.Encoder // Thread-safe encoder instance for compression
}

// Compression level constants define the trade-off between compression ratio and speed.
// Higher levels provide better compression at the cost of increased CPU usage and time.
const (
	FastestLevel uint8 = 1 // Optimized for speed with minimal compression
	DefaultLevel uint8 = 2 // zstd's default, balanced between speed and ratio
	BestLevel    uint8 = 4 // Maximum compression ratio, higher CPU usage
)

// NewZstdCompression creates a new zstd compression instance with the specified level.
// Zero concurrency settings default to the number of CPUs.
//
// Returns an error if:
// - The compression level is invalid
// - The encoder or decoder initialization fails
func NewZstdCompression(opts Options) (*ZstdCompression, error) {
	if opts.Level < FastestLevel || opts.Level > BestLevel {
		return nil, fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, opts.Level)
	}

	if opts.EncoderConcurrency == 0 {
		opts.EncoderConcurrency = uint8(runtime.NumCPU())
	}
	if opts.DecoderConcurrency == 0 {
		opts.DecoderConcurrency = uint8(runtime.NumCPU())
	}

	encoder, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(zstd.EncoderLevel(opts.Level)),
		zstd.WithEncoderConcurrency(int(opts.EncoderConcurrency)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(int(opts.DecoderConcurrency)))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &ZstdCompression{encoder: encoder, decoder: decoder, level: opts.Level}, nil
}

// Compress compresses the input data using zstd compression.
// Archives are always framed, even when compression does not shrink the data,
// so that Decompress can read every archive back.
func (z *ZstdCompression) Compress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.encoder.EncodeAll(data, nil), nil
}

// Decompress restores the original data from its compressed form.
//
// Returns an error if the input data is not valid zstd compressed data.
func (z *ZstdCompression) Decompress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	decompressed, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}

func (z *ZstdCompression) Algorithm() string {
	return AlgorithmZstd
}

// Level returns the current compression level.
func (z *ZstdCompression) Level() uint8 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.level
}

// Close releases all resources used by the compression instance.
// After closing, the instance cannot be used for compression or decompression.
func (z *ZstdCompression) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if err := z.encoder.Close(); err != nil {
		return fmt.Errorf("error closing encoder : %w", err)
	}

	z.decoder.Close()
	return nil
}
