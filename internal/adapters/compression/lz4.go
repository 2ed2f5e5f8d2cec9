package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Compression implements CompressionPort with the LZ4 frame format.
// Every call builds its own writer or reader, so it is safe for concurrent use.
type LZ4Compression struct {
	level lz4.CompressionLevel
}

// NewLZ4Compression maps 0 to the fast compressor and 1-9 to lz4 HC levels.
func NewLZ4Compression(level int) *LZ4Compression {
	levels := []lz4.CompressionLevel{
		lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
		lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
	}
	if level < 0 || level >= len(levels) {
		level = 0
	}
	return &LZ4Compression{level: levels[level]}
}

func (l *LZ4Compression) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(l.level)); err != nil {
		return nil, fmt.Errorf("lz4 options: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (l *LZ4Compression) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out, nil
}

func (l *LZ4Compression) Close() error { return nil }

func (l *LZ4Compression) Algorithm() string {
	return AlgorithmLZ4
}
