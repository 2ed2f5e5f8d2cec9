package ports

// Defines the interface for the general purpose codecs used to archive codestreams.
// This allows us to swap compression algorithms without changing core logic.
type CompressionPort interface {
	// Compress reduces data size.
	// Returns compressed data and any error that occurred.
	Compress(data []byte) ([]byte, error)

	// Decompress restores original data.
	// Returns decompressed data and any error that occurred.
	Decompress(data []byte) ([]byte, error)

	// Close cleans up compression resources.
	Close() error

	// Algorithm returns the codec name, also used as the archive file extension.
	Algorithm() string
}
