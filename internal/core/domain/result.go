package domain

// StrategyOutput is what an image strategy produces for the orchestrator.
type StrategyOutput struct {
	// Raster is the approximated image. For Huffman it is the input pixels.
	Raster *Raster

	// Ratio, MSE and PSNR are the strategy's own measurements.
	Ratio float64
	MSE   float64
	PSNR  float64

	// Codestream optionally carries a serialized entropy coded stream that
	// the orchestrator may archive next to the artifact.
	Codestream []byte
}

// CompressionResult is the normalized record returned for every request.
// It is created once, never mutated afterwards and is not persisted.
type CompressionResult struct {
	MediaKind MediaKind `json:"media_type"`
	Method    Method    `json:"method"`
	Level     int       `json:"level"`

	// ArtifactLocation is where the compressed artifact was written.
	// Empty when the caller asked for in-memory compression only.
	ArtifactLocation string `json:"compressed_media_url"`

	// CodestreamLocation is the archived Huffman codestream, if enabled.
	CodestreamLocation string `json:"codestream_url,omitempty"`

	OriginalSizeBytes   int64   `json:"original_size"`
	CompressedSizeBytes int64   `json:"compressed_size"`
	CompressionRatio    float64 `json:"compression_ratio"`

	// MSE and PSNR are placeholders when DistortionMeasured is false (video).
	MSE                float64 `json:"mse"`
	PSNR               float64 `json:"psnr"`
	DistortionMeasured bool    `json:"distortion_measured"`

	ProcessingTimeSeconds float64 `json:"processing_time"`
}

// ImageOutput pairs a result with the re-encoded artifact bytes.
type ImageOutput struct {
	Result   *CompressionResult
	Artifact []byte
}
