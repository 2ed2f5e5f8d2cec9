// Package domain defines the core types and options for the media compression engine.
package domain

import (
	"path/filepath"
	"strings"
)

// MediaKind distinguishes the two families of media the engine accepts.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Method names a compression strategy requested by the caller.
type Method string

const (
	// MethodHuffman entropy codes the baseline encoding of the raster and
	// reports the resulting size reduction. Pixels are returned unchanged.
	MethodHuffman Method = "huffman"

	// MethodSVD approximates the luminance plane with a truncated singular
	// value decomposition.
	MethodSVD Method = "svd"

	// MethodAuto resolves to MethodSVD for images and MethodFFmpeg for videos.
	// There is no content based heuristic.
	MethodAuto Method = "auto"

	// MethodFFmpeg delegates video encoding to the external encoder process.
	MethodFFmpeg Method = "ffmpeg"

	// MethodRLE, MethodDCT and MethodPCA are recognized names without an
	// implementation. Selecting one fails with a not-implemented error.
	MethodRLE Method = "rle"
	MethodDCT Method = "dct"
	MethodPCA Method = "pca"
)

// String returns the string representation of the Method.
func (m Method) String() string {
	return string(m)
}

// IsValidFor reports whether the method is recognized for the media kind.
// Recognized includes the declared-but-unimplemented image methods.
func (m Method) IsValidFor(kind MediaKind) bool {
	switch kind {
	case MediaImage:
		switch m {
		case MethodHuffman, MethodSVD, MethodAuto, MethodRLE, MethodDCT, MethodPCA:
			return true
		}
	case MediaVideo:
		return m == MethodAuto || m == MethodFFmpeg
	}
	return false
}

// IsImplemented returns false for the named-but-unsupported strategies.
func (m Method) IsImplemented() bool {
	return m != MethodRLE && m != MethodDCT && m != MethodPCA
}

const (
	// MinLevel and MaxLevel bound the compression level knob.
	MinLevel = 10
	MaxLevel = 90

	// DefaultLevel is used by callers that do not specify a level.
	DefaultLevel = 50
)

// CompressionRequest is what a caller asks of the engine.
type CompressionRequest struct {
	// Method selects the strategy. Empty means MethodAuto.
	Method Method `json:"method"`

	// Level is the 10..90 aggressiveness knob. Higher means smaller output
	// and lower fidelity across all strategies.
	Level int `json:"level"`
}

var (
	imageExtensions = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".tif": {}, ".tiff": {}}
	videoExtensions = map[string]struct{}{".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".webm": {}}
)

// KindFromPath classifies a file by extension. ok is false for unsupported extensions.
func KindFromPath(path string) (kind MediaKind, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, found := imageExtensions[ext]; found {
		return MediaImage, true
	}
	if _, found := videoExtensions[ext]; found {
		return MediaVideo, true
	}
	return "", false
}
