package engine

import (
	"fmt"
	"strings"

	"github.com/iamNilotpal/mediapress/internal/adapters/compression"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/errors"
)

// Validate checks engine options. Zero values are accepted and replaced by defaults.
func Validate(opts *domain.EngineOptions) error {
	if opts.MaxFileSizeBytes < 0 {
		return fmt.Errorf("max file size must not be negative, got %d", opts.MaxFileSizeBytes)
	}

	if opts.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", opts.RequestTimeout)
	}

	if opts.UploadDir != "" && opts.OutputDir != "" && opts.UploadDir == opts.OutputDir {
		return fmt.Errorf("upload and output directories must differ, both are %s", opts.UploadDir)
	}

	if h := opts.HuffmanOptions; h != nil && h.SourceQuality != 0 {
		if h.SourceQuality < 1 || h.SourceQuality > 100 {
			return fmt.Errorf("huffman source quality must be between 1 and 100, got %d", h.SourceQuality)
		}
	}

	if v := opts.VideoOptions; v != nil && v.OutputExtension != "" && !strings.HasPrefix(v.OutputExtension, ".") {
		return fmt.Errorf("video output extension must start with a dot, got %q", v.OutputExtension)
	}

	if a := opts.ArchiveOptions; a != nil && a.Enable {
		archive := *a
		if strings.TrimSpace(archive.Codec) == "" {
			archive.Codec = compression.AlgorithmZstd
		}
		if err := compression.Validate(&archive); err != nil {
			return err
		}
	}

	return nil
}

// validateRequest checks the level bounds and that the method is recognized for kind.
// It returns the method with auto resolved.
func validateRequest(kind domain.MediaKind, req domain.CompressionRequest) (domain.Method, error) {
	if req.Level < domain.MinLevel || req.Level > domain.MaxLevel {
		return "", errors.NewValidationError(
			"level", req.Level,
			fmt.Errorf("level must be between %d and %d", domain.MinLevel, domain.MaxLevel),
		)
	}

	method := req.Method
	if method == "" {
		method = domain.MethodAuto
	}

	if !method.IsValidFor(kind) {
		return "", errors.NewValidationError(
			"method", req.Method,
			fmt.Errorf("method %q is not supported for %s", method, kind),
		)
	}

	return resolveMethod(kind, method), nil
}

func resolveMethod(kind domain.MediaKind, method domain.Method) domain.Method {
	if method != domain.MethodAuto {
		return method
	}
	if kind == domain.MediaVideo {
		return domain.MethodFFmpeg
	}
	return domain.MethodSVD
}
