package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/ports"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"github.com/iamNilotpal/mediapress/pkg/system"
	"go.uber.org/zap"
)

// CompressVideoFile stores a copy of the video at path and has the external
// encoder write <id><ext> into the output directory. MSE and PSNR of the
// result are placeholders.
func (e *Engine) CompressVideoFile(ctx context.Context, req domain.CompressionRequest, path string) (*domain.CompressionResult, error) {
	start := time.Now()
	log := e.log.With(zap.String("source", path), zap.String("method", req.Method.String()), zap.Int("level", req.Level))

	e.stage(log, StageValidate)
	if kind, ok := domain.KindFromPath(path); !ok || kind != domain.MediaVideo {
		err := errors.NewValidationError("path", path, fmt.Errorf("not a supported video file"))
		return nil, e.fail(ctx, log, domain.MediaVideo, req.Method, StageValidate, err)
	}

	method, err := validateRequest(domain.MediaVideo, req)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaVideo, req.Method, StageValidate, err)
	}

	e.stage(log, StageReadSource)
	src, err := e.storeUpload(path)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaVideo, method, StageReadSource, err)
	}
	log = log.With(zap.String("id", src.id))

	e.stage(log, StageSelectStrategy, zap.String("resolved", method.String()))
	output := filepath.Join(e.opts.OutputDir, src.id+e.opts.VideoOptions.OutputExtension)

	e.stage(log, StageRunStrategy)
	var out *ports.VideoOutput
	err = system.RunWithTimeout(ctx, e.opts.RequestTimeout, func(ctx context.Context) error {
		o, err := e.transcoder.Transcode(ctx, src.path, output, req.Level)
		out = o
		return err
	})
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaVideo, method, StageRunStrategy, err)
	}

	// The encoder process writes the artifact itself.
	e.stage(log, StagePersistArtifact, zap.String("artifact", output))

	result := &domain.CompressionResult{
		MediaKind:             domain.MediaVideo,
		Method:                method,
		Level:                 req.Level,
		ArtifactLocation:      output,
		OriginalSizeBytes:     out.InputBytes,
		CompressedSizeBytes:   out.OutputBytes,
		CompressionRatio:      out.Ratio,
		MSE:                   out.MSE,
		PSNR:                  out.PSNR,
		DistortionMeasured:    false,
		ProcessingTimeSeconds: out.ElapsedSeconds,
	}

	log.Debug("video request finished", zap.Float64("totalSeconds", elapsed(start)))
	e.succeed(ctx, log, result)
	return result, nil
}
