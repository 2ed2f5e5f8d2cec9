package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"github.com/iamNilotpal/mediapress/pkg/system"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CompressImage compresses an already decoded raster without touching the
// filesystem. The returned artifact is the baseline JPEG that CompressImageFile
// would persist.
func (e *Engine) CompressImage(ctx context.Context, req domain.CompressionRequest, raster *domain.Raster) (*domain.ImageOutput, error) {
	start := time.Now()
	log := e.log.With(zap.String("method", req.Method.String()), zap.Int("level", req.Level))

	e.stage(log, StageValidate)
	method, err := validateRequest(domain.MediaImage, req)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, req.Method, StageValidate, err)
	}

	out, err := e.runImage(ctx, log, method, raster, req.Level)
	if err != nil {
		return nil, err
	}

	e.stage(log, StagePersistArtifact)
	artifact, err := e.encodeArtifact(out.Raster, req.Level)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StagePersistArtifact, err)
	}

	result := &domain.CompressionResult{
		MediaKind:             domain.MediaImage,
		Method:                method,
		Level:                 req.Level,
		OriginalSizeBytes:     int64(len(raster.Pix)),
		CompressedSizeBytes:   int64(len(artifact)),
		CompressionRatio:      out.Ratio,
		MSE:                   out.MSE,
		PSNR:                  out.PSNR,
		DistortionMeasured:    true,
		ProcessingTimeSeconds: elapsed(start),
	}

	e.succeed(ctx, log, result)
	return &domain.ImageOutput{Result: result, Artifact: artifact}, nil
}

// CompressImageFile stores a copy of the image at path, compresses it and
// writes the artifact as <id>.jpg into the output directory.
func (e *Engine) CompressImageFile(ctx context.Context, req domain.CompressionRequest, path string) (*domain.CompressionResult, error) {
	start := time.Now()
	log := e.log.With(zap.String("source", path), zap.String("method", req.Method.String()), zap.Int("level", req.Level))

	e.stage(log, StageValidate)
	if kind, ok := domain.KindFromPath(path); !ok || kind != domain.MediaImage {
		err := errors.NewValidationError("path", path, fmt.Errorf("not a supported image file"))
		return nil, e.fail(ctx, log, domain.MediaImage, req.Method, StageValidate, err)
	}

	method, err := validateRequest(domain.MediaImage, req)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, req.Method, StageValidate, err)
	}

	e.stage(log, StageReadSource)
	src, err := e.storeUpload(path)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StageReadSource, err)
	}
	log = log.With(zap.String("id", src.id))

	raster, err := e.codec.DecodeFile(src.path)
	if err != nil {
		err = errors.NewMediaError(errors.ErrorDecode, "engine.decode", err)
		return nil, e.fail(ctx, log, domain.MediaImage, method, StageReadSource, err)
	}

	out, err := e.runImage(ctx, log, method, raster, req.Level)
	if err != nil {
		return nil, err
	}

	e.stage(log, StagePersistArtifact)
	artifact, err := e.encodeArtifact(out.Raster, req.Level)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StagePersistArtifact, err)
	}

	location, err := e.writeArtifact(src.id, artifactExtension, artifact)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StagePersistArtifact, err)
	}

	result := &domain.CompressionResult{
		MediaKind:           domain.MediaImage,
		Method:              method,
		Level:               req.Level,
		ArtifactLocation:    location,
		OriginalSizeBytes:   src.size,
		CompressedSizeBytes: int64(len(artifact)),
		CompressionRatio:    out.Ratio,
		MSE:                 out.MSE,
		PSNR:                out.PSNR,
		DistortionMeasured:  true,
	}

	if e.archive != nil && len(out.Codestream) > 0 {
		archived, err := e.archiveCodestream(src.id, out.Codestream)
		if err != nil {
			// A failed request leaves no artifact behind.
			err = multierr.Append(err, e.fs.DeleteFile(location))
			return nil, e.fail(ctx, log, domain.MediaImage, method, StagePersistArtifact, err)
		}
		result.CodestreamLocation = archived
	}

	result.ProcessingTimeSeconds = elapsed(start)
	e.succeed(ctx, log, result)
	return result, nil
}

// runImage covers SELECT_STRATEGY and RUN_STRATEGY. Failures are already
// logged and recorded when it returns.
func (e *Engine) runImage(
	ctx context.Context, log *zap.Logger, method domain.Method, raster *domain.Raster, level int,
) (*domain.StrategyOutput, error) {
	e.stage(log, StageSelectStrategy, zap.String("resolved", method.String()))
	strategy, err := e.selectStrategy(method)
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StageSelectStrategy, err)
	}

	e.stage(log, StageRunStrategy)
	var out *domain.StrategyOutput
	err = system.RunWithTimeout(ctx, e.opts.RequestTimeout, func(ctx context.Context) error {
		o, err := strategy.Compress(ctx, raster, level)
		out = o
		return err
	})
	if err != nil {
		return nil, e.fail(ctx, log, domain.MediaImage, method, StageRunStrategy, err)
	}

	return out, nil
}

func (e *Engine) encodeArtifact(raster *domain.Raster, level int) ([]byte, error) {
	artifact, err := e.codec.EncodeJPEG(raster, ArtifactQuality(level))
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorPersist, "engine.encode_artifact", err)
	}
	return artifact, nil
}
