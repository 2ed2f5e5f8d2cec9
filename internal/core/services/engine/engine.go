// Package engine orchestrates a compression request: it validates the
// request, reads the source, selects and runs a strategy, persists the
// artifact and reports a normalized result.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/iamNilotpal/mediapress/internal/adapters/codec"
	"github.com/iamNilotpal/mediapress/internal/adapters/compression"
	"github.com/iamNilotpal/mediapress/internal/adapters/huffman"
	"github.com/iamNilotpal/mediapress/internal/adapters/svd"
	"github.com/iamNilotpal/mediapress/internal/adapters/video"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/ports"
	"github.com/iamNilotpal/mediapress/internal/telemetry"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"github.com/iamNilotpal/mediapress/pkg/fs"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Stage names the steps of a request, in order.
type Stage string

const (
	StageValidate        Stage = "VALIDATE"
	StageReadSource      Stage = "READ_SOURCE"
	StageSelectStrategy  Stage = "SELECT_STRATEGY"
	StageRunStrategy     Stage = "RUN_STRATEGY"
	StagePersistArtifact Stage = "PERSIST_ARTIFACT"
	StageReport          Stage = "REPORT"
)

const serviceName = "mediapress"

// Engine is the compression orchestrator. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	// Configuration with defaults applied.
	opts *domain.EngineOptions

	// Collaborators, replaceable through Option for tests.
	fs         ports.FileSystem
	codec      ports.ImageCodec
	runner     ports.CommandRunner
	transcoder ports.VideoTranscoder
	strategies map[domain.Method]ports.ImageStrategy

	// archive is nil unless codestream archiving is enabled.
	archive ports.CompressionPort

	provider metric.MeterProvider
	metrics  *telemetry.Metrics
	log      *zap.Logger

	// shutdown hooks run by Close, in order.
	shutdown []func() error

	seq atomic.Uint64 // Disambiguates artifact names created in the same nanosecond.
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithFileSystem replaces the local disk.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithImageCodec replaces the image decoder and encoder.
func WithImageCodec(c ports.ImageCodec) Option {
	return func(e *Engine) { e.codec = c }
}

// WithCommandRunner replaces the process runner used by the video transcoder.
func WithCommandRunner(r ports.CommandRunner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithMeterProvider records telemetry on the given provider instead of a no-op one.
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithShutdown registers a hook that Close runs, such as a meter provider shutdown.
func WithShutdown(fn func() error) Option {
	return func(e *Engine) { e.shutdown = append(e.shutdown, fn) }
}

// New creates an engine. A nil opts uses the defaults. The upload and output
// directories are created if missing.
func New(opts *domain.EngineOptions, log *zap.Logger, options ...Option) (*Engine, error) {
	if opts != nil {
		if err := Validate(opts); err != nil {
			return nil, err
		}
	}

	if opts != nil {
		opts = prepareDefaults(opts)
	} else {
		opts = prepareDefaults(&domain.EngineOptions{})
	}

	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{opts: opts, log: log.Named("engine")}
	for _, apply := range options {
		apply(e)
	}

	if e.fs == nil {
		e.fs = fs.NewLocalFileSystem()
	}
	if e.codec == nil {
		e.codec = codec.New()
	}
	if e.provider == nil {
		e.provider = noop.NewMeterProvider()
	}

	metrics, err := telemetry.NewMetrics(e.provider, serviceName)
	if err != nil {
		return nil, fmt.Errorf("error creating metrics: %w", err)
	}
	e.metrics = metrics

	for _, dir := range []string{opts.UploadDir, opts.OutputDir} {
		if err := e.fs.CreateDir(dir, 0755); err != nil {
			return nil, errors.NewMediaError(errors.ErrorPersist, "engine.new", err)
		}
	}

	e.strategies = make(map[domain.Method]ports.ImageStrategy)
	for _, s := range []ports.ImageStrategy{
		huffman.NewStrategy(e.codec, opts.HuffmanOptions, e.log),
		svd.NewStrategy(e.log),
	} {
		e.strategies[s.Method()] = s
	}
	e.transcoder = video.NewTranscoder(opts.VideoOptions, e.runner, e.log)

	if opts.ArchiveOptions.Enable {
		archive, err := compression.New(opts.ArchiveOptions)
		if err != nil {
			return nil, fmt.Errorf("error creating codestream archive codec: %w", err)
		}
		e.archive = archive
	}

	return e, nil
}

// Options returns the effective configuration.
func (e *Engine) Options() domain.EngineOptions {
	return *e.opts
}

// Close releases the archive codec and shuts down telemetry handed over with WithShutdown.
func (e *Engine) Close() error {
	var err error
	if e.archive != nil {
		err = multierr.Append(err, e.archive.Close())
	}
	for _, shutdown := range e.shutdown {
		err = multierr.Append(err, shutdown())
	}
	return err
}

// CompressFile dispatches on the file extension to the image or video pipeline.
func (e *Engine) CompressFile(ctx context.Context, req domain.CompressionRequest, path string) (*domain.CompressionResult, error) {
	kind, ok := domain.KindFromPath(path)
	if !ok {
		return nil, errors.NewValidationError("path", path, fmt.Errorf("unsupported file type"))
	}

	if kind == domain.MediaVideo {
		return e.CompressVideoFile(ctx, req, path)
	}
	return e.CompressImageFile(ctx, req, path)
}

// selectStrategy maps a resolved image method to its implementation.
func (e *Engine) selectStrategy(method domain.Method) (ports.ImageStrategy, error) {
	if !method.IsImplemented() {
		return nil, errors.NewMediaError(
			errors.ErrorNotImplemented, "engine.select",
			fmt.Errorf("method %q is not implemented", method),
		)
	}

	strategy, ok := e.strategies[method]
	if !ok {
		return nil, errors.NewMediaError(
			errors.ErrorNotImplemented, "engine.select",
			fmt.Errorf("no strategy registered for %q", method),
		)
	}
	return strategy, nil
}

func (e *Engine) stage(log *zap.Logger, stage Stage, fields ...zap.Field) {
	log.Debug("stage", append([]zap.Field{zap.String("stage", string(stage))}, fields...)...)
}

// fail logs and records a failed request and returns err unchanged.
func (e *Engine) fail(ctx context.Context, log *zap.Logger, kind domain.MediaKind, method domain.Method, stage Stage, err error) error {
	log.Error("compression failed",
		zap.String("stage", string(stage)),
		zap.String("operation", operationOf(err, stage)),
		zap.String("category", errors.Classify(err)),
		zap.Error(err),
	)
	e.metrics.RecordFailure(context.WithoutCancel(ctx), string(kind), method.String(), errors.Classify(err))
	return err
}

func (e *Engine) succeed(ctx context.Context, log *zap.Logger, result *domain.CompressionResult) {
	e.stage(log, StageReport)
	log.Info("compression finished",
		zap.String("method", result.Method.String()),
		zap.Int("level", result.Level),
		zap.String("artifact", result.ArtifactLocation),
		zap.Float64("ratio", result.CompressionRatio),
		zap.Float64("psnr", result.PSNR),
		zap.Float64("seconds", result.ProcessingTimeSeconds),
	)
	e.metrics.RecordSuccess(context.WithoutCancel(ctx), telemetry.Observation{
		MediaKind:       string(result.MediaKind),
		Method:          result.Method.String(),
		Ratio:           result.CompressionRatio,
		PSNR:            result.PSNR,
		Seconds:         result.ProcessingTimeSeconds,
		BytesSaved:      result.OriginalSizeBytes - result.CompressedSizeBytes,
		MeasuredQuality: result.DistortionMeasured,
	})
}

func operationOf(err error, stage Stage) string {
	if op := errors.OperationOf(err); op != "" {
		return op
	}
	return string(stage)
}

func elapsed(start time.Time) float64 {
	return time.Since(start).Seconds()
}
