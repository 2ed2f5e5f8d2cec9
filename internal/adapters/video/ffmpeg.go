// Package video compresses video files by delegating to an external encoder
// process. It measures sizes and wall time only.
package video

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamNilotpal/mediapress/internal/adapters/metric"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/ports"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultBinaryPath      = "ffmpeg"
	DefaultCodec           = "libx264"
	DefaultPreset          = "medium"
	DefaultAudioCodec      = "aac"
	DefaultAudioBitrate    = "128k"
	DefaultOutputExtension = ".mp4"
)

// DefaultOptions returns the fixed encoder invocation settings.
func DefaultOptions() *domain.VideoOptions {
	return &domain.VideoOptions{
		BinaryPath:      DefaultBinaryPath,
		Codec:           DefaultCodec,
		Preset:          DefaultPreset,
		AudioCodec:      DefaultAudioCodec,
		AudioBitrate:    DefaultAudioBitrate,
		OutputExtension: DefaultOutputExtension,
	}
}

// Transcoder implements ports.VideoTranscoder with an ffmpeg compatible CLI.
type Transcoder struct {
	opts   *domain.VideoOptions
	runner ports.CommandRunner
	log    *zap.Logger
}

// NewTranscoder creates a transcoder. A nil runner uses ExecRunner.
func NewTranscoder(opts *domain.VideoOptions, runner ports.CommandRunner, log *zap.Logger) *Transcoder {
	if opts == nil {
		opts = DefaultOptions()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Transcoder{opts: opts, runner: runner, log: log}
}

// Args builds the encoder argument list for a level. Any existing output is overwritten.
func (t *Transcoder) Args(inputPath, outputPath string, level int) []string {
	return []string{
		"-i", inputPath,
		"-c:v", t.opts.Codec,
		"-crf", strconv.Itoa(CRF(level)),
		"-preset", t.opts.Preset,
		"-c:a", t.opts.AudioCodec,
		"-b:a", t.opts.AudioBitrate,
		"-y",
		outputPath,
	}
}

// Transcode runs the encoder synchronously. Distortion is not measured:
// MSE and PSNR in the output are placeholders.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string, level int) (*ports.VideoOutput, error) {
	const op = "video.transcode"

	inStat, err := os.Stat(inputPath)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorDecode, op, err)
	}

	args := t.Args(inputPath, outputPath, level)
	t.log.Debug("starting encoder", zap.String("binary", t.opts.BinaryPath), zap.Strings("args", args))

	start := time.Now()
	stderr, err := t.runner.Run(ctx, t.opts.BinaryPath, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		detail := strings.TrimSpace(string(stderr))
		return nil, errors.NewMediaError(errors.ErrorExternalTool, op, fmt.Errorf("%s: %w", t.opts.BinaryPath, err)).
			WithDetail(detail)
	}
	elapsed := time.Since(start).Seconds()

	outStat, err := os.Stat(outputPath)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorExternalTool, op, fmt.Errorf("encoder produced no output: %w", err))
	}

	return &ports.VideoOutput{
		Ratio:          metric.SizeRatio(inStat.Size(), outStat.Size()),
		MSE:            0,
		PSNR:           0,
		ElapsedSeconds: elapsed,
		InputBytes:     inStat.Size(),
		OutputBytes:    outStat.Size(),
	}, nil
}
