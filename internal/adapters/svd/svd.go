// Package svd approximates an image's luminance plane with a truncated
// singular value decomposition.
package svd

import (
	"context"
	"fmt"
	"math"

	"github.com/iamNilotpal/mediapress/internal/adapters/metric"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	sampleBits = 8  // bits per stored original sample
	floatBits  = 32 // bits per stored factor entry
)

// Rank returns how many singular triplets to keep for a level:
// max(1, floor((100 - level) * min(rows, cols) / 100)), never above min(rows, cols).
// A higher level keeps fewer triplets.
func Rank(level, rows, cols int) int {
	m := min(rows, cols)
	k := (100 - level) * m / 100
	return max(1, min(k, m))
}

// StorageRatio compares 8 bits per original sample with 32 bits per entry of
// the truncated factors U[:, :k], Σ[:k] and Vᵗ[:k, :]. It estimates storage
// cost only and drops below 1 when the factors are larger than the image.
func StorageRatio(rows, cols, k int) float64 {
	original := int64(rows) * int64(cols) * sampleBits
	factors := (int64(rows)*int64(k) + int64(k) + int64(k)*int64(cols)) * floatBits
	return metric.StorageRatio(original, factors)
}

// Approximate reconstructs a single-channel plane from its k largest singular
// triplets. Samples are clipped to [0, 255] and rounded to the nearest integer.
func Approximate(ctx context.Context, plane *domain.Raster, k int) (*domain.Raster, error) {
	if plane == nil || plane.Channels != 1 {
		return nil, fmt.Errorf("decomposition needs a single channel plane")
	}
	if err := plane.Validate(); err != nil {
		return nil, err
	}

	rows, cols := plane.Height, plane.Width
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("rank %d outside [1, %d]", k, min(rows, cols))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := make([]float64, len(plane.Pix))
	for i, v := range plane.Pix {
		data[i] = float64(v)
	}
	a := mat.NewDense(rows, cols, data)

	// The thin factorization yields the same leading k triplets as the full
	// one without materializing the unused columns of U and V.
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("singular value decomposition did not converge")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	var us mat.Dense
	us.Apply(func(_, j int, x float64) float64 { return x * sigma[j] }, u.Slice(0, rows, 0, k))

	var rec mat.Dense
	rec.Mul(&us, v.Slice(0, cols, 0, k).T())

	out := domain.NewRaster(cols, rows, 1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := math.Round(math.Min(255, math.Max(0, rec.At(i, j))))
			out.Pix[i*cols+j] = uint8(x)
		}
	}
	return out, nil
}

// Strategy implements ports.ImageStrategy for the SVD method.
//
// Only luminance is approximated. A color input comes back as the
// reconstructed luminance replicated across its channels, so color
// information is not preserved by this method.
type Strategy struct {
	log *zap.Logger
}

func NewStrategy(log *zap.Logger) *Strategy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Strategy{log: log}
}

func (s *Strategy) Method() domain.Method {
	return domain.MethodSVD
}

func (s *Strategy) Compress(ctx context.Context, raster *domain.Raster, level int) (*domain.StrategyOutput, error) {
	const op = "svd.compress"

	if err := raster.Validate(); err != nil {
		return nil, errors.NewMediaError(errors.ErrorNumeric, op, err)
	}

	lum := raster.Luminance()
	rows, cols := lum.Height, lum.Width
	k := Rank(level, rows, cols)

	approx, err := Approximate(ctx, lum, k)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.NewMediaError(errors.ErrorNumeric, op, err)
	}

	mse, err := metric.MSE(lum.Pix, approx.Pix)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorNumeric, op, err)
	}

	ratio := StorageRatio(rows, cols, k)
	psnr := metric.PSNR(mse)

	s.log.Debug("svd approximation",
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("rank", k),
		zap.Float64("mse", mse),
		zap.Float64("psnr", psnr),
		zap.Float64("ratio", ratio),
	)

	out := approx
	if raster.Channels > 1 {
		out = approx.Replicate(raster.Channels)
	}

	return &domain.StrategyOutput{Raster: out, Ratio: ratio, MSE: mse, PSNR: psnr}, nil
}
