// Package metric computes the objective quality and size figures reported
// for every compression: mean squared error, peak signal-to-noise ratio and
// compression ratios.
package metric

import (
	"fmt"
	"math"
)

const (
	// PeakValue is the maximum 8-bit sample value.
	PeakValue = 255.0

	// LosslessPSNR is reported whenever MSE is exactly zero, in place of +Inf.
	LosslessPSNR = 100.0
)

// MSE returns the mean of squared sample differences between original and
// approximation. Differences are taken in floating point, never in 8-bit
// arithmetic, so they cannot wrap around.
func MSE(original, approx []uint8) (float64, error) {
	if len(original) != len(approx) {
		return 0, fmt.Errorf("sample count mismatch: %d vs %d", len(original), len(approx))
	}
	if len(original) == 0 {
		return 0, fmt.Errorf("no samples")
	}

	var sum float64
	for i := range original {
		d := float64(original[i]) - float64(approx[i])
		sum += d * d
	}
	return sum / float64(len(original)), nil
}

// PSNR returns 10*log10(255^2 / mse), or LosslessPSNR when mse is 0.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return LosslessPSNR
	}
	return 10 * math.Log10((PeakValue*PeakValue)/mse)
}

// StorageRatio divides an original bit cost by a compressed bit cost.
// A ratio below 1 means the representation expanded.
func StorageRatio(originalBits, compressedBits int64) float64 {
	if compressedBits <= 0 {
		return 1
	}
	return float64(originalBits) / float64(compressedBits)
}

// SizeRatio divides input bytes by output bytes, returning 1 when the output is empty.
func SizeRatio(inputBytes, outputBytes int64) float64 {
	if outputBytes <= 0 {
		return 1
	}
	return float64(inputBytes) / float64(outputBytes)
}
