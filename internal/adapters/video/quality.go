package video

import "math"

const (
	// MinCRF and MaxCRF bound the encoder's constant rate factor. Lower is better quality.
	MinCRF = 0
	MaxCRF = 51

	crfPerLevel = 0.51
)

// CRF maps a compression level onto the encoder's quality scale:
// clamp(round(level * 0.51), 0, 51).
func CRF(level int) int {
	crf := int(math.Round(float64(level) * crfPerLevel))
	return max(MinCRF, min(MaxCRF, crf))
}
