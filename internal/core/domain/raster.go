package domain

import "fmt"

// Raster is a decoded image as a channel-last, row-major array of 8-bit
// samples. Channels is 1 for a luminance plane or 3 for RGB color.
//
// A raster handed to a strategy is owned by that strategy for the duration
// of the call and is never mutated in place; strategies return new rasters.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Samples returns the number of 8-bit samples (width * height * channels).
func (r *Raster) Samples() int {
	return r.Width * r.Height * r.Channels
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels, Pix: pix}
}

// Validate checks the raster is non-empty and its buffer matches its shape.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("nil raster")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("empty raster (%dx%d)", r.Width, r.Height)
	}
	if r.Channels != 1 && r.Channels != 3 {
		return fmt.Errorf("unsupported channel count %d", r.Channels)
	}
	if len(r.Pix) != r.Samples() {
		return fmt.Errorf("raster buffer holds %d samples, shape needs %d", len(r.Pix), r.Samples())
	}
	return nil
}

// Luminance returns the single-channel luminance plane using BT.601 weights
// (0.299 R + 0.587 G + 0.114 B), rounded to the nearest integer. A
// single-channel raster is returned as a copy.
func (r *Raster) Luminance() *Raster {
	if r.Channels == 1 {
		return r.Clone()
	}

	out := NewRaster(r.Width, r.Height, 1)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+r.Channels, j+1 {
		y := 0.299*float64(r.Pix[i]) + 0.587*float64(r.Pix[i+1]) + 0.114*float64(r.Pix[i+2])
		out.Pix[j] = uint8(y + 0.5)
	}
	return out
}

// Replicate spreads a single-channel plane across the given channel count.
func (r *Raster) Replicate(channels int) *Raster {
	if r.Channels != 1 || channels == 1 {
		return r.Clone()
	}

	out := NewRaster(r.Width, r.Height, channels)
	for i, v := range r.Pix {
		base := i * channels
		for c := 0; c < channels; c++ {
			out.Pix[base+c] = v
		}
	}
	return out
}
