// Package codec decodes source images into rasters and encodes rasters into
// the baseline lossy format (JPEG) used both as the Huffman byte source and
// as the storage format of every image artifact.
package codec

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/pool"
)

const (
	// MinQuality and MaxQuality bound the JPEG quality setting.
	MinQuality = 1
	MaxQuality = 100

	defaultBufferSize = 256 * 1024 // 256KB
)

// Codec implements ports.ImageCodec on top of disintegration/imaging.
// It is safe for concurrent use.
type Codec struct {
	buffers *pool.BufferPool
}

func New() *Codec {
	return &Codec{buffers: pool.NewBufferPool(defaultBufferSize)}
}

// DecodeFile opens and decodes an image file, applying EXIF orientation.
// JPEG, PNG, TIFF, BMP and GIF are supported.
func (c *Codec) DecodeFile(path string) (*domain.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	defer f.Close()

	raster, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return raster, nil
}

// Decode reads an encoded image from r, applying EXIF orientation.
func (c *Codec) Decode(r io.Reader) (*domain.Raster, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromImage(img)
}

// EncodeJPEG encodes the raster as baseline JPEG and returns a fresh byte slice.
func (c *Codec) EncodeJPEG(raster *domain.Raster, quality int) ([]byte, error) {
	if quality < MinQuality || quality > MaxQuality {
		return nil, fmt.Errorf("jpeg quality must be between %d and %d, got %d", MinQuality, MaxQuality, quality)
	}

	img, err := ToImage(raster)
	if err != nil {
		return nil, err
	}

	buf := c.buffers.Get()
	defer c.buffers.Put(buf)

	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// FromImage converts a decoded image into a raster. Grayscale sources become
// single-channel rasters, everything else becomes 3-channel RGB with the
// alpha channel dropped.
func FromImage(img image.Image) (*domain.Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image (%dx%d)", w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		out := domain.NewRaster(w, h, 1)
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			copy(out.Pix[y*w:(y+1)*w], row)
		}
		return out, nil
	case *image.Gray16:
		out := domain.NewRaster(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = src.Pix[y*src.Stride+x*2]
			}
		}
		return out, nil
	}

	nrgba := imaging.Clone(img)
	out := domain.NewRaster(w, h, 3)
	for y := 0; y < h; y++ {
		off := y * nrgba.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			j := (y*w + x) * 3
			out.Pix[j] = nrgba.Pix[i]
			out.Pix[j+1] = nrgba.Pix[i+1]
			out.Pix[j+2] = nrgba.Pix[i+2]
		}
	}
	return out, nil
}

// ToImage converts a raster into an image.Gray (1 channel) or an opaque
// image.NRGBA (3 channels).
func ToImage(raster *domain.Raster) (image.Image, error) {
	if err := raster.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, raster.Width, raster.Height)
	if raster.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, raster.Pix)
		return gray, nil
	}

	nrgba := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(raster.Pix); i, j = i+3, j+4 {
		nrgba.Pix[j] = raster.Pix[i]
		nrgba.Pix[j+1] = raster.Pix[i+1]
		nrgba.Pix[j+2] = raster.Pix[i+2]
		nrgba.Pix[j+3] = 0xff
	}
	return nrgba, nil
}
