package ports

import (
	"context"
	"io"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
)

// ImageStrategy compresses a decoded raster at a given level.
// Implementations must not mutate the input raster.
type ImageStrategy interface {
	// Compress returns the approximated raster and the strategy's metrics.
	Compress(ctx context.Context, raster *domain.Raster, level int) (*domain.StrategyOutput, error)

	// Method returns the method this strategy implements.
	Method() domain.Method
}

// VideoTranscoder compresses a video file into another file.
type VideoTranscoder interface {
	// Transcode writes outputPath and returns the measured figures.
	// MSE and PSNR are placeholders, frame level comparison is not performed.
	Transcode(ctx context.Context, inputPath, outputPath string, level int) (*VideoOutput, error)
}

// VideoOutput is the result of a video transcode.
type VideoOutput struct {
	Ratio          float64
	MSE            float64
	PSNR           float64
	ElapsedSeconds float64
	InputBytes     int64
	OutputBytes    int64
}

// CommandRunner executes an external process and returns its diagnostic output.
// A non-nil error means the process could not start or exited with a non-zero status.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stderr []byte, err error)
}

// ImageCodec converts between files, rasters and the baseline lossy encoding.
type ImageCodec interface {
	// DecodeFile reads and decodes an image file into a raster.
	DecodeFile(path string) (*domain.Raster, error)

	// Decode reads an encoded image from r.
	Decode(r io.Reader) (*domain.Raster, error)

	// EncodeJPEG returns the raster encoded as baseline JPEG at quality 1-100.
	EncodeJPEG(raster *domain.Raster, quality int) ([]byte, error)
}
