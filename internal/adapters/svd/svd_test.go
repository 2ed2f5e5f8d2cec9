package svd

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"go.uber.org/zap/zaptest"
)

func noisePlane(w, h int, seed int64) *domain.Raster {
	rng := rand.New(rand.NewSource(seed))
	r := domain.NewRaster(w, h, 1)
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.Intn(256))
	}
	return r
}

func TestRankScenarios(t *testing.T) {
	tests := []struct {
		level, rows, cols, want int
	}{
		{50, 100, 100, 50},
		{90, 100, 100, 10},
		{10, 100, 100, 90},
		{90, 5, 5, 1},
		{50, 1, 400, 1},
		{30, 64, 200, 44},
	}

	for _, tt := range tests {
		if got := Rank(tt.level, tt.rows, tt.cols); got != tt.want {
			t.Errorf("Rank(%d, %d, %d) = %d, want %d", tt.level, tt.rows, tt.cols, got, tt.want)
		}
	}
}

func TestRankBoundsAndMonotonic(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 7}, {17, 17}, {100, 40}, {480, 640}} {
		m := min(dims[0], dims[1])
		prev := m + 1
		for level := domain.MinLevel; level <= domain.MaxLevel; level++ {
			k := Rank(level, dims[0], dims[1])
			if k < 1 || k > m {
				t.Fatalf("%v level %d: k=%d outside [1, %d]", dims, level, k, m)
			}
			if k > prev {
				t.Fatalf("%v level %d: k=%d increased from %d", dims, level, k, prev)
			}
			prev = k
		}
	}
}

func TestStorageRatio(t *testing.T) {
	// 100x100, k=10: 80000 / ((1000 + 10 + 1000) * 32) bits.
	want := 80000.0 / (2010.0 * 32.0)
	if got := StorageRatio(100, 100, 10); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	if StorageRatio(10, 10, 9) >= 1 {
		t.Fatal("low compression on a small image should expand")
	}
}

func TestFullRankIsExact(t *testing.T) {
	plane := noisePlane(12, 9, 3)

	approx, err := Approximate(context.Background(), plane, 9)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(approx.Pix, plane.Pix) {
		t.Fatal("full rank reconstruction should recover the plane exactly")
	}
}

func TestTruncationLosesDetail(t *testing.T) {
	plane := noisePlane(20, 16, 5)

	approx, err := Approximate(context.Background(), plane, 8)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(approx.Pix, plane.Pix) {
		t.Fatal("rank 8 of a random 16x20 plane should not be exact")
	}
}

func TestApproximateRejects(t *testing.T) {
	ctx := context.Background()
	if _, err := Approximate(ctx, &domain.Raster{Channels: 1}, 1); err == nil {
		t.Fatal("empty plane should fail")
	}
	if _, err := Approximate(ctx, noisePlane(4, 4, 1), 5); err == nil {
		t.Fatal("rank above min dimension should fail")
	}
	if _, err := Approximate(ctx, domain.NewRaster(4, 4, 3), 1); err == nil {
		t.Fatal("multi channel input should fail")
	}
}

func TestStrategyScenario(t *testing.T) {
	s := NewStrategy(zaptest.NewLogger(t))
	plane := noisePlane(100, 100, 11)

	out50, err := s.Compress(context.Background(), plane, 50)
	if err != nil {
		t.Fatal(err)
	}
	out90, err := s.Compress(context.Background(), plane, 90)
	if err != nil {
		t.Fatal(err)
	}

	if out50.Ratio != StorageRatio(100, 100, 50) || out90.Ratio != StorageRatio(100, 100, 10) {
		t.Fatalf("unexpected ratios %v %v", out50.Ratio, out90.Ratio)
	}
	if out90.MSE <= out50.MSE {
		t.Fatalf("rank 10 should be worse than rank 50: %v vs %v", out90.MSE, out50.MSE)
	}
	if out90.PSNR >= out50.PSNR {
		t.Fatalf("PSNR should drop with MSE: %v vs %v", out90.PSNR, out50.PSNR)
	}
	if out50.Raster.Channels != 1 {
		t.Fatal("single channel input should stay single channel")
	}
}

func TestStrategyDegenerateRowIsExact(t *testing.T) {
	// A single row has min dimension 1, so k is 1 and the approximation is full rank.
	s := NewStrategy(nil)
	out, err := s.Compress(context.Background(), noisePlane(50, 1, 2), 90)
	if err != nil {
		t.Fatal(err)
	}
	if out.MSE != 0 || out.PSNR != 100 {
		t.Fatalf("expected exact reconstruction, got mse %v psnr %v", out.MSE, out.PSNR)
	}
}

func TestStrategyColorReplicatesLuminance(t *testing.T) {
	src := domain.NewRaster(8, 6, 3)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	orig := src.Clone()

	out, err := NewStrategy(nil).Compress(context.Background(), src, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src.Pix, orig.Pix) {
		t.Fatal("input raster was mutated")
	}
	if out.Raster.Channels != 3 || out.Raster.Samples() != src.Samples() {
		t.Fatalf("unexpected output shape %+v", out.Raster)
	}
	for i := 0; i < len(out.Raster.Pix); i += 3 {
		p := out.Raster.Pix
		if p[i] != p[i+1] || p[i+1] != p[i+2] {
			t.Fatalf("pixel %d is not gray: %v", i/3, p[i:i+3])
		}
	}
}

func TestStrategyEmptyRaster(t *testing.T) {
	_, err := NewStrategy(nil).Compress(context.Background(), &domain.Raster{Channels: 1}, 50)
	if !errors.IsCategory(err, errors.ErrorNumeric) {
		t.Fatalf("expected numeric error, got %v", err)
	}
}

func TestStrategyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStrategy(nil).Compress(ctx, noisePlane(10, 10, 1), 50)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
