package huffman

import (
	"bytes"
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/iamNilotpal/mediapress/internal/adapters/codec"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"go.uber.org/zap/zaptest"
)

func tableFrom(pairs map[byte]int64) [AlphabetSize]int64 {
	var freqs [AlphabetSize]int64
	for s, f := range pairs {
		freqs[s] = f
	}
	return freqs
}

// optimalCost is the sum of all merged weights, which equals the total
// encoded length of any optimal prefix code for the distribution.
func optimalCost(freqs [AlphabetSize]int64) int64 {
	var w []int64
	for _, f := range freqs {
		if f > 0 {
			w = append(w, f)
		}
	}
	if len(w) == 1 {
		return w[0]
	}

	var cost int64
	for len(w) > 1 {
		sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
		merged := w[0] + w[1]
		cost += merged
		w = append([]int64{merged}, w[2:]...)
	}
	return cost
}

func TestKnownCodeLengths(t *testing.T) {
	freqs := tableFrom(map[byte]int64{'a': 5, 'b': 9, 'c': 12, 'd': 13, 'e': 16, 'f': 45})
	codes := BuildCodes(BuildTree(freqs))

	want := map[byte]int{'a': 4, 'b': 4, 'c': 3, 'd': 3, 'e': 3, 'f': 1}
	for s, l := range want {
		if len(codes[s]) != l {
			t.Errorf("symbol %q: code %q has length %d, want %d", s, codes[s], len(codes[s]), l)
		}
	}
	if !codes.IsPrefixFree() {
		t.Fatal("table is not prefix free")
	}
}

func TestEqualFrequencyTieBreak(t *testing.T) {
	freqs := tableFrom(map[byte]int64{0: 1, 1: 1, 2: 1, 3: 1})
	codes := BuildCodes(BuildTree(freqs))

	want := CodeTable{0: "00", 1: "01", 2: "10", 3: "11"}
	for s, c := range want {
		if codes[s] != c {
			t.Errorf("symbol %d: got %q want %q", s, codes[s], c)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var freqs [AlphabetSize]int64
	for i := range freqs {
		freqs[i] = int64(rng.Intn(4)) // many ties
	}

	first := BuildCodes(BuildTree(freqs))
	for i := 0; i < 5; i++ {
		again := BuildCodes(BuildTree(freqs))
		for s, c := range first {
			if again[s] != c {
				t.Fatalf("run %d: symbol %d changed from %q to %q", i, s, c, again[s])
			}
		}
	}
}

func TestPrefixFreeAndOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		var freqs [AlphabetSize]int64
		symbols := 2 + rng.Intn(AlphabetSize-1)
		for i := 0; i < symbols; i++ {
			freqs[rng.Intn(AlphabetSize)] += int64(1 + rng.Intn(1000))
		}

		codes := BuildCodes(BuildTree(freqs))
		if !codes.IsPrefixFree() {
			t.Fatalf("trial %d: table not prefix free", trial)
		}

		distinct := 0
		for _, f := range freqs {
			if f > 0 {
				distinct++
			}
		}
		if len(codes) != distinct {
			t.Fatalf("trial %d: %d codes for %d symbols", trial, len(codes), distinct)
		}

		if got, want := codes.EncodedBits(freqs), optimalCost(freqs); got != want {
			t.Fatalf("trial %d: encoded bits %d, optimal %d", trial, got, want)
		}
	}
}

func TestIsPrefixFreeDetectsViolation(t *testing.T) {
	if (CodeTable{1: "0", 2: "01"}).IsPrefixFree() {
		t.Fatal("expected violation to be detected")
	}
	if !(CodeTable{1: "0", 2: "10", 3: "11"}).IsPrefixFree() {
		t.Fatal("valid table reported as violating")
	}
}

func TestSingleSymbolStream(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1000)

	enc, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}

	if enc.Table[0x41] != "0" {
		t.Fatalf("single symbol should get code \"0\", got %q", enc.Table[0x41])
	}
	if len(enc.Packed) != 125 {
		t.Fatalf("expected 125 packed bytes, got %d", len(enc.Packed))
	}
	if enc.Entropy != 0 {
		t.Fatalf("entropy of a constant stream should be 0, got %f", enc.Entropy)
	}

	back, err := Decode(enc.Packed, BuildTree(enc.Frequencies), enc.SymbolCount)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, data) {
		t.Fatal("single symbol stream did not round trip")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 4096)
	for i := range data {
		// Skewed distribution so codes have different lengths.
		data[i] = byte(int(rng.ExpFloat64()*20) % AlphabetSize)
	}

	enc, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}

	if want := (enc.BitLength + 7) / 8; int64(len(enc.Packed)) != want {
		t.Fatalf("packed %d bytes for %d bits", len(enc.Packed), enc.BitLength)
	}
	if avg := float64(enc.BitLength) / float64(len(data)); avg < enc.Entropy || avg >= enc.Entropy+1 {
		t.Fatalf("average code length %f outside [H, H+1) with H=%f", avg, enc.Entropy)
	}

	back, err := Decode(enc.Packed, BuildTree(enc.Frequencies), enc.SymbolCount)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestPaddingOnlyToNextByte(t *testing.T) {
	// Two equally likely symbols, one bit each: 16 symbols pack into exactly 2 bytes.
	data := []byte{0, 1, 0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0}
	enc, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(enc.Packed) != 2 {
		t.Fatalf("expected 2 bytes, got %d", len(enc.Packed))
	}
	if enc.Packed[0] != 0x55 || enc.Packed[1] != 0xF0 {
		t.Fatalf("unexpected packing %x", enc.Packed)
	}

	enc, err = Encode(data[:9])
	if err != nil {
		t.Fatal(err)
	}
	if len(enc.Packed) != 2 || enc.Packed[1] != 0x80 {
		t.Fatalf("expected zero padded second byte 0x80, got %x", enc.Packed)
	}
}

func TestEncodeEmpty(t *testing.T) {
	if _, err := Encode(nil); err != ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if BuildTree([AlphabetSize]int64{}) != nil {
		t.Fatal("empty table should build no tree")
	}
}

func TestContainerRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	enc, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}

	blob, err := enc.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	back, err := UnmarshalContainer(blob)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("got %q", back)
	}

	if _, err := UnmarshalContainer(blob[:3]); err == nil {
		t.Fatal("truncated container should fail")
	}
	if _, err := UnmarshalContainer(blob[:len(blob)-1]); err == nil {
		t.Fatal("short packed section should fail")
	}
}

func makeRaster(w, h, channels int) *domain.Raster {
	r := domain.NewRaster(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < channels; c++ {
				r.Pix[(y*w+x)*channels+c] = uint8((x*3 + y*5 + c*40) % 256)
			}
		}
	}
	return r
}

func TestStrategyContract(t *testing.T) {
	s := NewStrategy(codec.New(), nil, zaptest.NewLogger(t))
	src := makeRaster(40, 30, 3)
	orig := src.Clone()

	out, err := s.Compress(context.Background(), src, 50)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(out.Raster.Pix, orig.Pix) || out.Raster.Channels != 3 {
		t.Fatal("huffman must return the input pixels unchanged")
	}
	if !bytes.Equal(src.Pix, orig.Pix) {
		t.Fatal("input raster was mutated")
	}
	if out.MSE != 0 || out.PSNR != 100 {
		t.Fatalf("expected mse 0 psnr 100, got %v %v", out.MSE, out.PSNR)
	}

	// Rebuild the packed size from the archived container and check the formula.
	stream, err := codec.New().EncodeJPEG(orig, DefaultSourceQuality)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := Encode(stream)
	if err != nil {
		t.Fatal(err)
	}
	want := float64(orig.Samples()*8) / float64(len(enc.Packed)*8)
	if out.Ratio != want {
		t.Fatalf("ratio %v, want %v", out.Ratio, want)
	}

	decoded, err := UnmarshalContainer(out.Codestream)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, stream) {
		t.Fatal("codestream does not decode to the serialized raster")
	}
}

func TestStrategyRejectsEmptyRaster(t *testing.T) {
	s := NewStrategy(codec.New(), nil, nil)
	_, err := s.Compress(context.Background(), &domain.Raster{Channels: 1}, 50)
	if !errors.IsCategory(err, errors.ErrorCoding) {
		t.Fatalf("expected coding error, got %v", err)
	}
}
