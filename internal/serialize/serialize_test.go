package serialize

import (
	"testing"

	"github.com/iamNilotpal/mediapress/internal/core/domain"
)

func sampleResult() *domain.CompressionResult {
	return &domain.CompressionResult{
		MediaKind:             domain.MediaImage,
		Method:                domain.MethodSVD,
		Level:                 50,
		ArtifactLocation:      "static/compressed/abc.jpg",
		OriginalSizeBytes:     4096,
		CompressedSizeBytes:   1024,
		CompressionRatio:      4,
		MSE:                   12.5,
		PSNR:                  37.16,
		DistortionMeasured:    true,
		ProcessingTimeSeconds: 0.25,
	}
}

func TestProtoKeepsJSONFieldNames(t *testing.T) {
	data, err := Marshal(FormatProto, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	fields, err := UnMarshalProto(data)
	if err != nil {
		t.Fatal(err)
	}

	if fields["compressed_media_url"] != "static/compressed/abc.jpg" {
		t.Fatalf("compressed_media_url = %v", fields["compressed_media_url"])
	}
	if fields["compression_ratio"] != float64(4) {
		t.Fatalf("compression_ratio = %v", fields["compression_ratio"])
	}
	if fields["method"] != "svd" {
		t.Fatalf("method = %v", fields["method"])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := Marshal(FormatJSON, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var got domain.CompressionResult
	if err := UnMarshalJSON(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != *sampleResult() {
		t.Fatalf("got %+v", got)
	}
}

func TestMarshalRejectsUnknownFormat(t *testing.T) {
	if _, err := Marshal("xml", sampleResult()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := MarshalProto([]int{1, 2}); err == nil {
		t.Fatal("expected error for non-object value")
	}
}
