package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMediaErrorChain(t *testing.T) {
	cause := errors.New("exit status 1")
	err := fmt.Errorf("wrapped: %w", NewMediaError(ErrorExternalTool, "video.transcode", cause).WithDetail("Unknown encoder"))

	if !IsCategory(err, ErrorExternalTool) {
		t.Fatal("category lost through wrapping")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost through wrapping")
	}
	if OperationOf(err) != "video.transcode" {
		t.Fatalf("operation %q", OperationOf(err))
	}
	if msg := err.Error(); !strings.Contains(msg, "[external-tool] video.transcode") || !strings.Contains(msg, "Unknown encoder") {
		t.Fatalf("message %q", msg)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewValidationError("level", 9, errors.New("out of range")), "validation"},
		{NewMediaError(ErrorDecode, "op", errors.New("x")), "decode"},
		{NewMediaError(ErrorNotImplemented, "op", errors.New("x")), "not-implemented"},
		{errors.New("plain"), "unknown"},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("run: %w", context.Canceled), "cancelled"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("request: %w", NewValidationError("method", "lzw", errors.New("unsupported")))

	ve := AsValidationError(err)
	if ve == nil || ve.Field != "method" || ve.Value != "lzw" {
		t.Fatalf("got %+v", ve)
	}
	if AsValidationError(errors.New("x")) != nil || IsValidationError(nil) {
		t.Fatal("false positive")
	}
}
