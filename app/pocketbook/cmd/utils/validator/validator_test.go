package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/pocketbook/pocketbook/app/core/compressor"
)

// TestNew ensures that New() returns a non-nil Validator instance.
func TestNew(t *testing.T) {
	validator := New()
	if validator == nil {
		t.Fatal("New() returned nil")
	}
	if _, ok := validator.(*validatorImpl); !ok {
		t.Errorf("New() returned unexpected type: %T", validator)
	}
}

// TestValidatePageSize tests the ValidatePageSize method for various inputs.
func TestValidatePageSize(t *testing.T) {
	validator := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
		errMsg  string
	}{
		{name: "valid size", input: "5", want: 5},
		{name: "empty uses default", input: "", want: DefaultPageSize},
		{name: "minimum", input: "1", want: 1},
		{name: "maximum", input: "100", want: 100},
		{name: "with spaces", input: " 7 ", want: 7},
		{name: "zero", input: "0", wantErr: true, errMsg: "page size must be between 1 and 100"},
		{name: "too large", input: "101", wantErr: true, errMsg: "page size must be between 1 and 100"},
		{name: "not a number", input: "three", wantErr: true, errMsg: "page size must be a valid integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.ValidatePageSize(ctx, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePageSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidatePageSize() error = %v, want error containing %q", err, tt.errMsg)
			}
			if got != tt.want {
				t.Errorf("ValidatePageSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestValidateLoglevel tests the ValidateLoglevel method for various log level inputs.
func TestValidateLoglevel(t *testing.T) {
	validator := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "debug", input: "debug", want: "debug"},
		{name: "upper case warn", input: "WARN", want: "warn"},
		{name: "empty defaults to info", input: "", want: "info"},
		{name: "invalid", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.ValidateLoglevel(ctx, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLoglevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateLoglevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCompression(t *testing.T) {
	validator := New()
	ctx := context.Background()

	got, err := validator.ValidateCompression(ctx, "zstd")
	if err != nil || got != compressor.Zstd {
		t.Errorf("ValidateCompression(zstd) = %v, %v", got, err)
	}
	if _, err := validator.ValidateCompression(ctx, "brotli"); err == nil {
		t.Error("ValidateCompression(brotli) expected error")
	}
}

// TestParseBlockSize tests raw byte and unit inputs.
func TestParseBlockSize(t *testing.T) {
	validator := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
		errMsg  string
	}{
		{name: "empty uses default", input: "", want: DefaultBlockSize},
		{name: "raw bytes", input: "16384", want: 16 * KB},
		{name: "kilobytes", input: "64KB", want: 64 * KB},
		{name: "lower case unit", input: "1mb", want: MB},
		{name: "fraction", input: "1.5KB", want: 1536},
		{name: "below minimum", input: "512", wantErr: true, errMsg: "at least 1.0KB"},
		{name: "above maximum", input: "8MB", wantErr: true, errMsg: "at most 4.0MB"},
		{name: "unknown unit", input: "1GB", wantErr: true, errMsg: "unsupported unit"},
		{name: "two decimal points", input: "1.2.3KB", wantErr: true, errMsg: "multiple decimal points"},
		{name: "no number", input: "KB", wantErr: true, errMsg: "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.ParseBlockSize(ctx, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBlockSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ParseBlockSize() error = %v, want error containing %q", err, tt.errMsg)
			}
			if got != tt.want {
				t.Errorf("ParseBlockSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	validator := New()
	ctx := context.Background()

	tests := map[int64]string{
		512:      "512B",
		16 * KB:  "16.0KB",
		3 * MB:   "3.0MB",
		2*GB + 1: "2.0GB",
	}
	for in, want := range tests {
		if got := validator.FormatSize(ctx, in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
