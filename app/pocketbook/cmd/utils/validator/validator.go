package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/compressor"
)

// Size constants for block sizes
const (
	Byte             int64 = 1
	KB                     = 1024 * Byte
	MB                     = 1024 * KB
	GB                     = 1024 * MB
	MinBlockSize           = 1 * KB
	MaxBlockSize           = 4 * MB
	DefaultBlockSize       = 16 * KB
	MinPageSize            = 1
	MaxPageSize            = 100
	DefaultPageSize        = 3
)

// Validator defines the validation operations used for pocketbook configuration.
type Validator interface {
	// ValidatePageSize validates that the page size is an integer between 1 and 100.
	// An empty input returns the default page size.
	ValidatePageSize(ctx context.Context, input string) (int, error)

	// ValidateLoglevel validates whether the provided log level fits slog log levels and returns a valid string.
	// Returns "info" for an empty input.
	ValidateLoglevel(ctx context.Context, logLevel string) (string, error)

	// ValidateCompression maps a codec name (none, snappy, lz4, zstd) to its type.
	ValidateCompression(ctx context.Context, name string) (compressor.Type, error)

	// ParseBlockSize parses a human-readable block size (e.g. "16KB", "16384")
	// and returns the size in bytes.
	ParseBlockSize(ctx context.Context, input string) (int64, error)

	// ValidateBlockSize validates that the size is within 1KB and 4MB.
	ValidateBlockSize(ctx context.Context, size int64) (int64, error)

	// FormatSize converts a size in bytes to a human-readable format.
	FormatSize(ctx context.Context, bytes int64) string
}

// validatorImpl implements the Validator interface.
type validatorImpl struct{}

// New creates a new instance of the Validator interface.
func New() Validator {
	return &validatorImpl{}
}

// ValidatePageSize implements the ValidatePageSize method of the Validator interface.
func (v *validatorImpl) ValidatePageSize(ctx context.Context, input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return DefaultPageSize, nil
	}
	size, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("page size must be a valid integer")
	}
	if size < MinPageSize || size > MaxPageSize {
		return 0, fmt.Errorf("page size must be between %d and %d", MinPageSize, MaxPageSize)
	}
	return size, nil
}

// ValidateLoglevel implements the ValidateLoglevel method of the Validator interface.
func (v *validatorImpl) ValidateLoglevel(ctx context.Context, logLevel string) (string, error) {
	logLevel = strings.ToLower(strings.TrimSpace(logLevel))
	validLoglevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

	if logLevel == "" {
		return "info", nil
	}
	if validLoglevels[logLevel] {
		return logLevel, nil
	}
	return "", fmt.Errorf("loglevel must be 'debug', 'info', 'warn' or 'error'")
}

// ValidateCompression implements the ValidateCompression method of the Validator interface.
func (v *validatorImpl) ValidateCompression(ctx context.Context, name string) (compressor.Type, error) {
	t, err := compressor.ParseType(name)
	if err != nil {
		return 0, fmt.Errorf("compression must be 'none', 'snappy', 'lz4' or 'zstd'")
	}
	return t, nil
}

// ParseBlockSize implements the ParseBlockSize method of the Validator interface.
func (v *validatorImpl) ParseBlockSize(ctx context.Context, input string) (int64, error) {
	input = strings.TrimSpace(input)

	// Handle empty input (default)
	if input == "" {
		return DefaultBlockSize, nil
	}

	// Try parsing as raw bytes first
	if val, err := strconv.ParseInt(input, 10, 64); err == nil {
		return v.ValidateBlockSize(ctx, val)
	}

	input = strings.ToUpper(input)
	if strings.Count(input, ".") > 1 {
		return 0, fmt.Errorf("invalid format: multiple decimal points not allowed")
	}

	var numStr strings.Builder
	var unit string
	for i, r := range input {
		if (r >= '0' && r <= '9') || r == '.' {
			numStr.WriteRune(r)
		} else {
			unit = strings.TrimSpace(input[i:])
			break
		}
	}

	if numStr.Len() == 0 {
		return 0, fmt.Errorf("invalid format: use raw bytes (e.g., 16384) or size with unit (e.g., 16KB, 1MB)")
	}
	num, err := strconv.ParseFloat(numStr.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", numStr.String())
	}

	var multiplier int64
	switch unit {
	case "", "B":
		multiplier = Byte
	case "KB":
		multiplier = KB
	case "MB":
		multiplier = MB
	default:
		return 0, fmt.Errorf("unsupported unit '%s': supported units are B, KB, MB", unit)
	}

	// round to avoid floating-point precision issues
	return v.ValidateBlockSize(ctx, int64(num*float64(multiplier)+0.5))
}

// ValidateBlockSize implements the ValidateBlockSize method of the Validator interface.
func (v *validatorImpl) ValidateBlockSize(ctx context.Context, size int64) (int64, error) {
	if size < MinBlockSize {
		return 0, fmt.Errorf("block size must be at least %s (%d bytes)", v.FormatSize(ctx, MinBlockSize), MinBlockSize)
	}
	if size > MaxBlockSize {
		return 0, fmt.Errorf("block size must be at most %s (%d bytes)", v.FormatSize(ctx, MaxBlockSize), MaxBlockSize)
	}
	return size, nil
}

// FormatSize implements the FormatSize method of the Validator interface.
func (v *validatorImpl) FormatSize(ctx context.Context, bytes int64) string {
	if bytes >= GB {
		return fmt.Sprintf("%.1fGB", float64(bytes)/float64(GB))
	}
	if bytes >= MB {
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	}
	if bytes >= KB {
		return fmt.Sprintf("%.1fKB", float64(bytes)/float64(KB))
	}
	return fmt.Sprintf("%dB", bytes)
}
