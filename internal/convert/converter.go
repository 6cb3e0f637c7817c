package convert

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Converter transcodes a downloaded font file into its web-optimized
// form. It is a capability, not a specific binary: the pipeline only
// needs path-in, path-out, or an explicit error, so the subprocess
// implementation can later be swapped for a library-based encoder
// without touching the rest of the pipeline.
type Converter interface {
	// Available reports whether the converter can run at all.
	// A non-nil error (typically *ToolMissingError) is fatal for the
	// whole run and is checked before any download starts.
	Available() error

	// Convert transcodes the file at inputPath and returns the result.
	// Per-file failures return *ConversionError and only fail that
	// variant.
	Convert(ctx context.Context, inputPath string) (*Result, error)
}

// Result describes one completed conversion.
type Result struct {
	// TaskID identifies this conversion, e.g. "convert-018f3c...".
	TaskID string

	// InputPath is the source file that was converted.
	InputPath string

	// OutputPath is the produced web-optimized file.
	OutputPath string

	// Duration is how long the external tool ran.
	Duration time.Duration
}

// ToolMissingError indicates the external converter binary could not be
// located anywhere. This is fatal for the whole run unless conversion
// is skipped via configuration.
type ToolMissingError struct {
	// Tool is the binary name that was searched for.
	Tool string

	// Searched lists the locations that were checked.
	Searched []string
}

// Error implements the error interface.
func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("could not locate %s (searched: %s)", e.Tool, strings.Join(e.Searched, ", "))
}

// ConversionError indicates the converter failed on a specific file.
// The affected variant is excluded from the stylesheet; other variants
// are unaffected.
type ConversionError struct {
	// InputPath is the file that failed to convert.
	InputPath string

	// Output is the tool's combined stdout/stderr, trimmed.
	Output string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("convert %s: %v: %s", e.InputPath, e.Err, e.Output)
	}
	return fmt.Sprintf("convert %s: %v", e.InputPath, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ConversionError) Unwrap() error {
	return e.Err
}
