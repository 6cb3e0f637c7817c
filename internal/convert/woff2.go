package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gfontapi/gfontapi/internal/fontfile"
)

const (
	// toolName is the external compressor binary.
	toolName = "woff2_compress"

	// taskIDPrefix prefixes conversion task IDs.
	taskIDPrefix = "convert-"

	// outputExtension is what the tool produces.
	outputExtension = ".woff2"
)

// fallbackDirs are checked for the binary when it is not on $PATH,
// matching where the gfontapi installer historically placed it.
var fallbackDirs = []string{
	"/usr/local/bin",
	"~/.gfontapi/bin",
}

// WOFF2Compress converts TrueType files to WOFF2 by invoking the
// woff2_compress tool as a subprocess.
//
// The binary is located once (explicit settings path, then $PATH, then
// the installer's fallback directories) and the resolution is cached.
// woff2_compress writes its output next to the input with the extension
// replaced, so the output path is derived rather than passed.
//
// Example usage:
//
//	conv := convert.NewWOFF2Compress("", 2*time.Minute, false)
//	if err := conv.Available(); err != nil {
//	    // *ToolMissingError: fatal before any download
//	}
//	res, err := conv.Convert(ctx, "/fonts/open-sans/open-sans-bold.ttf")
//	// res.OutputPath == "/fonts/open-sans/open-sans-bold.woff2"
type WOFF2Compress struct {
	explicitPath string
	timeout      time.Duration
	keepSource   bool

	once     sync.Once
	resolved string
	findErr  error
}

// NewWOFF2Compress creates a WOFF2Compress converter.
//
// explicitPath, when non-empty, pins the binary location and skips
// discovery. timeout bounds each invocation. keepSource controls whether
// the input TTF survives a successful conversion.
func NewWOFF2Compress(explicitPath string, timeout time.Duration, keepSource bool) *WOFF2Compress {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &WOFF2Compress{
		explicitPath: explicitPath,
		timeout:      timeout,
		keepSource:   keepSource,
	}
}

// Available locates the woff2_compress binary, returning
// *ToolMissingError when it cannot be found anywhere.
func (c *WOFF2Compress) Available() error {
	c.once.Do(func() {
		c.resolved, c.findErr = c.find()
	})
	return c.findErr
}

// find resolves the binary path.
func (c *WOFF2Compress) find() (string, error) {
	searched := []string{}

	if c.explicitPath != "" {
		if info, err := os.Stat(c.explicitPath); err == nil && !info.IsDir() {
			return c.explicitPath, nil
		}
		searched = append(searched, c.explicitPath)
	}

	if path, err := exec.LookPath(toolName); err == nil {
		return path, nil
	}
	searched = append(searched, "$PATH")

	for _, dir := range fallbackDirs {
		if strings.HasPrefix(dir, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
		candidate := filepath.Join(dir, toolName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		searched = append(searched, candidate)
	}

	return "", &ToolMissingError{Tool: toolName, Searched: searched}
}

// Convert runs woff2_compress on inputPath.
//
// The output path is the input path with its extension replaced by
// ".woff2". After the tool exits, the output must exist and carry the
// WOFF2 magic; anything else is a *ConversionError. On success the
// source file is removed unless the converter keeps sources.
func (c *WOFF2Compress) Convert(ctx context.Context, inputPath string) (*Result, error) {
	if err := c.Available(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(inputPath); err != nil {
		return nil, &ConversionError{InputPath: inputPath, Err: err}
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + outputExtension

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, c.resolved, inputPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath) // drop any partial output
		return nil, &ConversionError{
			InputPath: inputPath,
			Output:    strings.TrimSpace(string(out)),
			Err:       err,
		}
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, &ConversionError{InputPath: inputPath, Err: fmt.Errorf("tool produced no output: %w", err)}
	}
	if got := fontfile.Sniff(data); got != fontfile.FormatWOFF2 {
		os.Remove(outputPath)
		return nil, &ConversionError{InputPath: inputPath, Err: fmt.Errorf("tool produced %s output, expected woff2", got)}
	}

	if !c.keepSource {
		if err := os.Remove(inputPath); err != nil {
			return nil, &ConversionError{InputPath: inputPath, Err: fmt.Errorf("remove source: %w", err)}
		}
	}

	return &Result{
		TaskID:     newTaskID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Duration:   time.Since(start),
	}, nil
}

// newTaskID generates a unique conversion task ID using UUID v7 for
// natural chronological ordering.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(taskIDPrefix+"%d", time.Now().UnixNano())
	}
	return taskIDPrefix + id.String()
}
