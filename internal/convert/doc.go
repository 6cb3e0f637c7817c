// Package convert transcodes downloaded TrueType files to WOFF2.
//
// The Converter interface is narrow (path in, result or error out) so
// the pipeline never depends on a particular binary. The
// shipped implementation, WOFF2Compress, shells out to the
// woff2_compress tool from Google's woff2 project.
//
// # Tool discovery
//
// WOFF2Compress looks for the binary in order:
//
//  1. An explicit path from settings (converter_path)
//  2. $PATH
//  3. /usr/local/bin and ~/.gfontapi/bin
//
// A miss everywhere returns *ToolMissingError from Available, which the
// pipeline treats as fatal before starting any download.
//
// # Failure model
//
// Per-file failures (tool exits non-zero, output missing or not WOFF2)
// return *ConversionError; only that variant is dropped from the
// stylesheet. Each successful conversion carries a "convert-" prefixed
// UUIDv7 task ID for traceability in verbose output.
package convert
