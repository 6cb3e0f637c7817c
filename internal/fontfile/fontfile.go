// Package fontfile inspects font files by their binary format.
//
// The pipeline uses it in two places: after a download, to make sure the
// payload is actually an SFNT font and not an HTML error page, and after
// a conversion, to confirm the output really is WOFF2.
package fontfile

import (
	"fmt"
	"os"

	"github.com/tdewolff/font"
	"golang.org/x/image/font/sfnt"
)

// Format identifies a font container format by its magic bytes.
type Format int

const (
	// FormatUnknown means the data does not start with a known font magic.
	FormatUnknown Format = iota

	// FormatTrueType is an SFNT container with TrueType outlines.
	FormatTrueType

	// FormatOpenType is an SFNT container with CFF outlines ("OTTO").
	FormatOpenType

	// FormatCollection is a TrueType collection ("ttcf").
	FormatCollection

	// FormatWOFF is the WOFF 1.0 web font container.
	FormatWOFF

	// FormatWOFF2 is the WOFF 2.0 web font container.
	FormatWOFF2
)

// String returns a short human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatTrueType:
		return "truetype"
	case FormatOpenType:
		return "opentype"
	case FormatCollection:
		return "collection"
	case FormatWOFF:
		return "woff"
	case FormatWOFF2:
		return "woff2"
	default:
		return "unknown"
	}
}

// Sniff identifies the font format from the first four bytes of data.
func Sniff(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}
	switch string(data[:4]) {
	case "\x00\x01\x00\x00", "true":
		return FormatTrueType
	case "OTTO":
		return FormatOpenType
	case "ttcf":
		return FormatCollection
	case "wOFF":
		return FormatWOFF
	case "wOF2":
		return FormatWOFF2
	}
	return FormatUnknown
}

// IsSFNT reports whether the format is a plain SFNT container, which is
// what the Google Fonts file URLs serve and what woff2_compress accepts.
func (f Format) IsSFNT() bool {
	return f == FormatTrueType || f == FormatOpenType
}

// ValidateSFNT fully parses an SFNT font file and returns the family
// name recorded in its name table.
//
// This goes deeper than Sniff: a file can carry the right magic and
// still be truncated or corrupt. The family name is best-effort; fonts
// without a readable name table return an empty string with a nil error.
func ValidateSFNT(path string) (familyName string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return "", nil
	}
	return name, nil
}

// ValidateWOFF2 checks that a converted file is a structurally valid
// WOFF2 font by decoding it back to SFNT form.
func ValidateWOFF2(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if got := Sniff(data); got != FormatWOFF2 {
		return fmt.Errorf("%s: expected woff2, got %s", path, got)
	}

	if _, err := font.ToSFNT(data); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
