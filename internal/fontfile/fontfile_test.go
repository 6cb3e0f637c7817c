package fontfile

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"truetype", []byte{0x00, 0x01, 0x00, 0x00, 0xAA}, FormatTrueType},
		{"truetype mac", []byte("true....."), FormatTrueType},
		{"opentype", []byte("OTTO....."), FormatOpenType},
		{"collection", []byte("ttcf....."), FormatCollection},
		{"woff", []byte("wOFF....."), FormatWOFF},
		{"woff2", []byte("wOF2....."), FormatWOFF2},
		{"html error page", []byte("<html><body>403</body></html>"), FormatUnknown},
		{"short", []byte{0x00}, FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormat_IsSFNT(t *testing.T) {
	if !FormatTrueType.IsSFNT() || !FormatOpenType.IsSFNT() {
		t.Error("truetype and opentype are SFNT containers")
	}
	if FormatWOFF2.IsSFNT() || FormatUnknown.IsSFNT() {
		t.Error("woff2/unknown are not SFNT containers")
	}
}

func TestValidateSFNT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go-regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	name, err := ValidateSFNT(path)
	if err != nil {
		t.Fatalf("ValidateSFNT: %v", err)
	}
	t.Logf("family name: %q", name)
}

func TestValidateSFNT_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(path, []byte("<html>not a font</html>"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := ValidateSFNT(path); err == nil {
		t.Error("expected error for non-font data")
	}
}

func TestValidateWOFF2_WrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.woff2")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := ValidateWOFF2(path); err == nil {
		t.Error("expected error for non-woff2 data")
	}
}

func TestValidateWOFF2_TruncatedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trunc.woff2")
	if err := os.WriteFile(path, []byte("wOF2garbage"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := ValidateWOFF2(path); err == nil {
		t.Error("expected error for truncated woff2 data")
	}
}
