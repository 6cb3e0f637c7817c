package css

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/gfontapi/gfontapi/internal/io"
	"github.com/gfontapi/gfontapi/internal/model"
)

// Generator produces the fonts.css artifact for a resolved family.
//
// Generator takes the successful pipeline results and emits one
// @font-face rule per variant. The output is a string that can be
// written to a file, or written atomically via Write.
//
// Example:
//
//	gen := css.NewGenerator()
//	content := gen.Generate(family, results)
//
//	// Result:
//	// @font-face {
//	//     font-family: "Open Sans";
//	//     src: url("open-sans-regular.woff2") format("woff2");
//	//     font-style: normal;
//	//     font-weight: 400;
//	// }
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the stylesheet content for a family.
//
// One @font-face block is emitted per successful result, ordered by
// weight then style, so output is byte-identical across runs with the
// same inputs. File references are bare relative filenames: the
// stylesheet lives in the same directory as the font files. Failed
// variants contribute nothing.
func (g *Generator) Generate(family *model.FontFamily, results []*model.VariantResult) string {
	var sb strings.Builder

	displayName := escapeString(family.DisplayName())

	for i, r := range model.SuccessfulResults(results) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("@font-face {\n")
		sb.WriteString(fmt.Sprintf("\tfont-family: \"%s\";\n", displayName))
		sb.WriteString(fmt.Sprintf("\tsrc: url(\"%s\") format(\"%s\");\n", filepath.Base(r.Path), formatFor(r.Path)))
		sb.WriteString(fmt.Sprintf("\tfont-style: %s;\n", r.Variant.Style))
		sb.WriteString(fmt.Sprintf("\tfont-weight: %d;\n", r.Variant.Weight))
		sb.WriteString("}\n")
	}

	return sb.String()
}

// Write generates the stylesheet and writes it atomically to the
// family's stylesheet path, overwriting any prior artifact. The file is
// never observable in a partially-written state.
//
// Writing a stylesheet with zero entries is refused: a run where no
// variant survived must not leave an empty artifact behind.
func (g *Generator) Write(ctx context.Context, family *model.FontFamily, results []*model.VariantResult) (string, error) {
	content := g.Generate(family, results)
	if content == "" {
		return "", fmt.Errorf("no successful variants for %q, refusing to write empty stylesheet", family.Name)
	}

	if err := ioutils.AtomicWriteFile(ctx, family.StylesheetPath, []byte(content)); err != nil {
		return "", fmt.Errorf("write stylesheet: %w", err)
	}

	return family.StylesheetPath, nil
}

// formatFor maps a font file extension to its CSS format() identifier.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".woff2":
		return "woff2"
	case ".woff":
		return "woff"
	case ".otf":
		return "opentype"
	default:
		return "truetype"
	}
}

// escapeString escapes characters that would break out of a
// double-quoted CSS string.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
