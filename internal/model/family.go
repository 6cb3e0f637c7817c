package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// FontFamily represents a resolved Google Fonts family with its variants.
//
// A FontFamily is created from a resolver response and is conceptually
// immutable once resolved: variants are added while building the family
// and the pipeline only reads from it afterwards.
//
// Paths are computed at construction time:
//
//	cfg := &model.PathConfig{TargetDir: "./fonts", StylesheetFileName: "fonts.css"}
//	family := model.NewFontFamily("Open Sans", "sans-serif", nil, cfg)
//	fmt.Println(family.Dir)            // "fonts/open-sans"
//	fmt.Println(family.StylesheetPath) // "fonts/open-sans/fonts.css"
type FontFamily struct {
	// Name is the display name as reported by the API, e.g. "Open Sans".
	Name string

	// Slug is the lowercase kebab-case form used for directory and
	// file naming, e.g. "open-sans".
	Slug string

	// Category is the API category, e.g. "sans-serif".
	Category string

	// Subsets lists the character subsets available for the family.
	Subsets []string

	// Variants contains all resolved variants of the family.
	// Unique per (weight, style) pair; AddVariant enforces this.
	Variants []*Variant

	// Dir is the computed directory all family files are written to.
	Dir string

	// StylesheetPath is the computed path of the fonts.css artifact.
	StylesheetPath string

	keys map[VariantKey]struct{}
}

// PathConfig holds path settings for resolved families.
type PathConfig struct {
	// TargetDir is the base directory; each family gets a slug-named
	// subdirectory beneath it.
	TargetDir string

	// StylesheetFileName is the name of the stylesheet artifact written
	// into the family directory (typically "fonts.css").
	StylesheetFileName string
}

// NewFontFamily creates a FontFamily with computed paths.
//
// The display name is taken as-is from the API; the slug is derived from
// it (lowercased, whitespace collapsed to single hyphens, invalid filename
// characters replaced). If name is empty the family is unnamed and the
// slug is "unnamed".
func NewFontFamily(name, category string, subsets []string, cfg *PathConfig) *FontFamily {
	slug := Slugify(name)

	family := &FontFamily{
		Name:     name,
		Slug:     slug,
		Category: category,
		Subsets:  subsets,
		keys:     make(map[VariantKey]struct{}),
	}

	family.Dir = filepath.Join(cfg.TargetDir, slug)
	family.StylesheetPath = filepath.Join(family.Dir, cfg.StylesheetFileName)

	return family
}

// AddVariant adds a variant with computed file paths.
//
// Returns an error if a variant with the same (weight, style) pair is
// already present; families never contain duplicate variants.
func (f *FontFamily) AddVariant(weight int, style Style, url string) (*Variant, error) {
	v := &Variant{
		Weight: weight,
		Style:  style,
		URL:    url,
	}

	if _, ok := f.keys[v.Key()]; ok {
		return nil, fmt.Errorf("duplicate variant %s for family %q", v.Key(), f.Name)
	}

	base := f.Slug + "-" + v.Name()
	v.TTFPath = filepath.Join(f.Dir, base+".ttf")
	v.WOFF2Path = filepath.Join(f.Dir, base+".woff2")

	f.keys[v.Key()] = struct{}{}
	f.Variants = append(f.Variants, v)

	return v, nil
}

// Variant returns the variant with the given weight and style,
// or nil if the family has none.
func (f *FontFamily) Variant(weight int, style Style) *Variant {
	for _, v := range f.Variants {
		if v.Weight == weight && v.Style == style {
			return v
		}
	}
	return nil
}

// DisplayName returns the family name for stylesheet output. When the
// API name is missing it falls back to title-casing the slug
// ("open-sans" -> "Open Sans").
func (f *FontFamily) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	words := strings.Split(f.Slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Slugify converts a family name to its lowercase kebab-case form used
// for directories and file names: "Open Sans" -> "open-sans".
func Slugify(name string) string {
	name = sanitizeFileName(name)
	name = strings.ToLower(strings.TrimSpace(name))
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, "-")
	if name == "" {
		return "unnamed"
	}
	return name
}

// NormalizeFamilyName canonicalizes a family name for matching:
// lowercased with internal whitespace collapsed to single spaces.
// "open  SANS " and "Open Sans" normalize to the same string.
func NormalizeFamilyName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")
}

// sanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
