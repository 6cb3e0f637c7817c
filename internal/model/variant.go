package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Style represents the slant of a font variant.
type Style int

const (
	// StyleNormal is the upright style.
	StyleNormal Style = iota

	// StyleItalic is the italic style.
	StyleItalic
)

// String returns the CSS font-style value ("normal" or "italic").
func (s Style) String() string {
	if s == StyleItalic {
		return "italic"
	}
	return "normal"
}

// weightNames maps CSS font weights to their conventional names,
// used for file naming and user-facing output.
var weightNames = map[int]string{
	100: "thin",
	200: "extra-light",
	300: "light",
	400: "regular",
	500: "medium",
	600: "semi-bold",
	700: "bold",
	800: "extra-bold",
	900: "black",
}

// WeightName returns the conventional name for a CSS font weight
// (e.g. 400 -> "regular", 700 -> "bold").
//
// Weights without a conventional name fall back to the numeric form,
// so WeightName(450) returns "450".
func WeightName(weight int) string {
	if name, ok := weightNames[weight]; ok {
		return name
	}
	return fmt.Sprintf("%d", weight)
}

// Variant represents a single (weight, style) rendering of a font family.
//
// Each variant maps to one downloadable font file. Local file paths are
// computed when the variant is added to a FontFamily via AddVariant:
//
//	variant, _ := family.AddVariant(700, model.StyleItalic, url)
//	fmt.Println(variant.Name())    // "bold-italic"
//	fmt.Println(variant.TTFPath)   // "fonts/open-sans/open-sans-bold-italic.ttf"
//	fmt.Println(variant.WOFF2Path) // "fonts/open-sans/open-sans-bold-italic.woff2"
type Variant struct {
	// Weight is the CSS font weight (100-900 in steps of 100).
	Weight int

	// Style is the slant (normal or italic).
	Style Style

	// URL is the source URL to download the TrueType file from.
	URL string

	// TTFPath is the computed local path for the downloaded TrueType file.
	TTFPath string

	// WOFF2Path is the computed local path for the converted WOFF2 file.
	WOFF2Path string
}

// Name returns the kebab-case variant name, e.g. "regular",
// "regular-italic", "bold", "extra-light-italic".
func (v *Variant) Name() string {
	name := WeightName(v.Weight)
	if v.Style == StyleItalic {
		name += "-italic"
	}
	return name
}

// String implements fmt.Stringer; identical to Name.
func (v *Variant) String() string {
	return v.Name()
}

// Key returns the (weight, style) identity of the variant, used to
// enforce the no-duplicates invariant within a family.
func (v *Variant) Key() VariantKey {
	return VariantKey{Weight: v.Weight, Style: v.Style}
}

// VariantKey uniquely identifies a variant within a family.
type VariantKey struct {
	Weight int
	Style  Style
}

// String returns the key in the Google Webfonts API variant form:
// "regular", "italic", "700", "700italic".
func (k VariantKey) String() string {
	switch {
	case k.Weight == 400 && k.Style == StyleNormal:
		return "regular"
	case k.Weight == 400 && k.Style == StyleItalic:
		return "italic"
	case k.Style == StyleItalic:
		return fmt.Sprintf("%ditalic", k.Weight)
	default:
		return fmt.Sprintf("%d", k.Weight)
	}
}

// ParseVariantKey parses a variant string in the Google Webfonts API
// form into its (weight, style) identity:
//
//	"regular"   -> (400, normal)
//	"italic"    -> (400, italic)
//	"700"       -> (700, normal)
//	"700italic" -> (700, italic)
//
// Returns an error for strings that don't follow this shape, such as
// named weights the API doesn't emit.
func ParseVariantKey(s string) (VariantKey, error) {
	orig := s
	s = strings.TrimSpace(strings.ToLower(s))

	style := StyleNormal
	if strings.HasSuffix(s, "italic") {
		style = StyleItalic
		s = strings.TrimSuffix(s, "italic")
	}

	switch s {
	case "", "regular":
		return VariantKey{Weight: 400, Style: style}, nil
	}

	weight, err := strconv.Atoi(s)
	if err != nil || weight < 1 || weight > 1000 {
		return VariantKey{}, fmt.Errorf("unknown variant %q", orig)
	}

	return VariantKey{Weight: weight, Style: style}, nil
}

// SortVariants orders variants deterministically: weight ascending,
// normal before italic within the same weight. Stylesheet output and
// progress listings rely on this ordering being reproducible.
func SortVariants(variants []*Variant) {
	sort.Slice(variants, func(i, j int) bool {
		if variants[i].Weight != variants[j].Weight {
			return variants[i].Weight < variants[j].Weight
		}
		return variants[i].Style < variants[j].Style
	})
}
