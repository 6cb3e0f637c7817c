// Package model defines the core data structures used throughout gfontapi.
//
// # FontFamily
//
// FontFamily represents a resolved Google Fonts family with computed paths:
//
//	family := model.NewFontFamily("Open Sans", "sans-serif", nil, pathConfig)
//	fmt.Println(family.Dir)            // Where font files are saved
//	fmt.Println(family.StylesheetPath) // Where fonts.css is written
//
// # Variant
//
// Variant represents a single (weight, style) rendering of a family:
//
//	variant, err := family.AddVariant(700, model.StyleItalic, srcURL)
//	fmt.Println(variant.Name())  // "bold-italic"
//	fmt.Println(variant.TTFPath) // Full path where the TTF will be saved
//
// Families never contain two variants with the same (weight, style) pair;
// AddVariant rejects duplicates.
//
// # Path Configuration
//
// PathConfig controls where family files land:
//
//	cfg := &model.PathConfig{
//	    TargetDir:          "./fonts",
//	    StylesheetFileName: "fonts.css",
//	}
//
// Each family gets its own subdirectory named by its slug, so multiple
// families under the same target directory never collide.
package model
