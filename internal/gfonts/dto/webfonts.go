package dto

import (
	"strings"

	"github.com/gfontapi/gfontapi/internal/model"
)

// WebfontList represents the top-level Google Webfonts API response.
type WebfontList struct {
	Kind  string        `json:"kind"`
	Items []WebfontItem `json:"items"`
}

// WebfontItem represents one font family entry from the API.
//
// Files maps variant strings ("regular", "italic", "700", "700italic")
// to downloadable TrueType file URLs.
type WebfontItem struct {
	Family       string            `json:"family"`
	Variants     []string          `json:"variants"`
	Subsets      []string          `json:"subsets"`
	Version      string            `json:"version"`
	LastModified string            `json:"lastModified"`
	Files        map[string]string `json:"files"`
	Category     string            `json:"category"`
}

// ToFontFamily converts a WebfontItem to a model.FontFamily.
//
// Variant strings that don't parse are returned in skipped rather than
// aborting the whole family; the caller decides how loudly to report
// them. Variants are returned in deterministic (weight, style) order.
func (wi *WebfontItem) ToFontFamily(cfg *model.PathConfig) (family *model.FontFamily, skipped []string) {
	family = model.NewFontFamily(wi.Family, wi.Category, wi.Subsets, cfg)

	for variant, fileURL := range wi.Files {
		key, err := model.ParseVariantKey(variant)
		if err != nil {
			skipped = append(skipped, variant)
			continue
		}

		// The API historically serves plain-http file URLs.
		if strings.HasPrefix(fileURL, "http://") {
			fileURL = "https://" + strings.TrimPrefix(fileURL, "http://")
		}

		if _, err := family.AddVariant(key.Weight, key.Style, fileURL); err != nil {
			// Two variant strings mapping to the same (weight, style)
			// pair; keep the first one.
			skipped = append(skipped, variant)
		}
	}

	model.SortVariants(family.Variants)
	return family, skipped
}
