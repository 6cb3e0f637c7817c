// Package gfonts resolves font families against the Google Webfonts
// metadata API.
//
// The Resolver turns a family name and an API key into a
// model.FontFamily with one Variant per (weight, style) pair the API
// knows about:
//
//	resolver := gfonts.NewResolver(client, gfonts.DefaultBaseURL, apiKey, pathConfig)
//	res, err := resolver.Resolve(ctx, "Open Sans")
//
// # Error taxonomy
//
// Resolve fails with exactly one of three typed errors, checked with
// errors.As:
//
//   - *AuthError: missing key (no network call is made) or key rejected
//   - *NotFoundError: the API has no family with that name
//   - *NetworkError: transport failure or server error; transient
//
// # Variant strings
//
// The API names variants "regular", "italic", "700", "700italic" and so
// on. Parsing lives in model.ParseVariantKey; strings that don't parse
// are skipped and reported in Resolution.SkippedVariants rather than
// failing the resolve.
package gfonts
