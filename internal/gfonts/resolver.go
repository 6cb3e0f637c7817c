package gfonts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gfontapi/gfontapi/internal/gfonts/dto"
	httpx "github.com/gfontapi/gfontapi/internal/http"
	"github.com/gfontapi/gfontapi/internal/model"
)

// DefaultBaseURL is the Google Webfonts metadata endpoint.
const DefaultBaseURL = "https://www.googleapis.com/webfonts/v1/webfonts"

// Resolver queries the Google Webfonts API and resolves a family name
// into the set of available variants with their source file URLs.
//
// Family-name matching is case-insensitive and tolerant of internal
// whitespace variation, so "open  sans" resolves "Open Sans". Resolver
// performs no retries; transient failures surface as *NetworkError and
// the caller decides whether to run again.
//
// Example usage:
//
//	resolver := gfonts.NewResolver(client, gfonts.DefaultBaseURL, apiKey, pathConfig)
//	res, err := resolver.Resolve(ctx, "Open Sans")
//	if err != nil {
//	    var notFound *gfonts.NotFoundError
//	    if errors.As(err, &notFound) {
//	        // unknown family
//	    }
//	}
//	for _, v := range res.Family.Variants {
//	    fmt.Println(v.Name(), v.URL)
//	}
type Resolver struct {
	client  *httpx.Client
	baseURL string
	apiKey  string
	pathCfg *model.PathConfig
}

// Resolution is the outcome of a successful Resolve call.
type Resolution struct {
	// Family is the resolved family with computed paths and variants
	// in deterministic order.
	Family *model.FontFamily

	// SkippedVariants lists API variant strings that could not be
	// mapped to a (weight, style) pair and were left out.
	SkippedVariants []string
}

// NewResolver creates a Resolver.
//
// baseURL is the metadata endpoint; pass DefaultBaseURL outside of tests.
// The pathCfg determines where resolved families will place their files.
func NewResolver(client *httpx.Client, baseURL, apiKey string, pathCfg *model.PathConfig) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		pathCfg: pathCfg,
	}
}

// Resolve looks up a font family by name.
//
// Returns:
//   - *AuthError when no API key is configured (checked before any
//     network call) or the API rejects the key
//   - *NotFoundError when the API has no family matching the name
//   - *NetworkError on transport failures and server errors
func (r *Resolver) Resolve(ctx context.Context, familyName string) (*Resolution, error) {
	if r.apiKey == "" {
		return nil, &AuthError{Reason: "no API key provided (use -api-key or set GFONT_API_KEY)"}
	}

	reqURL := fmt.Sprintf("%s?%s", r.baseURL, url.Values{
		"key":    {r.apiKey},
		"family": {familyName},
	}.Encode())

	body, err := r.client.Get(ctx, reqURL)
	if err != nil {
		return nil, classifyRequestError(reqURL, familyName, err)
	}

	var list dto.WebfontList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &NetworkError{URL: reqURL, Err: fmt.Errorf("unexpected API response: %w", err)}
	}

	item := matchFamily(list.Items, familyName)
	if item == nil {
		return nil, &NotFoundError{Family: familyName}
	}

	family, skipped := item.ToFontFamily(r.pathCfg)
	return &Resolution{Family: family, SkippedVariants: skipped}, nil
}

// classifyRequestError maps HTTP failures onto the resolver error
// taxonomy. The API answers 400 for malformed keys and 403 for revoked
// or unauthorized ones; both are credential problems from the user's
// point of view. A 404 means the family parameter matched nothing.
func classifyRequestError(reqURL, familyName string, err error) error {
	var statusErr *httpx.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Reason: "API rejected the key", StatusCode: statusErr.StatusCode}
		case http.StatusNotFound:
			return &NotFoundError{Family: familyName}
		}
	}
	return &NetworkError{URL: reqURL, Err: err}
}

// matchFamily finds the item whose family name matches the requested
// name after normalization (lowercase, internal whitespace collapsed).
func matchFamily(items []dto.WebfontItem, familyName string) *dto.WebfontItem {
	want := model.NormalizeFamilyName(familyName)
	for i := range items {
		if model.NormalizeFamilyName(items[i].Family) == want {
			return &items[i]
		}
	}
	return nil
}
