package model

// VariantResult records the pipeline outcome for one variant.
//
// A result either succeeded (Err == nil, Path set to the file the
// stylesheet should reference) or failed at some stage with Err holding
// the cause. One result is produced per variant; partial success across
// a family is a valid outcome.
type VariantResult struct {
	// Variant is the variant this result belongs to.
	Variant *Variant

	// Path is the local path of the file to reference from the
	// stylesheet: the WOFF2 output, or the TTF when conversion
	// is skipped. Empty on failure.
	Path string

	// TaskID identifies the conversion task, when one ran.
	TaskID string

	// Err is the per-variant failure, nil on success.
	Err error
}

// OK reports whether the variant made it through the pipeline.
func (r *VariantResult) OK() bool {
	return r.Err == nil
}

// SuccessfulResults filters results down to those that succeeded,
// ordered by weight then style for reproducible output.
func SuccessfulResults(results []*VariantResult) []*VariantResult {
	var ok []*VariantResult
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}

	variants := make([]*Variant, len(ok))
	for i, r := range ok {
		variants[i] = r.Variant
	}
	SortVariants(variants)

	byKey := make(map[VariantKey]*VariantResult, len(ok))
	for _, r := range ok {
		byKey[r.Variant.Key()] = r
	}

	sorted := make([]*VariantResult, len(ok))
	for i, v := range variants {
		sorted[i] = byKey[v.Key()]
	}
	return sorted
}

// FailedResults filters results down to those that failed.
func FailedResults(results []*VariantResult) []*VariantResult {
	var failed []*VariantResult
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
