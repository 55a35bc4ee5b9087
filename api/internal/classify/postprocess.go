// Package classify post-processes model output: the model does the seeing,
// this code enforces the rules the model is bad at following.
package classify

import (
	"strings"

	"hs-classifier/api/internal/hscodes"
	"hs-classifier/api/internal/vision"
)

// MaxCandidates bounds the classification list in every response.
const MaxCandidates = 3

// Category pairs for the visual-contradiction override. When the observed
// appearance contradicts the picked code's processing state, the candidate is
// moved to the counterpart category's default "Other" line.
var (
	processedCounterpart = map[string]string{
		"0901.11": "0901.21.00", // green coffee -> roasted, retail
		"0901.12": "0901.22.00", // green decaf -> roasted decaf
	}
	unprocessedCounterpart = map[string]string{
		"0901.21": "0901.11.00",
		"0901.22": "0901.12.00",
	}
)

// Normalize applies the deterministic fixes to a parsed model result:
// suffix extraction, visual-contradiction override, confidence scaling and
// clamping, candidate cap. The result is modified in place.
func Normalize(res *vision.ClassificationResult, table *hscodes.Table) {
	if len(res.Classifications) > MaxCandidates {
		res.Classifications = res.Classifications[:MaxCandidates]
	}

	for i := range res.Classifications {
		c := &res.Classifications[i]
		extractEmbeddedSuffix(c)
		overrideOnVisualMismatch(c, res.VisualAnalysis, table)
		c.Confidence = ClampPercent(c.Confidence)
	}
}

// extractEmbeddedSuffix fixes codes like "0901.21.00.49" where the model put
// the statistical suffix inside hs_code instead of stat_suffix.
func extractEmbeddedSuffix(c *vision.Classification) {
	base, suffix := hscodes.SplitSuffix(c.HSCode)
	if suffix == "" {
		return
	}
	c.HSCode = base
	// Keep an existing numeric stat_suffix; it is more deliberate than the
	// one the model smuggled into the code.
	if !isNumericSuffix(c.StatSuffix) {
		c.StatSuffix = suffix
	}
}

func isNumericSuffix(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// overrideOnVisualMismatch swaps a candidate into the counterpart category when
// the model's own visual analysis contradicts the code it picked: a dark,
// processed product classified under a "not roasted" line, or the reverse.
// Suffixes are category-specific, so the new category always gets its default
// "Other" suffix rather than a copied one.
func overrideOnVisualMismatch(c *vision.Classification, va vision.VisualAnalysis, table *hscodes.Table) {
	observation := va.Color + " " + va.ProcessingStateObserved

	looksProcessed := hscodes.LooksProcessed(observation)
	looksUnprocessed := hscodes.LooksUnprocessed(observation)

	var targetBase string
	switch {
	case looksProcessed && !looksUnprocessed && hscodes.DescribesUnprocessed(c.ArticleDescription):
		targetBase = counterpartFor(c.HSCode, processedCounterpart)
	case looksUnprocessed && !looksProcessed && hscodes.DescribesProcessed(c.ArticleDescription):
		targetBase = counterpartFor(c.HSCode, unprocessedCounterpart)
	}
	if targetBase == "" {
		return
	}
	entry, ok := table.DefaultOther(targetBase)
	if !ok {
		return
	}

	c.HSCode = entry.BaseCode
	c.StatSuffix = entry.StatSuffix
	c.ArticleDescription = entry.Description
	c.Reasoning = rewriteReasoning(va, entry)
	c.ProductDescription = alignProductDescription(c.ProductDescription, hscodes.DescribesProcessed(entry.Description))
}

func counterpartFor(code string, pairs map[string]string) string {
	for prefix, target := range pairs {
		if strings.HasPrefix(code, prefix) {
			return target
		}
	}
	return ""
}

func rewriteReasoning(va vision.VisualAnalysis, entry hscodes.Entry) string {
	state := "not roasted"
	appearance := "light, unprocessed"
	if hscodes.DescribesProcessed(entry.Description) {
		state = "roasted"
		appearance = "dark, processed"
	}
	return "The product exhibits a " + appearance + " appearance (" +
		strings.TrimSpace(va.Color+", "+va.ProcessingStateObserved) + "), indicating it is " + state +
		". The packaging does not display organic certification marks or specific variety text, " +
		"so the general Other suffix is applied within that category. (Model guidance corrected by system validation)"
}

// alignProductDescription swaps processing-state wording that contradicts the
// corrected category.
func alignProductDescription(desc string, processed bool) string {
	if desc == "" {
		return desc
	}
	if processed {
		return strings.NewReplacer(
			"unprocessed", "processed",
			"not roasted", "roasted",
			"raw", "roasted",
			"green", "dark brown roasted",
		).Replace(desc)
	}
	return strings.NewReplacer(
		"processed", "unprocessed",
		"roasted", "not roasted",
		"cooked", "raw",
		"dark brown", "light green",
	).Replace(desc)
}

// ClampPercent reports a confidence as a percentage in [0,100]. The prompt
// asks for a 0..1 score, so fractional values are rescaled first.
func ClampPercent(v float64) float64 {
	if v <= 1 && v >= 0 {
		v *= 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Fallback is the substitute result when no JSON could be recovered from the
// model's reply. The request still succeeds; the caller sees what came back.
func Fallback(raw string) vision.ClassificationResult {
	return vision.ClassificationResult{
		Classifications: []vision.Classification{{
			HSCode:             "",
			ArticleDescription: "Unclassified",
			ProductDescription: "Could not classify the product from the model response",
			Reasoning:          "The vision model returned a response that could not be parsed as a classification.",
			Confidence:         0,
		}},
		NotInDocument: true,
		Reason:        "model response was not parseable",
		RawResponse:   raw,
	}
}
