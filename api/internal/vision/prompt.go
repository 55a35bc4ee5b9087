package vision

import (
	"strings"
	"sync"

	"hs-classifier/api/internal/hscodes"
)

// ClassificationPrompt is the instruction text sent with every product image.
// It embeds the HTS reference document and demands a bare JSON object; the
// extract package cleans up whatever the model returns anyway.
func ClassificationPrompt() string {
	promptOnce.Do(func() {
		classificationPrompt = strings.Replace(promptTemplate, "{{HS_CODE_DOCUMENT}}", hscodes.Default().Document(), 1)
	})
	return classificationPrompt
}

var (
	promptOnce           sync.Once
	classificationPrompt string
)

const promptTemplate = `OUTPUT FORMAT: You MUST respond with ONLY a JSON object. Start your response immediately with { and end with }.

FORBIDDEN: Do NOT write "Answer:", "**Answer:**", "Here is", "JSON:", markdown code blocks (` + "```" + `), or ANY text outside the JSON object.

You are an expert customs classifier with deep knowledge of the Harmonized System (HS) codes and product identification.

**TASK: Analyze this product image and determine ALL POSSIBLE HS codes from the document below, ranked by confidence.**

HS CODE REFERENCE DOCUMENT:
{{HS_CODE_DOCUMENT}}

**CLASSIFICATION PROCESS - TWO SEPARATE STEPS:**

STEP A: VISUAL APPEARANCE -> MAIN CODE CATEGORY (FIRST 4-6 DIGITS)
Look at COLOR and PHYSICAL STATE only:
- Brown/black/dried/cooked -> pick codes starting with "roasted"/"processed"/"fermented"
- Light/green/pale/fresh/raw -> pick codes starting with "not roasted"/"raw"/"unprocessed"

STEP B: LABEL TEXT -> SUFFIX (LAST 2 DIGITS)
Look at text/marks on packaging:
- Found "ORGANIC" text or seal -> use "Certified organic" suffix
- Found specific variety text -> use that variety's suffix
- No special text found -> use "Other" suffix

DO NOT CONFUSE THESE STEPS. Dark color = processed code regardless of label;
missing label text = "Other" suffix regardless of color.

PHASE 1: LABEL TEXT EXTRACTION (complete FIRST, mandatory)
- "visible_text": every word/phrase you can actually read on the packaging
- "certification_marks": ONLY official certification seals/logos you can see; decorative imagery is NOT a certification mark; none visible -> []
- "regulatory_marks": certification numbers, approval codes, regulatory stamps; none -> []
- "qualifier_keywords": ONLY explicit qualifier words READ on the label (ORGANIC, DECAF, variety names). Do NOT infer from colors or imagery; none -> []

PHASE 2: HS CODE SELECTION (use ONLY Phase 1 results)
- Filter codes by what you SEE: processing state, physical form, color, packaging.
- To use "Certified organic" codes: REQUIRE organic text or seal from Phase 1; otherwise MUST use "Other" suffix.
- To use variety codes (Arabica, Robusta, ...): REQUIRE the variety word in qualifier_keywords.
- To use "Decaffeinated" codes: REQUIRE DECAF/DECAFFEINATED in qualifier_keywords; otherwise "Not decaffeinated".
- To use "Flavored" codes: REQUIRE FLAVORED or a flavor name in qualifier_keywords.
- Before finalizing, re-read the selected code's FULL description: beginning must match what you SEE, end must match what the LABEL says. If any part mismatches, pick a different code.
- Ranking: general code with strong evidence beats specific code without Phase 1 confirmation.

CONFIDENCE SCORING (be harsh and conservative):
- 0.9-1.0 absolutely certain; 0.7-0.9 very confident; 0.5-0.7 moderate; 0.3-0.5 low; below 0.3 guessing.
- A specific (qualifier) code WITHOUT visible evidence of that qualifier caps confidence at 0.4.
- Attributes assumed rather than seen reduce confidence by at least 0.3.

**OUTPUT SCHEMA:**

{
  "label_text_extraction": {
    "visible_text": [],
    "certification_marks": [],
    "regulatory_marks": [],
    "qualifier_keywords": []
  },
  "classifications": [
    {
      "hs_code": "specific HS code (e.g., 0901.21.00)",
      "stat_suffix": "statistical suffix if applicable",
      "article_description": "exact description from HS document",
      "product_description": "what you see in this specific image",
      "reasoning": "natural, professional English for customs officers; no JSON field names, no technical notation",
      "confidence_score": 0.0,
      "key_characteristics": ["observed characteristics supporting this classification"]
    }
  ],
  "visual_analysis": {
    "product_type": "primary product category",
    "color": "exact color/shade observed",
    "processing_state_observed": "based ONLY on appearance; this determines the MAIN code, not the suffix",
    "packaging": "packaging description if visible",
    "decorative_elements": "decorative imagery, separate from certifications",
    "label_text_summary": "what was found/not found on the label",
    "two_step_validation": "state both step A and step B validations"
  },
  "not_in_document": false
}

If the product is not covered by the document: "classifications": [], "not_in_document": true, and a "reason" field explaining what the product is.

Return 1 to 3 classifications ranked by confidence. Begin your response with { now:
{`
