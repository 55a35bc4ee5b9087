package vision

// Result types mirror the JSON schema the classification prompt demands from
// the model. Field tags are the contract; Go names are for the post-processor.

type LabelTextExtraction struct {
	VisibleText        []string `json:"visible_text"`
	CertificationMarks []string `json:"certification_marks"`
	RegulatoryMarks    []string `json:"regulatory_marks"`
	QualifierKeywords  []string `json:"qualifier_keywords"`
}

type Classification struct {
	HSCode             string   `json:"hs_code"`
	StatSuffix         string   `json:"stat_suffix"`
	ArticleDescription string   `json:"article_description"`
	ProductDescription string   `json:"product_description"`
	Reasoning          string   `json:"reasoning"`
	// Confidence is a percentage in [0,100] after post-processing. The model
	// is asked for a 0..1 score; classify.Normalize rescales and clamps.
	Confidence         float64  `json:"confidence_score"`
	KeyCharacteristics []string `json:"key_characteristics,omitempty"`
}

type VisualAnalysis struct {
	ProductType             string `json:"product_type"`
	Color                   string `json:"color"`
	ProcessingStateObserved string `json:"processing_state_observed"`
	Packaging               string `json:"packaging,omitempty"`
	DecorativeElements      string `json:"decorative_elements,omitempty"`
	LabelTextSummary        string `json:"label_text_summary,omitempty"`
	TwoStepValidation       string `json:"two_step_validation,omitempty"`
}

type ClassificationResult struct {
	LabelTextExtraction LabelTextExtraction `json:"label_text_extraction"`
	Classifications     []Classification    `json:"classifications"`
	VisualAnalysis      VisualAnalysis      `json:"visual_analysis"`
	NotInDocument       bool                `json:"not_in_document"`
	Reason              string              `json:"reason,omitempty"`

	// RawResponse carries the model's verbatim reply up to the HTTP layer;
	// it never round-trips back into the model-facing schema.
	RawResponse string `json:"-"`
}
