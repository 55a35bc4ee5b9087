package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"hs-classifier/api/internal/vision"
)

func TestFormatResult(t *testing.T) {
	res := vision.ClassificationResult{
		Classifications: []vision.Classification{{
			HSCode:             "0901.21.00",
			StatSuffix:         "49",
			ArticleDescription: "Coffee, roasted: Not decaffeinated: In retail containers weighing 2 kg or less: Other: Other",
			Reasoning:          "Dark roasted beans in retail packaging.",
			Confidence:         84,
		}},
	}
	out := formatResult(res)
	if !strings.Contains(out, "0901.21.00.49") {
		t.Errorf("full code missing: %q", out)
	}
	if !strings.Contains(out, "(84%)") {
		t.Errorf("confidence missing: %q", out)
	}
}

func TestFormatResultNotInDocument(t *testing.T) {
	res := vision.ClassificationResult{
		NotInDocument: true,
		Reason:        "the image shows a bicycle",
	}
	out := formatResult(res)
	if !strings.Contains(out, "bicycle") {
		t.Errorf("reason missing: %q", out)
	}
}

func TestFormatResultTruncatesOnRuneBoundary(t *testing.T) {
	res := vision.ClassificationResult{
		Classifications: []vision.Classification{{
			HSCode:             "0902.10.90",
			StatSuffix:         "50",
			ArticleDescription: "Tea",
			Reasoning:          strings.Repeat("зелёный чай ", 500),
			Confidence:         70,
		}},
	}
	out := formatResult(res)
	if len(out) > 4096 {
		t.Fatalf("message length %d exceeds Telegram limit", len(out))
	}
	if !utf8.ValidString(out) {
		t.Fatal("truncation split a multibyte rune")
	}
	if !strings.HasSuffix(out, "…") {
		t.Errorf("truncated message missing ellipsis: %q", out[len(out)-12:])
	}
}
