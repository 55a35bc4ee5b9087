package vision

import (
	"encoding/json"
	"errors"
	"fmt"

	"hs-classifier/api/internal/extract"
)

// ErrBadReply marks replies the extraction pipeline could not turn into a
// classification. Handlers substitute the fallback result instead of failing
// the request.
var ErrBadReply = errors.New("model reply not parseable")

// ErrNoJSON re-exported for engines' retry checks.
var ErrNoJSON = extract.ErrNoJSON

// DecodeReply turns model free text into a ClassificationResult. The raw text
// is always carried on the result, error or not.
func DecodeReply(text string) (ClassificationResult, error) {
	res := ClassificationResult{RawResponse: text}

	data, err := extract.Object(text)
	if err != nil {
		if errors.Is(err, extract.ErrNoJSON) {
			return res, err // retryable by the engine
		}
		return res, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	res.RawResponse = text
	return res, nil
}
