// Package watsonx is the primary classification engine: IBM watsonx.ai chat
// with a vision model, authenticated through the IBM Cloud IAM token exchange.
package watsonx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"hs-classifier/api/internal/util"
	"hs-classifier/api/internal/vision"
)

const apiVersion = "2023-05-29"

// maxNoJSONRetries is how many extra chat calls we make when the model
// returns prose with no JSON object in it.
const maxNoJSONRetries = 2

type Engine struct {
	APIKey    string
	ProjectID string
	URL       string // service base, e.g. https://us-south.ml.cloud.ibm.com
	Model     string
	AuthURL   string

	httpc *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

func New(apiKey, projectID, serviceURL, model string) *Engine {
	return &Engine{
		APIKey:    apiKey,
		ProjectID: projectID,
		URL:       strings.TrimRight(serviceURL, "/"),
		Model:     model,
		AuthURL:   defaultAuthURL,
		httpc:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string { return "watsonx" }

func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Classify(ctx context.Context, img []byte, mime string) (vision.ClassificationResult, error) {
	if e.APIKey == "" {
		return vision.ClassificationResult{}, fmt.Errorf("WATSONX_API_KEY not set")
	}

	b64 := base64.StdEncoding.EncodeToString(img)
	dataURL := util.MakeDataURL(mime, b64)

	var res vision.ClassificationResult
	b := retry.NewFibonacci(1 * time.Second)
	err := retry.Do(ctx, retry.WithMaxRetries(maxNoJSONRetries, b), func(ctx context.Context) error {
		text, err := e.chat(ctx, dataURL)
		if err != nil {
			return err
		}
		res, err = vision.DecodeReply(text)
		if errors.Is(err, vision.ErrNoJSON) {
			// The model ignored the format instructions outright; another
			// attempt usually lands.
			return retry.RetryableError(err)
		}
		return err
	})
	return res, err
}

// chat issues one watsonx chat call and returns the generated text. A 401 is
// retried once after a forced token refresh.
func (e *Engine) chat(ctx context.Context, imageDataURL string) (string, error) {
	payload, err := json.Marshal(e.chatBody(imageDataURL))
	if err != nil {
		return "", err
	}

	token, err := e.ensureToken(ctx, false)
	if err != nil {
		return "", err
	}

	resp, err := e.post(ctx, token, payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if token, err = e.ensureToken(ctx, true); err != nil {
			return "", err
		}
		if resp, err = e.post(ctx, token, payload); err != nil {
			return "", err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("watsonx chat %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Results []struct {
			GeneratedText string `json:"generated_text"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	// Chat-shaped reply first, legacy generation shape as fallback.
	if len(out.Choices) > 0 {
		return out.Choices[0].Message.Content, nil
	}
	if len(out.Results) > 0 {
		return out.Results[0].GeneratedText, nil
	}
	return "", fmt.Errorf("watsonx chat: empty response")
}

func (e *Engine) chatBody(imageDataURL string) map[string]any {
	return map[string]any{
		"model_id": e.Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": vision.ClassificationPrompt()},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": imageDataURL}},
				},
			},
		},
		"parameters": map[string]any{
			"decoding_method": "greedy",
			"max_new_tokens":  3000,
			"temperature":     0.0,
			"min_new_tokens":  100,
		},
		"project_id": e.ProjectID,
	}
}

func (e *Engine) post(ctx context.Context, token string, payload []byte) (*http.Response, error) {
	url := e.URL + "/ml/v1/text/chat?version=" + apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return e.httpc.Do(req)
}
