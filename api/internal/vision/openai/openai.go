package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hs-classifier/api/internal/util"
	"hs-classifier/api/internal/vision"
)

type Engine struct {
	APIKey string
	Model  string
	httpc  *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: key,
		Model:  model,
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string { return "openai" }

func (e *Engine) GetModel() string { return e.Model }

// WithModel returns a copy targeting a different model. The receiver is
// shared between chats and stays untouched.
func (e *Engine) WithModel(m string) vision.Engine {
	cp := *e
	cp.Model = m
	return &cp
}

func (e *Engine) Classify(ctx context.Context, img []byte, mime string) (vision.ClassificationResult, error) {
	if e.APIKey == "" {
		return vision.ClassificationResult{}, fmt.Errorf("OPENAI_API_KEY not set")
	}
	b64 := base64.StdEncoding.EncodeToString(img)
	dataURL := util.MakeDataURL(mime, b64)

	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": vision.ClassificationPrompt()},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL, "detail": "high"}},
				},
			},
		},
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
	}
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return vision.ClassificationResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		x, _ := io.ReadAll(resp.Body)
		return vision.ClassificationResult{}, fmt.Errorf("openai classify %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return vision.ClassificationResult{}, err
	}
	if len(raw.Choices) == 0 {
		return vision.ClassificationResult{}, fmt.Errorf("openai classify: empty response")
	}
	return vision.DecodeReply(raw.Choices[0].Message.Content)
}
