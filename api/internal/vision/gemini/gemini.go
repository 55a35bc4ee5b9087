package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"hs-classifier/api/internal/vision"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string { return "gemini" }

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
		return vision.ClassificationResult{}, errors.New("GEMINI_API_KEY not set")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return vision.ClassificationResult{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	parts := []genai.Part{
		genai.Text(vision.ClassificationPrompt()),
		&genai.Blob{MIMEType: mime, Data: img},
	}

	// A few attempts against transient 5xx from the API.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return vision.ClassificationResult{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			continue
		}
		text, err := firstText(resp)
		if err != nil {
			return vision.ClassificationResult{}, err
		}
		return vision.DecodeReply(text)
	}
	return vision.ClassificationResult{}, fmt.Errorf("gemini classify: %w", lastErr)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini classify: empty response")
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			return string(t), nil
		}
	}
	return "", errors.New("gemini classify: no text part")
}

func ptrFloat32(v float32) *float32 { return &v }
