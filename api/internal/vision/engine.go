package vision

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Engine is one hosted vision-language provider.
type Engine interface {
	Name() string
	GetModel() string
	Classify(ctx context.Context, img []byte, mime string) (ClassificationResult, error)
}

// Engines holds the configured providers. Nil entries are unconfigured.
type Engines struct {
	Watsonx Engine
	OpenAI  Engine
	Gemini  Engine

	Default string
}

// GetEngine resolves a provider by name; empty name picks the default.
func (e *Engines) GetEngine(name string) (Engine, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = strings.ToLower(strings.TrimSpace(e.Default))
	}
	var eng Engine
	switch n {
	case "", "watsonx":
		eng = e.Watsonx
	case "openai", "gpt":
		eng = e.OpenAI
	case "gemini":
		eng = e.Gemini
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	if eng == nil {
		return nil, fmt.Errorf("engine %q is not configured", n)
	}
	return eng, nil
}

// Manager keeps a per-chat engine choice for the bot.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
