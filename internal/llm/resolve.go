package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thep200/gitgrade/cfg"
)

// ResolveProvider builds the provider named by config.Llm.Provider. A "provider:model"
// value in Llm.Model overrides both the provider and the model.
func ResolveProvider(config *cfg.Config) (Provider, error) {
	name := strings.ToLower(config.Llm.Provider)
	model := config.Llm.Model
	if prefix, rest, ok := strings.Cut(model, ":"); ok {
		switch strings.ToLower(prefix) {
		case "openai", "anthropic", "gemini":
			name, model = strings.ToLower(prefix), rest
		}
	}

	timeout := time.Duration(config.Llm.TimeoutSec) * time.Second
	client := &http.Client{Timeout: timeout}

	var (
		p   Provider
		err error
	)
	switch name {
	case "gemini", "google":
		p, err = NewGemini(config.Llm.ApiKey, client)
	case "openai":
		p, err = NewOpenAI(config.Llm.ApiKey, client)
	case "anthropic", "claude":
		p, err = NewAnthropic(config.Llm.ApiKey, client)
	case "mock":
		p = &MockProvider{Err: fmt.Errorf("mock provider has no canned response")}
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Llm.Provider)
	}
	if err != nil {
		return nil, err
	}
	if model == config.Llm.Model && name == strings.ToLower(config.Llm.Provider) {
		return p, nil
	}
	return &modelOverride{Provider: p, model: model}, nil
}

// modelOverride wraps a provider to override the model in settings.
type modelOverride struct {
	Provider
	model string
}

func (m *modelOverride) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	s.Model = m.model
	return m.Provider.Generate(ctx, prompt, s)
}
