// Package providers holds the optional generative fallback used when
// rule-based classification cannot answer. Absence of a provider is
// normal, not an error: the dispatcher checks for nil before use.
package providers

import (
	"context"

	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/config"
	"github.com/pragyasingh00/chetna-chatbot-trackila/pkg/lang"
)

type Provider interface {
	Name() string
	// Generate answers the prompt in the detected language. An empty
	// string means the provider had nothing usable.
	Generate(ctx context.Context, prompt string, language lang.Language) (string, error)
}

// FromConfig builds the configured provider, preferring OpenAI when
// both keys are set. Returns nil when no provider is configured.
func FromConfig(cfg config.ProvidersConfig) Provider {
	if cfg.OpenAI.APIKey != "" {
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.APIBase, cfg.OpenAI.Model)
	}
	if cfg.Anthropic.APIKey != "" {
		return NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	}
	return nil
}

func systemPrompt(language lang.Language) string {
	target := "English"
	switch language {
	case lang.Hindi:
		target = "Hindi (Devanagari script)"
	case lang.Hinglish:
		target = "Hinglish (Hindi written in Latin script)"
	}
	return "You are Chetna, a polite female transport assistant. Answer concisely in " + target + ", no emojis."
}
