package store

import (
	"fmt"

	"github.com/starford/dagaz/internal/apperr"
)

// Provider identifies an AI provider whose API key can be stored in the
// settings row. The set is closed; anything else is rejected at the
// boundary before touching storage.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGroq   Provider = "groq"
	ProviderOllama Provider = "ollama"
)

// apiKeyColumns maps each provider to its dedicated settings column.
// Column names are taken from this table only, never from caller input,
// so interpolating them into SQL is safe.
var apiKeyColumns = map[Provider]string{
	ProviderOpenAI: "openaiApiKey",
	ProviderClaude: "anthropicApiKey",
	ProviderGroq:   "groqApiKey",
	ProviderOllama: "ollamaApiKey",
}

// ParseProvider validates a caller-supplied provider name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if _, ok := apiKeyColumns[p]; !ok {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidProvider, s)
	}
	return p, nil
}
