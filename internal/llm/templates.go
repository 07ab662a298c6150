package llm

import (
	"slices"

	"github.com/google/uuid"
)

type template struct {
	name         string
	url          string
	defaultModel string
	models       []Model
}

// templates is the catalog of well-known providers.
var templates = map[string]template{
	TypeOpenAI: {
		name:         "OpenAI",
		url:          "https://api.openai.com/v1",
		defaultModel: "gpt-4o-mini",
		models: []Model{
			{ID: "gpt-4o", Name: "GPT-4o", Description: "Flagship multimodal model"},
			{ID: "gpt-4o-mini", Name: "GPT-4o mini", Description: "Fast, affordable small model"},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
		},
	},
	TypeOpenRouter: {
		name:         "OpenRouter",
		url:          "https://openrouter.ai/api/v1",
		defaultModel: "openai/gpt-4o-mini",
		models: []Model{
			{ID: "openai/gpt-4o-mini", Name: "GPT-4o mini"},
			{ID: "openai/gpt-4o", Name: "GPT-4o"},
			{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet"},
			{ID: "meta-llama/llama-3.1-70b-instruct", Name: "Llama 3.1 70B Instruct"},
			{ID: "google/gemini-pro-1.5", Name: "Gemini Pro 1.5"},
		},
	},
	TypeGroq: {
		name:         "Groq",
		url:          "https://api.groq.com/openai/v1",
		defaultModel: "llama-3.1-70b-versatile",
		models: []Model{
			{ID: "llama-3.1-70b-versatile", Name: "Llama 3.1 70B"},
			{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B"},
			{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B"},
			{ID: "gemma2-9b-it", Name: "Gemma 2 9B"},
		},
	},
	TypeDeepSeek: {
		name:         "DeepSeek",
		url:          "https://api.deepseek.com/v1",
		defaultModel: "deepseek-chat",
		models: []Model{
			{ID: "deepseek-chat", Name: "DeepSeek Chat"},
			{ID: "deepseek-coder", Name: "DeepSeek Coder"},
		},
	},
	TypeAnthropic: {
		name:         "Anthropic",
		url:          "https://api.anthropic.com/v1/messages",
		defaultModel: "claude-3-5-sonnet-20241022",
		models: []Model{
			{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet"},
			{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku"},
			{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
		},
	},
}

// CreateFromTemplate returns a new provider for a well-known type with the
// given key. Unknown types yield an empty custom provider carrying the key.
func CreateFromTemplate(providerType, apiKey string) *Provider {
	t, ok := templates[providerType]
	if !ok {
		return NewProvider(ProviderConfig{ID: uuid.NewString(), Type: TypeCustom, APIKey: apiKey})
	}
	return NewProvider(ProviderConfig{
		ID:           uuid.NewString(),
		Name:         t.name,
		Type:         providerType,
		URL:          t.url,
		APIKey:       apiKey,
		DefaultModel: t.defaultModel,
		Models:       t.models,
	})
}

// GetTemplate returns the keyless template for providerType.
func GetTemplate(providerType string) *Provider {
	return CreateFromTemplate(providerType, "")
}

// CreateCustom builds a provider directly from cfg.
func CreateCustom(cfg ProviderConfig) *Provider {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Type == "" {
		cfg.Type = TypeCustom
	}
	return NewProvider(cfg)
}

// TemplateTypes lists the catalog's type tags in a stable order.
func TemplateTypes() []string {
	types := make([]string, 0, len(templates))
	for t := range templates {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
