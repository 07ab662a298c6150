package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// Provider type tags. The tag selects the wire shape used by SendRequest.
const (
	TypeOpenAI     = "openai"
	TypeAnthropic  = "anthropic"
	TypeOpenRouter = "openrouter"
	TypeGroq       = "groq"
	TypeDeepSeek   = "deepseek"
	TypeCustom     = "custom"
)

const (
	AnthropicVersion = "2023-06-01"

	defaultTemperature = 0.7
	anthropicMaxTokens = 4096
)

// ErrInvalidResponse is returned when a 2xx response lacks the content field
// expected for the provider type.
var ErrInvalidResponse = errors.New("invalid response format from AI provider")

// APIError is a non-2xx answer from a provider endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("AI Provider Error (%d): %s", e.StatusCode, e.Body)
}

// Message is the wire shape of a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model is one entry of a provider's model catalog.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Provider describes a remote chat endpoint: where it lives, how to
// authenticate and which models it offers. It holds no connection state;
// every call is an independent HTTP request.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	APIKey       string  `json:"apiKey"`
	DefaultModel string  `json:"defaultModel"`
	Models       []Model `json:"models"`
	Enabled      bool    `json:"enabled"`

	client *http.Client
}

// ProviderConfig holds the fields accepted when a provider is built.
// A nil Enabled means enabled.
type ProviderConfig struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	APIKey       string  `json:"apiKey"`
	DefaultModel string  `json:"defaultModel"`
	Models       []Model `json:"models"`
	Enabled      *bool   `json:"enabled"`
}

var defaultClient = &http.Client{}

func NewProvider(cfg ProviderConfig) *Provider {
	p := &Provider{
		ID:           cfg.ID,
		Name:         cfg.Name,
		Type:         cfg.Type,
		URL:          cfg.URL,
		APIKey:       cfg.APIKey,
		DefaultModel: cfg.DefaultModel,
		Models:       slices.Clone(cfg.Models),
		Enabled:      cfg.Enabled == nil || *cfg.Enabled,
	}
	if p.Models == nil {
		p.Models = []Model{}
	}
	return p
}

// UnmarshalJSON treats a missing enabled flag as true.
func (p *Provider) UnmarshalJSON(data []byte) error {
	var cfg ProviderConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	client := p.client
	*p = *NewProvider(cfg)
	p.client = client
	return nil
}

// WithHTTPClient sets the client used for requests and returns p.
func (p *Provider) WithHTTPClient(c *http.Client) *Provider {
	p.client = c
	return p
}

func (p *Provider) httpClient() *http.Client {
	if p.client != nil {
		return p.client
	}
	return defaultClient
}

// Copy returns an independent copy sharing only the HTTP client.
func (p *Provider) Copy() *Provider {
	c := *p
	c.Models = slices.Clone(p.Models)
	return &c
}

func (p *Provider) HasModel(id string) bool {
	return slices.ContainsFunc(p.Models, func(m Model) bool { return m.ID == id })
}

// ModelName returns the catalog display name for id, or id itself when the
// model is not listed.
func (p *Provider) ModelName(id string) string {
	for _, m := range p.Models {
		if m.ID == id && m.Name != "" {
			return m.Name
		}
	}
	return id
}

// Headers returns the request headers for this provider. Auth headers are
// only sent when a key is configured.
func (p *Provider) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if p.APIKey == "" {
		return h
	}
	if p.Type == TypeAnthropic {
		h.Set("x-api-key", p.APIKey)
		h.Set("anthropic-version", AnthropicVersion)
	} else {
		h.Set("Authorization", "Bearer "+p.APIKey)
	}
	return h
}

// ChatURL is the endpoint SendRequest posts to. URLs that already name a
// chat endpoint are used as is.
func (p *Provider) ChatURL() string {
	if strings.Contains(p.URL, "/chat/completions") || strings.Contains(p.URL, "/messages") {
		return p.URL
	}
	return strings.TrimRight(p.URL, "/") + "/chat/completions"
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// SendRequest posts the conversation and returns the assistant's reply.
// An empty modelID selects the provider default. Streaming is never used.
func (p *Provider) SendRequest(ctx context.Context, messages []Message, modelID string) (string, error) {
	if modelID == "" {
		modelID = p.DefaultModel
	}
	payload := chatRequest{
		Model:       modelID,
		Messages:    messages,
		Temperature: defaultTemperature,
		Stream:      false,
	}
	if p.Type == TypeAnthropic {
		payload.MaxTokens = anthropicMaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.ChatURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header = p.Headers()

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}

	if p.Type == TypeAnthropic {
		if len(chatResp.Content) == 0 {
			return "", fmt.Errorf("%w: missing content[0].text", ErrInvalidResponse)
		}
		return chatResp.Content[0].Text, nil
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: missing choices[0].message.content", ErrInvalidResponse)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type probeRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// TestConnection checks that the endpoint answers. A URL ending in
// /chat/completions gets a one-token chat request; anything else is treated
// as a base URL and probed with GET <url>/models. It never returns an error;
// failures are reported in the result.
func (p *Provider) TestConnection(ctx context.Context) ConnectionResult {
	var (
		httpReq *http.Request
		err     error
	)
	if strings.HasSuffix(p.URL, "/chat/completions") {
		body, mErr := json.Marshal(probeRequest{
			Model:     p.DefaultModel,
			Messages:  []Message{{Role: "user", Content: "Hello"}},
			MaxTokens: 1,
		})
		if mErr != nil {
			return ConnectionResult{Message: mErr.Error()}
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.URL, "/")+"/models", nil)
	}
	if err != nil {
		return ConnectionResult{Message: err.Error()}
	}
	httpReq.Header = p.Headers()

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return ConnectionResult{Message: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ConnectionResult{Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ConnectionResult{Message: fmt.Sprintf("API request failed (%d): %s", resp.StatusCode, string(bodyBytes))}
	}

	var data any
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		data = string(bodyBytes)
	}
	return ConnectionResult{Success: true, Message: "Connection successful", Data: data}
}
