package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	app_errors "aiteam-manager/internal/errors"
	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/repository"
)

// ProviderService manages provider descriptors on top of the provider
// store: creation from templates, edits, connection tests and the active
// selection.
type ProviderService struct {
	store  repository.ProviderRepository
	client *http.Client
}

// ProviderPatch is a partial update. Nil fields are left untouched.
type ProviderPatch struct {
	Name         *string      `json:"name"`
	URL          *string      `json:"url"`
	APIKey       *string      `json:"apiKey"`
	DefaultModel *string      `json:"defaultModel"`
	Models       *[]llm.Model `json:"models"`
	Enabled      *bool        `json:"enabled"`
}

func NewProviderService(store repository.ProviderRepository) *ProviderService {
	return &ProviderService{store: store}
}

// WithHTTPClient sets the client used by Test.
func (s *ProviderService) WithHTTPClient(c *http.Client) *ProviderService {
	s.client = c
	return s
}

func (s *ProviderService) List(ctx context.Context) ([]*llm.Provider, error) {
	return s.store.GetAllProviders(ctx)
}

func (s *ProviderService) Enabled(ctx context.Context) ([]*llm.Provider, error) {
	return s.store.GetEnabledProviders(ctx)
}

// Get returns the provider with id or app_errors.ErrProviderNotFound.
func (s *ProviderService) Get(ctx context.Context, id string) (*llm.Provider, error) {
	p, err := s.store.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, app_errors.ErrProviderNotFound
	}
	return p, nil
}

// CreateFromTemplate stores a provider built from a well-known template.
func (s *ProviderService) CreateFromTemplate(ctx context.Context, providerType, apiKey string) (*llm.Provider, error) {
	return s.add(ctx, llm.CreateFromTemplate(providerType, apiKey))
}

// CreateCustom stores a provider described entirely by the caller. A name
// and an endpoint are required.
func (s *ProviderService) CreateCustom(ctx context.Context, cfg llm.ProviderConfig) (*llm.Provider, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: provider name is required", app_errors.ErrValidation)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("%w: provider url is required", app_errors.ErrValidation)
	}
	return s.add(ctx, llm.CreateCustom(cfg))
}

// add saves p and makes it active when no provider is active yet.
func (s *ProviderService) add(ctx context.Context, p *llm.Provider) (*llm.Provider, error) {
	if err := s.store.SaveProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("could not save provider: %w", err)
	}
	active, err := s.store.GetActiveProvider(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		if err := s.store.SaveActiveProvider(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("could not activate provider: %w", err)
		}
	}
	slog.Info("Provider added", "provider_id", p.ID, "type", p.Type)
	return p, nil
}

func (s *ProviderService) Update(ctx context.Context, id string, patch ProviderPatch) (*llm.Provider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.URL != nil {
		p.URL = *patch.URL
	}
	if patch.APIKey != nil {
		p.APIKey = *patch.APIKey
	}
	if patch.DefaultModel != nil {
		p.DefaultModel = *patch.DefaultModel
	}
	if patch.Models != nil {
		p.Models = append([]llm.Model{}, (*patch.Models)...)
	}
	if patch.Enabled != nil {
		p.Enabled = *patch.Enabled
	}
	if err := s.store.SaveProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("could not save provider: %w", err)
	}
	return p, nil
}

// Delete removes a provider. Chats and the active selection may keep
// pointing at it; sends through it then fail with "Provider not found".
func (s *ProviderService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteProvider(ctx, id)
}

// Test probes the provider's endpoint. Connection failures are reported in
// the result, not as an error.
func (s *ProviderService) Test(ctx context.Context, id string) (llm.ConnectionResult, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return llm.ConnectionResult{}, err
	}
	if s.client != nil {
		p.WithHTTPClient(s.client)
	}
	result := p.TestConnection(ctx)
	slog.Info("Provider connection tested", "provider_id", id, "success", result.Success)
	return result, nil
}

// SetActive selects the provider new chats default to. "" clears it.
func (s *ProviderService) SetActive(ctx context.Context, id string) error {
	if id != "" {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return s.store.SaveActiveProvider(ctx, id)
}

func (s *ProviderService) ActiveID(ctx context.Context) (string, error) {
	return s.store.GetActiveProviderID(ctx)
}

// Active returns the active provider, or nil when none is set or it was
// deleted.
func (s *ProviderService) Active(ctx context.Context) (*llm.Provider, error) {
	return s.store.GetActiveProvider(ctx)
}

func (s *ProviderService) SetDefaultModel(ctx context.Context, id, modelID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.SaveProviderDefaultModel(ctx, id, modelID)
}

func (s *ProviderService) Models(ctx context.Context, id string) ([]llm.Model, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Models, nil
}

// Templates returns a keyless descriptor for every well-known type.
func (s *ProviderService) Templates() []*llm.Provider {
	types := llm.TemplateTypes()
	out := make([]*llm.Provider, 0, len(types))
	for _, t := range types {
		out = append(out, llm.GetTemplate(t))
	}
	return out
}
