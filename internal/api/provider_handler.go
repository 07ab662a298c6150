package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aiteam-manager/internal/interfaces"
	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/service"
	"aiteam-manager/internal/syncbus"
)

// ProviderHandler handles HTTP requests for provider administration.
type ProviderHandler struct {
	providers interfaces.ProviderService
	bus       interfaces.Broadcaster
}

func NewProviderHandler(providers interfaces.ProviderService, bus interfaces.Broadcaster) *ProviderHandler {
	return &ProviderHandler{providers: providers, bus: bus}
}

// ProviderResponse is a provider as the API shows it. The key itself never
// leaves the process; HasKey tells the client whether one is set.
type ProviderResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	URL          string      `json:"url"`
	HasKey       bool        `json:"hasKey"`
	DefaultModel string      `json:"defaultModel"`
	Models       []llm.Model `json:"models"`
	Enabled      bool        `json:"enabled"`
}

func toProviderResponse(p *llm.Provider) ProviderResponse {
	return ProviderResponse{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		URL:          p.URL,
		HasKey:       p.APIKey != "",
		DefaultModel: p.DefaultModel,
		Models:       p.Models,
		Enabled:      p.Enabled,
	}
}

func toProviderResponses(ps []*llm.Provider) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProviderResponse(p))
	}
	return out
}

type CreateFromTemplateRequest struct {
	Type   string `json:"type" validate:"required"`
	APIKey string `json:"apiKey"`
}

// CreateProviderRequest is the body for a custom provider.
type CreateProviderRequest struct {
	Name         string      `json:"name" validate:"required"`
	Type         string      `json:"type"`
	URL          string      `json:"url" validate:"required,url"`
	APIKey       string      `json:"apiKey"`
	DefaultModel string      `json:"defaultModel"`
	Models       []llm.Model `json:"models"`
	Enabled      *bool       `json:"enabled"`
}

type SetActiveRequest struct {
	ProviderID string `json:"providerId"`
}

type SetDefaultModelRequest struct {
	ModelID string `json:"modelId" validate:"required"`
}

type ActiveProviderResponse struct {
	ProviderID string `json:"providerId"`
}

func (h *ProviderHandler) announce(r *http.Request, id string, deleted bool) {
	h.bus.Broadcast(context.WithoutCancel(r.Context()), syncbus.ProviderUpdated, syncbus.ProviderData(id, deleted))
}

func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providers.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toProviderResponses(providers))
}

// ListTemplates returns the keyless catalog of well-known provider types.
func (h *ProviderHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, toProviderResponses(h.providers.Templates()))
}

func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	p, err := h.providers.Get(r.Context(), chi.URLParam(r, "providerID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toProviderResponse(p))
}

func (h *ProviderHandler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateFromTemplateRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	p, err := h.providers.CreateFromTemplate(r.Context(), req.Type, req.APIKey)
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, p.ID, false)
	respondWithJSON(w, http.StatusCreated, toProviderResponse(p))
}

func (h *ProviderHandler) CreateCustom(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	p, err := h.providers.CreateCustom(r.Context(), llm.ProviderConfig{
		Name:         req.Name,
		Type:         req.Type,
		URL:          req.URL,
		APIKey:       req.APIKey,
		DefaultModel: req.DefaultModel,
		Models:       req.Models,
		Enabled:      req.Enabled,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, p.ID, false)
	respondWithJSON(w, http.StatusCreated, toProviderResponse(p))
}

// UpdateProvider handles PATCH /providers/{providerID}. Absent fields are
// left as they are.
func (h *ProviderHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	var patch service.ProviderPatch
	if err := bind(r, &patch); err != nil {
		respondWithError(w, err)
		return
	}
	p, err := h.providers.Update(r.Context(), chi.URLParam(r, "providerID"), patch)
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, p.ID, false)
	respondWithJSON(w, http.StatusOK, toProviderResponse(p))
}

func (h *ProviderHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "providerID")
	if err := h.providers.Delete(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, id, true)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// TestProvider probes the endpoint. A failed probe is still a 200; the
// result says whether it worked.
func (h *ProviderHandler) TestProvider(w http.ResponseWriter, r *http.Request) {
	result, err := h.providers.Test(r.Context(), chi.URLParam(r, "providerID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *ProviderHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.providers.Models(r.Context(), chi.URLParam(r, "providerID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models)
}

func (h *ProviderHandler) SetDefaultModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "providerID")
	var req SetDefaultModelRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.providers.SetDefaultModel(r.Context(), id, req.ModelID); err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, id, false)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *ProviderHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	id, err := h.providers.ActiveID(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ActiveProviderResponse{ProviderID: id})
}

// SetActive handles PUT /providers/active. An empty providerId clears the
// selection.
func (h *ProviderHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.providers.SetActive(r.Context(), req.ProviderID); err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, req.ProviderID, false)
	respondWithJSON(w, http.StatusOK, ActiveProviderResponse{ProviderID: req.ProviderID})
}
