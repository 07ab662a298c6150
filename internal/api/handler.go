package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	app_errors "aiteam-manager/internal/errors"
	"aiteam-manager/internal/interfaces"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/service"
	"aiteam-manager/internal/syncbus"
)

// ChatHandler exposes the chat manager. Every successful write is announced
// to the other instances through the broadcaster.
type ChatHandler struct {
	chats interfaces.ChatManager
	bus   interfaces.Broadcaster
}

func NewChatHandler(chats interfaces.ChatManager, bus interfaces.Broadcaster) *ChatHandler {
	return &ChatHandler{chats: chats, bus: bus}
}

// CreateChatRequest is the body of POST /chats.
type CreateChatRequest struct {
	Title      string         `json:"title" validate:"max=100"`
	ProjectID  *string        `json:"projectId"`
	NoProject  bool           `json:"noProject"`
	ProviderID string         `json:"providerId"`
	ModelID    string         `json:"modelId"`
	Metadata   map[string]any `json:"metadata"`
}

type SelectChatRequest struct {
	ChatID string `json:"chatId"`
}

type DeleteChatsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type UpdateProviderRequest struct {
	ProviderID string `json:"providerId"`
	ModelID    string `json:"modelId"`
}

type MoveChatRequest struct {
	ProjectID *string `json:"projectId"`
}

type SelectProjectRequest struct {
	ProjectID string `json:"projectId"`
}

// AddMessageRequest is the body of POST /chats/{chatID}/messages.
type AddMessageRequest struct {
	Role         string         `json:"role" validate:"required,oneof=user assistant system"`
	Content      string         `json:"content" validate:"required"`
	ProviderID   string         `json:"providerId"`
	ProviderName string         `json:"providerName"`
	ModelID      string         `json:"modelId"`
	ModelName    string         `json:"modelName"`
	AgentID      string         `json:"agentId"`
	Metadata     map[string]any `json:"metadata"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendRequest is the body of POST /send. It targets the current chat.
type SendRequest struct {
	Content    string `json:"content" validate:"required"`
	ProviderID string `json:"providerId"`
	ModelID    string `json:"modelId"`
}

// CurrentChatResponse carries the selection; Chat is null when nothing is
// selected.
type CurrentChatResponse struct {
	Chat *model.Chat `json:"chat"`
}

type ProjectResponse struct {
	ProjectID string `json:"projectId"`
}

// announce broadcasts after the request has been answered, so it must not
// depend on the request context staying alive.
func (h *ChatHandler) announce(r *http.Request, typ syncbus.EventType, chatID string) {
	h.bus.Broadcast(context.WithoutCancel(r.Context()), typ, syncbus.ChatData(chatID))
}

// ListChats handles GET /chats. Query parameters: q (substring search),
// filter (pinned, archived, active, unassigned) and project.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var chats []*model.Chat
	switch {
	case q.Get("q") != "":
		chats = h.chats.SearchChats(q.Get("q"))
	case q.Has("project"):
		project := q.Get("project")
		chats = h.chats.GetChatsByProject(&project)
	default:
		switch q.Get("filter") {
		case "":
			chats = h.chats.GetChats()
		case "pinned":
			chats = h.chats.GetPinnedChats()
		case "archived":
			chats = h.chats.GetArchivedChats()
		case "active":
			chats = h.chats.GetActiveChats()
		case "unassigned":
			chats = h.chats.GetUnassignedChats()
		default:
			respondWithError(w, fmt.Errorf("%w: unknown filter %q", app_errors.ErrValidation, q.Get("filter")))
			return
		}
	}
	respondWithJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat := h.chats.GetChat(chi.URLParam(r, "chatID"))
	if chat == nil {
		respondWithError(w, app_errors.ErrChatNotFound)
		return
	}
	respondWithJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	chat, err := h.chats.CreateChat(r.Context(), service.CreateChatConfig{
		Title:             req.Title,
		ProjectID:         req.ProjectID,
		NoProject:         req.NoProject,
		DefaultProviderID: req.ProviderID,
		DefaultModelID:    req.ModelID,
		Metadata:          req.Metadata,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, syncbus.ChatCreated, chat.ID)
	respondWithJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) CloneChat(w http.ResponseWriter, r *http.Request) {
	clone, err := h.chats.CloneChat(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	if clone == nil {
		respondWithError(w, app_errors.ErrChatNotFound)
		return
	}
	h.announce(r, syncbus.ChatCreated, clone.ID)
	respondWithJSON(w, http.StatusCreated, clone)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if err := h.chats.DeleteChat(r.Context(), chatID); err != nil {
		respondWithError(w, err)
		return
	}
	h.announce(r, syncbus.ChatDeleted, chatID)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// DeleteChats handles POST /chats/delete with a list of ids.
func (h *ChatHandler) DeleteChats(w http.ResponseWriter, r *http.Request) {
	var req DeleteChatsRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.chats.DeleteChats(r.Context(), req.IDs); err != nil {
		respondWithError(w, err)
		return
	}
	for _, id := range req.IDs {
		h.announce(r, syncbus.ChatDeleted, id)
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// ClearAllChats handles DELETE /chats. Peers get one deletion per chat so
// that whichever of them shows one of these chats falls back to the welcome
// view.
func (h *ChatHandler) ClearAllChats(w http.ResponseWriter, r *http.Request) {
	existing := h.chats.GetChats()
	if err := h.chats.ClearAllChats(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	for _, c := range existing {
		h.announce(r, syncbus.ChatDeleted, c.ID)
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *ChatHandler) GetCurrentChat(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, CurrentChatResponse{Chat: h.chats.GetCurrentChat()})
}

// SelectChat handles PUT /chats/current. An empty chatId clears the
// selection.
func (h *ChatHandler) SelectChat(w http.ResponseWriter, r *http.Request) {
	var req SelectChatRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if req.ChatID == "" {
		if err := h.chats.ClearCurrentChat(r.Context()); err != nil {
			respondWithError(w, err)
			return
		}
		h.bus.Broadcast(context.WithoutCancel(r.Context()), syncbus.SettingsChanged, nil)
		respondWithJSON(w, http.StatusOK, CurrentChatResponse{})
		return
	}
	chat, err := h.chats.LoadChat(r.Context(), req.ChatID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.bus.Broadcast(context.WithoutCancel(r.Context()), syncbus.SettingsChanged, nil)
	respondWithJSON(w, http.StatusOK, CurrentChatResponse{Chat: chat})
}

// toggle wraps the single-id chat writes that answer with the updated chat.
func (h *ChatHandler) toggle(op func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		if err := op(r.Context(), chatID); err != nil {
			respondWithError(w, err)
			return
		}
		h.respondUpdated(w, r, chatID)
	}
}

func (h *ChatHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.chats.TogglePin)(w, r)
}

func (h *ChatHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.chats.ToggleArchive)(w, r)
}

func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	h.toggle(h.chats.ClearChatMessages)(w, r)
}

// respondUpdated answers with the chat after a write. A chat that is not in
// the cache was never changed, so nothing is broadcast.
func (h *ChatHandler) respondUpdated(w http.ResponseWriter, r *http.Request, chatID string) {
	chat := h.chats.GetChat(chatID)
	if chat == nil {
		respondWithError(w, app_errors.ErrChatNotFound)
		return
	}
	h.announce(r, syncbus.ChatUpdated, chatID)
	respondWithJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	var req UpdateTitleRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.chats.UpdateChatTitle(r.Context(), chatID, strings.TrimSpace(req.Title)); err != nil {
		respondWithError(w, err)
		return
	}
	h.respondUpdated(w, r, chatID)
}

func (h *ChatHandler) UpdateChatProvider(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	var req UpdateProviderRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.chats.UpdateChatProvider(r.Context(), chatID, req.ProviderID, req.ModelID); err != nil {
		respondWithError(w, err)
		return
	}
	h.respondUpdated(w, r, chatID)
}

// MoveChat handles PUT /chats/{chatID}/project. A null projectId makes the
// chat unassigned.
func (h *ChatHandler) MoveChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	var req MoveChatRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.chats.MoveChatToProject(r.Context(), chatID, req.ProjectID); err != nil {
		respondWithError(w, err)
		return
	}
	h.respondUpdated(w, r, chatID)
}

func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	var req AddMessageRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	msg, err := h.chats.AddMessage(r.Context(), chatID, model.MessageConfig{
		Role:         req.Role,
		Content:      req.Content,
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		ModelID:      req.ModelID,
		ModelName:    req.ModelName,
		AgentID:      req.AgentID,
		Metadata:     req.Metadata,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	if msg == nil {
		respondWithError(w, app_errors.ErrChatNotFound)
		return
	}
	h.announce(r, syncbus.MessageAdded, chatID)
	respondWithJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	var req EditMessageRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	msg, err := h.chats.EditMessage(r.Context(), chatID, chi.URLParam(r, "messageID"), req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if msg == nil {
		respondWithError(w, fmt.Errorf("%w: message not found", app_errors.ErrNotFound))
		return
	}
	h.announce(r, syncbus.ChatUpdated, chatID)
	respondWithJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	deleted, err := h.chats.DeleteMessage(r.Context(), chatID, chi.URLParam(r, "messageID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, fmt.Errorf("%w: message not found", app_errors.ErrNotFound))
		return
	}
	h.announce(r, syncbus.ChatUpdated, chatID)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Send handles POST /send: the text is stored as a user message on the
// current chat, sent to the resolved provider, and the reply is stored.
// When the provider call fails the user message stays and the error is
// returned.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	ex, err := h.chats.SendMessage(r.Context(), req.Content, req.ProviderID, req.ModelID)
	if ex != nil && ex.User != nil {
		h.announce(r, syncbus.MessageAdded, ex.ChatID)
	}
	if err != nil {
		slog.Warn("Send to provider failed", "provider_id", req.ProviderID, "error", err)
		respondWithError(w, err)
		return
	}
	if ex.Reply != nil {
		h.announce(r, syncbus.MessageAdded, ex.ChatID)
	}
	respondWithJSON(w, http.StatusOK, ex)
}

func (h *ChatHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ProjectResponse{ProjectID: h.chats.CurrentProjectID()})
}

// SelectProject handles PUT /project. An empty projectId leaves project
// mode.
func (h *ChatHandler) SelectProject(w http.ResponseWriter, r *http.Request) {
	var req SelectProjectRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	var err error
	if req.ProjectID == "" {
		err = h.chats.ExitProject(r.Context())
	} else {
		err = h.chats.SetCurrentProject(r.Context(), req.ProjectID)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	h.bus.Broadcast(context.WithoutCancel(r.Context()), syncbus.SettingsChanged, nil)
	respondWithJSON(w, http.StatusOK, ProjectResponse{ProjectID: req.ProjectID})
}

func (h *ChatHandler) ExportChat(w http.ResponseWriter, r *http.Request) {
	export, err := h.chats.ExportChat(chi.URLParam(r, "chatID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, export)
}

func (h *ChatHandler) ExportAllChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ExportAllChats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chats)
}

// ImportChats handles POST /import with an array in the export format.
func (h *ChatHandler) ImportChats(w http.ResponseWriter, r *http.Request) {
	var chats []*model.Chat
	if err := bind(r, &chats); err != nil {
		respondWithError(w, err)
		return
	}
	imported, err := h.chats.ImportChats(r.Context(), chats)
	if err != nil {
		respondWithError(w, err)
		return
	}
	// No single chat to point peers at; a reload is all they need.
	h.bus.Broadcast(context.WithoutCancel(r.Context()), syncbus.ChatUpdated, nil)
	respondWithJSON(w, http.StatusOK, imported)
}

func (h *ChatHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.chats.GetStats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
