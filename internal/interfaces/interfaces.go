package interfaces

import (
	"context"

	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/repository"
	"aiteam-manager/internal/service"
	"aiteam-manager/internal/syncbus"
)

// This file defines the contracts the API layer depends on. Handlers take
// these interfaces instead of the concrete services so they can be tested
// against mocks.

// ChatManager defines the chat operations exposed over the local API.
type ChatManager interface {
	GetChats() []*model.Chat
	GetChat(id string) *model.Chat
	GetCurrentChat() *model.Chat
	CurrentProjectID() string
	GetChatsByProject(projectID *string) []*model.Chat
	GetUnassignedChats() []*model.Chat
	GetPinnedChats() []*model.Chat
	GetArchivedChats() []*model.Chat
	GetActiveChats() []*model.Chat
	SearchChats(query string) []*model.Chat

	CreateChat(ctx context.Context, cfg service.CreateChatConfig) (*model.Chat, error)
	CloneChat(ctx context.Context, id string) (*model.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	DeleteChats(ctx context.Context, ids []string) error
	ClearAllChats(ctx context.Context) error
	LoadChat(ctx context.Context, id string) (*model.Chat, error)
	ClearCurrentChat(ctx context.Context) error
	SetCurrentProject(ctx context.Context, id string) error
	ExitProject(ctx context.Context) error

	ToggleArchive(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) error
	ClearChatMessages(ctx context.Context, id string) error
	UpdateChatTitle(ctx context.Context, id, title string) error
	UpdateChatProvider(ctx context.Context, id, providerID, modelID string) error
	MoveChatToProject(ctx context.Context, id string, projectID *string) error

	AddMessage(ctx context.Context, chatID string, cfg model.MessageConfig) (*model.Message, error)
	EditMessage(ctx context.Context, chatID, messageID, content string) (*model.Message, error)
	DeleteMessage(ctx context.Context, chatID, messageID string) (bool, error)
	SendMessage(ctx context.Context, text, providerID, modelID string) (*service.Exchange, error)

	ExportChat(id string) (*model.ChatExport, error)
	ExportAllChats(ctx context.Context) ([]*model.Chat, error)
	ImportChats(ctx context.Context, chats []*model.Chat) ([]*model.Chat, error)
	GetStats(ctx context.Context) (*repository.ChatStats, error)
}

// ProviderService defines provider administration.
type ProviderService interface {
	List(ctx context.Context) ([]*llm.Provider, error)
	Get(ctx context.Context, id string) (*llm.Provider, error)
	CreateFromTemplate(ctx context.Context, providerType, apiKey string) (*llm.Provider, error)
	CreateCustom(ctx context.Context, cfg llm.ProviderConfig) (*llm.Provider, error)
	Update(ctx context.Context, id string, patch service.ProviderPatch) (*llm.Provider, error)
	Delete(ctx context.Context, id string) error
	Test(ctx context.Context, id string) (llm.ConnectionResult, error)
	SetActive(ctx context.Context, id string) error
	ActiveID(ctx context.Context) (string, error)
	SetDefaultModel(ctx context.Context, id, modelID string) error
	Models(ctx context.Context, id string) ([]llm.Model, error)
	Templates() []*llm.Provider
}

// Broadcaster announces local writes to other instances and tracks whether
// this instance's view is shown.
type Broadcaster interface {
	Broadcast(ctx context.Context, typ syncbus.EventType, data map[string]any) syncbus.Event
	SetVisible(ctx context.Context, visible bool)
}

var (
	_ ChatManager     = (*service.ChatManager)(nil)
	_ ProviderService = (*service.ProviderService)(nil)
	_ Broadcaster     = (*syncbus.Bus)(nil)
)
