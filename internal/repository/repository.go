package repository

import (
	"context"

	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/model"
)

// ChatRepository is durable storage for chats and the current-selection
// state. Lookups of a single record return nil, nil when it is absent.
type ChatRepository interface {
	Init(ctx context.Context) error
	Close() error

	SaveChat(ctx context.Context, chat *model.Chat) error
	SaveChats(ctx context.Context, chats []*model.Chat) error
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	GetAllChats(ctx context.Context) ([]*model.Chat, error)
	GetChatsByProject(ctx context.Context, projectID *string) ([]*model.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	DeleteChats(ctx context.Context, ids []string) error
	ClearAllChats(ctx context.Context) error

	SaveCurrentChatID(ctx context.Context, id string) error
	GetCurrentChatID(ctx context.Context) (string, error)
	SaveCurrentProjectID(ctx context.Context, id string) error
	GetCurrentProjectID(ctx context.Context) (string, error)

	ExportChats(ctx context.Context) ([]*model.Chat, error)
	ImportChats(ctx context.Context, chats []*model.Chat) ([]*model.Chat, error)
	GetChatStats(ctx context.Context) (*ChatStats, error)
}

// ProviderRepository is durable storage for provider descriptors and the
// active provider selection.
type ProviderRepository interface {
	Init(ctx context.Context) error
	Close() error

	GetProvider(ctx context.Context, id string) (*llm.Provider, error)
	GetAllProviders(ctx context.Context) ([]*llm.Provider, error)
	GetEnabledProviders(ctx context.Context) ([]*llm.Provider, error)
	SaveProvider(ctx context.Context, p *llm.Provider) error
	DeleteProvider(ctx context.Context, id string) error
	SaveProviderDefaultModel(ctx context.Context, providerID, modelID string) error

	SaveActiveProvider(ctx context.Context, id string) error
	GetActiveProviderID(ctx context.Context) (string, error)
	GetActiveProvider(ctx context.Context) (*llm.Provider, error)
	InitializeDefaultProviders(ctx context.Context) ([]*llm.Provider, error)
}
