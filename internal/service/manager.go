package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	app_errors "aiteam-manager/internal/errors"
	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/repository"
)

// ChatManager is the in-memory source of truth for one session. It caches
// every chat, newest first, and tracks the current chat and project.
//
// A write holds mu from the cache mutation through the store save, so
// writes reach the store in the order they were applied to the cache.
// Remote calls never run under the lock.
type ChatManager struct {
	chats     repository.ChatRepository
	providers repository.ProviderRepository
	client    *http.Client

	mu               sync.RWMutex
	cache            []*model.Chat
	currentChatID    string
	currentProjectID string
}

// CreateChatConfig describes a new chat. Empty provider and model ids are
// resolved from the active provider. A nil ProjectID adopts the current
// project unless NoProject is set.
type CreateChatConfig struct {
	Title             string         `json:"title"`
	ProjectID         *string        `json:"projectId"`
	NoProject         bool           `json:"noProject"`
	DefaultProviderID string         `json:"defaultProviderId"`
	DefaultModelID    string         `json:"defaultModelId"`
	Metadata          map[string]any `json:"metadata"`
}

// SendResult is the reply of a remote model together with where it came
// from.
type SendResult struct {
	Content      string `json:"content"`
	ProviderID   string `json:"providerId"`
	ProviderName string `json:"providerName"`
	ModelID      string `json:"modelId"`
	ModelName    string `json:"modelName"`
}

// Exchange is one user turn and the assistant reply it produced.
type Exchange struct {
	ChatID string         `json:"chatId"`
	User   *model.Message `json:"user"`
	Reply  *model.Message `json:"reply"`
}

func NewChatManager(chats repository.ChatRepository, providers repository.ProviderRepository) *ChatManager {
	return &ChatManager{chats: chats, providers: providers, cache: []*model.Chat{}}
}

// WithHTTPClient sets the client used for remote model calls.
func (m *ChatManager) WithHTTPClient(c *http.Client) *ChatManager {
	m.client = c
	return m
}

// Init opens both stores, loads every chat and restores the selection.
func (m *ChatManager) Init(ctx context.Context) error {
	if err := m.chats.Init(ctx); err != nil {
		return fmt.Errorf("could not init chat store: %w", err)
	}
	if err := m.providers.Init(ctx); err != nil {
		return fmt.Errorf("could not init provider store: %w", err)
	}
	if err := m.ReloadChats(ctx); err != nil {
		return err
	}

	chatID, err := m.chats.GetCurrentChatID(ctx)
	if err != nil {
		return fmt.Errorf("could not restore current chat: %w", err)
	}
	projectID, err := m.chats.GetCurrentProjectID(ctx)
	if err != nil {
		return fmt.Errorf("could not restore current project: %w", err)
	}

	m.mu.Lock()
	m.currentChatID = chatID
	m.currentProjectID = projectID
	count := len(m.cache)
	m.mu.Unlock()

	slog.Info("Chat manager initialized", "chats", count, "current_chat_id", chatID, "current_project_id", projectID)
	return nil
}

// ReloadChats replaces the cache with the stored chats.
func (m *ChatManager) ReloadChats(ctx context.Context) error {
	chats, err := m.chats.GetAllChats(ctx)
	if err != nil {
		return fmt.Errorf("could not load chats: %w", err)
	}
	m.mu.Lock()
	m.cache = chats
	m.mu.Unlock()
	return nil
}

// RefreshChat rereads one chat from the store into the cache. It returns
// nil when the chat is no longer stored.
func (m *ChatManager) RefreshChat(ctx context.Context, id string) (*model.Chat, error) {
	stored, err := m.chats.GetChat(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not refresh chat %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	switch {
	case stored == nil && i >= 0:
		m.cache = slices.Delete(m.cache, i, i+1)
	case stored == nil:
	case i >= 0:
		m.cache[i] = stored
	default:
		m.cache = append([]*model.Chat{stored}, m.cache...)
	}
	if stored == nil {
		return nil, nil
	}
	return stored.Copy(), nil
}

func (m *ChatManager) indexOf(id string) int {
	return slices.IndexFunc(m.cache, func(c *model.Chat) bool { return c.ID == id })
}

func (m *ChatManager) find(id string) *model.Chat {
	if i := m.indexOf(id); i >= 0 {
		return m.cache[i]
	}
	return nil
}

func copyChats(chats []*model.Chat) []*model.Chat {
	out := make([]*model.Chat, len(chats))
	for i, c := range chats {
		out[i] = c.Copy()
	}
	return out
}

func (m *ChatManager) filter(keep func(*model.Chat) bool) []*model.Chat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.Chat{}
	for _, c := range m.cache {
		if keep(c) {
			out = append(out, c.Copy())
		}
	}
	return out
}

// GetChats returns a copy of every cached chat in cache order.
func (m *ChatManager) GetChats() []*model.Chat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyChats(m.cache)
}

// GetChat returns a copy of the chat with id, or nil.
func (m *ChatManager) GetChat(id string) *model.Chat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c := m.find(id); c != nil {
		return c.Copy()
	}
	return nil
}

func (m *ChatManager) GetCurrentChat() *model.Chat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c := m.find(m.currentChatID); c != nil {
		return c.Copy()
	}
	return nil
}

func (m *ChatManager) CurrentChatID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentChatID
}

func (m *ChatManager) CurrentProjectID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentProjectID
}

// InProject reports whether a project is currently selected.
func (m *ChatManager) InProject() bool {
	return m.CurrentProjectID() != ""
}

func (m *ChatManager) GetChatsByProject(projectID *string) []*model.Chat {
	return m.filter(func(c *model.Chat) bool { return c.InProject(projectID) })
}

func (m *ChatManager) GetUnassignedChats() []*model.Chat {
	return m.GetChatsByProject(nil)
}

func (m *ChatManager) GetPinnedChats() []*model.Chat {
	return m.filter(func(c *model.Chat) bool { return c.Pinned })
}

func (m *ChatManager) GetArchivedChats() []*model.Chat {
	return m.filter(func(c *model.Chat) bool { return c.Archived })
}

// GetActiveChats returns the chats that are not archived.
func (m *ChatManager) GetActiveChats() []*model.Chat {
	return m.filter(func(c *model.Chat) bool { return !c.Archived })
}

// SearchChats matches query case-insensitively against titles and message
// content. An empty query matches every chat.
func (m *ChatManager) SearchChats(query string) []*model.Chat {
	return m.filter(func(c *model.Chat) bool { return c.Matches(query) })
}

// Providers exposes the provider store the manager resolves sends against.
func (m *ChatManager) Providers() repository.ProviderRepository {
	return m.providers
}

// CreateChat builds a chat, prepends it to the cache, saves it and makes it
// current.
func (m *ChatManager) CreateChat(ctx context.Context, cfg CreateChatConfig) (*model.Chat, error) {
	providerID := cfg.DefaultProviderID
	modelID := cfg.DefaultModelID
	if providerID == "" {
		active, err := m.providers.GetActiveProviderID(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not resolve active provider: %w", err)
		}
		providerID = active
	}
	if providerID != "" && modelID == "" {
		p, err := m.providers.GetProvider(ctx, providerID)
		if err != nil {
			return nil, fmt.Errorf("could not resolve provider %s: %w", providerID, err)
		}
		if p != nil {
			modelID = p.DefaultModel
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	projectID := cfg.ProjectID
	if projectID == nil && !cfg.NoProject && m.currentProjectID != "" {
		current := m.currentProjectID
		projectID = &current
	}

	chat := model.NewChat(model.ChatConfig{
		Title:             cfg.Title,
		ProjectID:         projectID,
		DefaultProviderID: providerID,
		DefaultModelID:    modelID,
		Metadata:          cfg.Metadata,
	})
	m.cache = append([]*model.Chat{chat}, m.cache...)
	if err := m.chats.SaveChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("could not save chat: %w", err)
	}
	if err := m.setCurrentChatLocked(ctx, chat.ID); err != nil {
		return nil, err
	}
	slog.Debug("Chat created", "chat_id", chat.ID, "provider_id", providerID, "model_id", modelID)
	return chat.Copy(), nil
}

// CloneChat copies the chat with id and puts the copy at the top of the
// list. It returns nil when the source chat is absent.
func (m *ChatManager) CloneChat(ctx context.Context, id string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.find(id)
	if src == nil {
		return nil, nil
	}
	clone := src.Clone()
	m.cache = append([]*model.Chat{clone}, m.cache...)
	if err := m.chats.SaveChat(ctx, clone); err != nil {
		return nil, fmt.Errorf("could not save cloned chat: %w", err)
	}
	return clone.Copy(), nil
}

// DeleteChat removes a chat. When it was current, the first remaining chat
// becomes current, or none when the list is empty.
func (m *ChatManager) DeleteChat(ctx context.Context, id string) error {
	return m.DeleteChats(ctx, []string{id})
}

// DeleteChats removes several chats with the same succession rule as
// DeleteChat.
func (m *ChatManager) DeleteChats(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache = slices.DeleteFunc(m.cache, func(c *model.Chat) bool { return slices.Contains(ids, c.ID) })
	var err error
	if len(ids) == 1 {
		err = m.chats.DeleteChat(ctx, ids[0])
	} else {
		err = m.chats.DeleteChats(ctx, ids)
	}
	if err != nil {
		return fmt.Errorf("could not delete chats: %w", err)
	}

	if slices.Contains(ids, m.currentChatID) {
		next := ""
		if len(m.cache) > 0 {
			next = m.cache[0].ID
		}
		if err := m.setCurrentChatLocked(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

// ClearAllChats deletes every chat and clears the selection.
func (m *ChatManager) ClearAllChats(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache = []*model.Chat{}
	if err := m.chats.ClearAllChats(ctx); err != nil {
		return fmt.Errorf("could not clear chats: %w", err)
	}
	return m.setCurrentChatLocked(ctx, "")
}

// LoadChat makes the chat with id current and returns it.
func (m *ChatManager) LoadChat(ctx context.Context, id string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.find(id)
	if c == nil {
		return nil, app_errors.ErrChatNotFound
	}
	if err := m.setCurrentChatLocked(ctx, id); err != nil {
		return nil, err
	}
	return c.Copy(), nil
}

// SetCurrentChat records id as the current chat without checking that it
// exists. "" clears the selection.
func (m *ChatManager) SetCurrentChat(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCurrentChatLocked(ctx, id)
}

func (m *ChatManager) ClearCurrentChat(ctx context.Context) error {
	return m.SetCurrentChat(ctx, "")
}

// ForgetCurrentChat clears the selection in memory only. It is used when
// another instance deleted the chat and already recorded its own selection.
func (m *ChatManager) ForgetCurrentChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentChatID = ""
}

func (m *ChatManager) setCurrentChatLocked(ctx context.Context, id string) error {
	m.currentChatID = id
	if err := m.chats.SaveCurrentChatID(ctx, id); err != nil {
		return fmt.Errorf("could not save current chat: %w", err)
	}
	return nil
}

func (m *ChatManager) SetCurrentProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentProjectID = id
	if err := m.chats.SaveCurrentProjectID(ctx, id); err != nil {
		return fmt.Errorf("could not save current project: %w", err)
	}
	return nil
}

func (m *ChatManager) ExitProject(ctx context.Context) error {
	return m.SetCurrentProject(ctx, "")
}

// mutate applies fn to the cached chat with id and saves the result. It
// reports false without error when the chat is absent.
func (m *ChatManager) mutate(ctx context.Context, id string, fn func(*model.Chat)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.find(id)
	if c == nil {
		return false, nil
	}
	fn(c)
	if err := m.chats.SaveChat(ctx, c); err != nil {
		return true, fmt.Errorf("could not save chat %s: %w", id, err)
	}
	return true, nil
}

func (m *ChatManager) ToggleArchive(ctx context.Context, id string) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) {
		c.Archived = !c.Archived
		c.Touch()
	})
	return err
}

func (m *ChatManager) TogglePin(ctx context.Context, id string) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) {
		c.Pinned = !c.Pinned
		c.Touch()
	})
	return err
}

func (m *ChatManager) ClearChatMessages(ctx context.Context, id string) error {
	_, err := m.mutate(ctx, id, (*model.Chat).ClearMessages)
	return err
}

func (m *ChatManager) UpdateChatTitle(ctx context.Context, id, title string) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) { c.UpdateTitle(title) })
	return err
}

// UpdateChatProvider changes the provider and model new sends in the chat
// default to.
func (m *ChatManager) UpdateChatProvider(ctx context.Context, id, providerID, modelID string) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) { c.SetDefaultProvider(providerID, modelID) })
	return err
}

// UpdateChatMetadata merges meta into the chat's metadata.
func (m *ChatManager) UpdateChatMetadata(ctx context.Context, id string, meta map[string]any) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) {
		for k, v := range meta {
			c.Metadata[k] = v
		}
		c.Touch()
	})
	return err
}

// MoveChatToProject reassigns a chat; nil unassigns it.
func (m *ChatManager) MoveChatToProject(ctx context.Context, id string, projectID *string) error {
	_, err := m.mutate(ctx, id, func(c *model.Chat) {
		if projectID == nil {
			c.ProjectID = nil
		} else {
			p := *projectID
			c.ProjectID = &p
		}
		c.Touch()
	})
	return err
}

// SortChats reorders the cache: pinned first, then most recently updated.
func (m *ChatManager) SortChats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	model.SortChats(m.cache)
}

// AddMessage appends a message to the chat and saves it. The first message
// of a chat sets its title. It returns nil when the chat is absent.
func (m *ChatManager) AddMessage(ctx context.Context, chatID string, cfg model.MessageConfig) (*model.Message, error) {
	msg, err := model.NewMessage(cfg)
	if err != nil {
		return nil, err
	}

	var added *model.Message
	_, err = m.mutate(ctx, chatID, func(c *model.Chat) {
		c.AddMessage(msg)
		if len(c.Messages) == 1 {
			c.GenerateAutoTitle()
		}
		added = msg.Copy()
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateMessage merges patch into a message. It returns nil when the chat or
// the message is absent.
func (m *ChatManager) UpdateMessage(ctx context.Context, chatID, messageID string, patch model.MessagePatch) (*model.Message, error) {
	var updated *model.Message
	_, err := m.mutate(ctx, chatID, func(c *model.Chat) {
		if msg := c.UpdateMessage(messageID, patch); msg != nil {
			updated = msg.Copy()
		}
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// EditMessage replaces a message's content and marks it edited.
func (m *ChatManager) EditMessage(ctx context.Context, chatID, messageID, content string) (*model.Message, error) {
	var edited *model.Message
	_, err := m.mutate(ctx, chatID, func(c *model.Chat) {
		if msg := c.FindMessage(messageID); msg != nil {
			msg.Edit(content)
			c.Touch()
			edited = msg.Copy()
		}
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// DeleteMessage reports whether the message existed and was removed.
func (m *ChatManager) DeleteMessage(ctx context.Context, chatID, messageID string) (bool, error) {
	deleted := false
	_, err := m.mutate(ctx, chatID, func(c *model.Chat) { deleted = c.DeleteMessage(messageID) })
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// SendToAI asks a remote model to continue the current chat. The provider
// is the explicit one, else the chat default, else the active provider;
// the model follows the same order ending at the provider default. text is
// sent as the final user turn unless the chat already ends with it. The
// chat itself is not modified.
func (m *ChatManager) SendToAI(ctx context.Context, text, providerID, modelID string) (*SendResult, error) {
	chat := m.GetCurrentChat()
	if chat == nil {
		return nil, app_errors.ErrNoActiveChat
	}

	if providerID == "" {
		providerID = chat.DefaultProviderID
	}
	if providerID == "" {
		active, err := m.providers.GetActiveProviderID(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not resolve active provider: %w", err)
		}
		providerID = active
	}
	if providerID == "" {
		return nil, app_errors.ErrNoProviderConfigured
	}

	provider, err := m.providers.GetProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("could not load provider %s: %w", providerID, err)
	}
	if provider == nil {
		return nil, app_errors.ErrProviderNotFound
	}
	if !provider.Enabled {
		return nil, &app_errors.ProviderDisabledError{Name: provider.Name}
	}
	if m.client != nil {
		provider.WithHTTPClient(m.client)
	}

	if modelID == "" {
		modelID = chat.DefaultModelID
	}
	if modelID == "" {
		modelID = provider.DefaultModel
	}

	history := chat.ConversationHistory()
	if text != "" {
		last := len(history) - 1
		if last < 0 || history[last].Role != model.RoleUser || history[last].Content != text {
			history = append(history, model.HistoryEntry{Role: model.RoleUser, Content: text})
		}
	}
	messages := make([]llm.Message, len(history))
	for i, h := range history {
		messages[i] = llm.Message{Role: h.Role, Content: h.Content}
	}

	slog.Debug("Sending chat to provider", "chat_id", chat.ID, "provider_id", provider.ID, "model_id", modelID, "messages", len(messages))
	content, err := provider.SendRequest(ctx, messages, modelID)
	if err != nil {
		return nil, err
	}
	return &SendResult{
		Content:      content,
		ProviderID:   provider.ID,
		ProviderName: provider.Name,
		ModelID:      modelID,
		ModelName:    provider.ModelName(modelID),
	}, nil
}

// AddAssistantReply appends res to the chat as an assistant message that
// records which provider and model produced it.
func (m *ChatManager) AddAssistantReply(ctx context.Context, chatID string, res *SendResult) (*model.Message, error) {
	return m.AddMessage(ctx, chatID, model.MessageConfig{
		Role:         model.RoleAssistant,
		Content:      res.Content,
		ProviderID:   res.ProviderID,
		ProviderName: res.ProviderName,
		ModelID:      res.ModelID,
		ModelName:    res.ModelName,
	})
}

// SendMessage runs a full turn on the current chat: the user message is
// stored, the remote model is asked, and its reply is stored. When the
// remote call fails the user message stays in the chat.
func (m *ChatManager) SendMessage(ctx context.Context, text, providerID, modelID string) (*Exchange, error) {
	chatID := m.CurrentChatID()
	if m.GetChat(chatID) == nil {
		return nil, app_errors.ErrNoActiveChat
	}

	user, err := m.AddMessage(ctx, chatID, model.MessageConfig{Role: model.RoleUser, Content: text})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, app_errors.ErrNoActiveChat
	}

	res, err := m.SendToAI(ctx, text, providerID, modelID)
	if err != nil {
		slog.Warn("Remote model call failed", "chat_id", chatID, "error", err)
		return &Exchange{ChatID: chatID, User: user}, err
	}

	reply, err := m.AddAssistantReply(ctx, chatID, res)
	if err != nil {
		return &Exchange{ChatID: chatID, User: user}, err
	}
	return &Exchange{ChatID: chatID, User: user, Reply: reply}, nil
}

// ExportChat returns the human-readable view of one chat.
func (m *ChatManager) ExportChat(id string) (*model.ChatExport, error) {
	c := m.GetChat(id)
	if c == nil {
		return nil, app_errors.ErrChatNotFound
	}
	export := c.Export()
	return &export, nil
}

// ExportAllChats returns every stored chat in its full serialized form.
func (m *ChatManager) ExportAllChats(ctx context.Context) ([]*model.Chat, error) {
	return m.chats.ExportChats(ctx)
}

// ImportChats stores chats and reloads the cache.
func (m *ChatManager) ImportChats(ctx context.Context, chats []*model.Chat) ([]*model.Chat, error) {
	imported, err := m.chats.ImportChats(ctx, chats)
	if err != nil {
		return nil, fmt.Errorf("could not import chats: %w", err)
	}
	if err := m.ReloadChats(ctx); err != nil {
		return nil, err
	}
	slog.Info("Chats imported", "count", len(imported))
	return imported, nil
}

func (m *ChatManager) GetStats(ctx context.Context) (*repository.ChatStats, error) {
	return m.chats.GetChatStats(ctx)
}
