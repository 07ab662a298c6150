package model

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
)

const (
	// DefaultTitle is used whenever a chat has no usable title.
	DefaultTitle = "New Chat"

	autoTitleLimit = 50
)

// Chat is an ordered conversation plus its per-chat settings. Insertion
// order of Messages is conversational order.
type Chat struct {
	ID                string         `json:"id"`
	ProjectID         *string        `json:"projectId"`
	Title             string         `json:"title"`
	Messages          []*Message     `json:"messages"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DefaultProviderID string         `json:"defaultProviderId"`
	DefaultModelID    string         `json:"defaultModelId"`
	Metadata          map[string]any `json:"metadata"`
	Pinned            bool           `json:"pinned"`
	Archived          bool           `json:"archived"`
}

// ChatConfig holds the fields accepted when a chat is created.
type ChatConfig struct {
	ID                string
	ProjectID         *string
	Title             string
	Messages          []*Message
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DefaultProviderID string
	DefaultModelID    string
	Metadata          map[string]any
	Pinned            bool
	Archived          bool
}

// MessagePatch is a shallow update applied by UpdateMessage. Nil fields are
// left untouched.
type MessagePatch struct {
	Role     *string
	Content  *string
	AgentID  *string
	Metadata map[string]any
}

// HistoryEntry is the wire shape of one turn sent to a remote model.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewChat builds a chat, filling in id, timestamps and the default title.
func NewChat(cfg ChatConfig) *Chat {
	c := &Chat{
		ID:                cfg.ID,
		ProjectID:         cloneString(cfg.ProjectID),
		Title:             cfg.Title,
		Messages:          make([]*Message, 0, len(cfg.Messages)),
		CreatedAt:         cfg.CreatedAt,
		UpdatedAt:         cfg.UpdatedAt,
		DefaultProviderID: cfg.DefaultProviderID,
		DefaultModelID:    cfg.DefaultModelID,
		Metadata:          cloneMetadata(cfg.Metadata),
		Pinned:            cfg.Pinned,
		Archived:          cfg.Archived,
	}
	for _, m := range cfg.Messages {
		if m != nil {
			c.Messages = append(c.Messages, m.Copy())
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	c.normalize()
	return c
}

// UnmarshalJSON loads a stored or imported record without validation,
// applying only the defaults a record may lack.
func (c *Chat) UnmarshalJSON(data []byte) error {
	type alias Chat
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Chat(a)
	c.normalize()
	return nil
}

func (c *Chat) normalize() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Messages == nil {
		c.Messages = []*Message{}
	}
	c.Messages = slices.DeleteFunc(c.Messages, func(m *Message) bool { return m == nil })
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
}

// Touch advances UpdatedAt. The new value is always later than the old one,
// even when the wall clock has not moved.
func (c *Chat) Touch() {
	t := now()
	if !t.After(c.UpdatedAt) {
		t = c.UpdatedAt.Add(time.Nanosecond)
	}
	c.UpdatedAt = t
}

// AddMessage appends m and touches the chat.
func (c *Chat) AddMessage(m *Message) *Message {
	c.Messages = append(c.Messages, m)
	c.Touch()
	return m
}

// AppendMessage validates a plain record, appends it and touches the chat.
func (c *Chat) AppendMessage(cfg MessageConfig) (*Message, error) {
	m, err := NewMessage(cfg)
	if err != nil {
		return nil, err
	}
	return c.AddMessage(m), nil
}

// FindMessage returns the message with id, or nil.
func (c *Chat) FindMessage(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// UpdateMessage merges patch into the message with id. It returns nil when
// the message is absent.
func (c *Chat) UpdateMessage(id string, patch MessagePatch) *Message {
	m := c.FindMessage(id)
	if m == nil {
		return nil
	}
	if patch.Role != nil {
		m.Role = *patch.Role
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.AgentID != nil {
		m.AgentID = *patch.AgentID
	}
	if len(patch.Metadata) > 0 && m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	for k, v := range patch.Metadata {
		m.Metadata[k] = v
	}
	c.Touch()
	return m
}

// DeleteMessage removes the message with id and reports whether it existed.
func (c *Chat) DeleteMessage(id string) bool {
	i := slices.IndexFunc(c.Messages, func(m *Message) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	c.Messages = slices.Delete(c.Messages, i, i+1)
	c.Touch()
	return true
}

func (c *Chat) ClearMessages() {
	c.Messages = []*Message{}
	c.Touch()
}

// SetDefaultProvider changes the chat-level provider and model defaults.
func (c *Chat) SetDefaultProvider(providerID, modelID string) {
	c.DefaultProviderID = providerID
	c.DefaultModelID = modelID
	c.Touch()
}

// UpdateTitle renames the chat; an empty title falls back to DefaultTitle.
func (c *Chat) UpdateTitle(title string) {
	if title == "" {
		title = DefaultTitle
	}
	c.Title = title
	c.Touch()
}

func (c *Chat) MessageCount() int { return len(c.Messages) }

// LastMessage returns the final message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUserMessage returns the most recent user turn, or nil.
func (c *Chat) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].IsUser() {
			return c.Messages[i]
		}
	}
	return nil
}

// ConversationHistory projects the messages to role and content only, so no
// provenance is sent to a remote model.
func (c *Chat) ConversationHistory() []HistoryEntry {
	history := make([]HistoryEntry, 0, len(c.Messages))
	for _, m := range c.Messages {
		history = append(history, HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return history
}

// GenerateAutoTitle derives the title from the first user message: its first
// line cut to 50 UTF-16 code units, with "..." appended when the whole
// content is longer than that. Chats without a user message keep their title.
func (c *Chat) GenerateAutoTitle() {
	i := slices.IndexFunc(c.Messages, func(m *Message) bool { return m.IsUser() })
	if i < 0 {
		return
	}
	content := c.Messages[i].Content
	firstLine, _, _ := strings.Cut(content, "\n")

	title := truncateUTF16(firstLine, autoTitleLimit)
	if utf16Len(content) > autoTitleLimit {
		title += "..."
	}
	if title == "" {
		title = DefaultTitle
	}
	c.Title = title
}

// ChatExport is the human-readable export of a single chat.
type ChatExport struct {
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	Messages  []ExportedMessage `json:"messages"`
}

type ExportedMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
}

// Export returns the human-meaningful view of the chat. Ids, metadata and
// flags are dropped.
func (c *Chat) Export() ChatExport {
	out := ChatExport{
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Messages:  make([]ExportedMessage, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, ExportedMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			Provider:  m.ProviderName,
			Model:     m.ModelName,
		})
	}
	return out
}

// Clone copies the chat under a new id. Messages get fresh ids, the title
// gains a " (Copy)" suffix and metadata records the source chat.
func (c *Chat) Clone() *Chat {
	t := now()
	clone := c.Copy()
	clone.ID = uuid.NewString()
	clone.Title = c.Title + " (Copy)"
	clone.CreatedAt = t
	clone.UpdatedAt = t
	clone.Pinned = false
	clone.Archived = false
	clone.Metadata["clonedFrom"] = c.ID
	for _, m := range clone.Messages {
		m.ID = uuid.NewString()
	}
	return clone
}

// Copy returns a deep copy that shares no mutable state with c.
func (c *Chat) Copy() *Chat {
	cp := *c
	cp.ProjectID = cloneString(c.ProjectID)
	cp.Metadata = cloneMetadata(c.Metadata)
	cp.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		cp.Messages[i] = m.Copy()
	}
	return &cp
}

// InProject reports whether the chat belongs to projectID; nil matches
// unassigned chats.
func (c *Chat) InProject(projectID *string) bool {
	if projectID == nil || c.ProjectID == nil {
		return projectID == nil && c.ProjectID == nil
	}
	return *c.ProjectID == *projectID
}

// Matches reports whether query occurs, ignoring case, in the title or in any
// message. An empty query matches everything.
func (c *Chat) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, m := range c.Messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			return true
		}
	}
	return false
}

// SortChats orders pinned chats first, then by UpdatedAt newest first.
func SortChats(chats []*Chat) {
	slices.SortStableFunc(chats, func(a, b *Chat) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// truncateUTF16 keeps at most limit UTF-16 code units without splitting a
// surrogate pair.
func truncateUTF16(s string, limit int) string {
	n := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if n+w > limit {
			return s[:i]
		}
		n += w
	}
	return s
}
