package model

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	app_errors "aiteam-manager/internal/errors"
)

// Message roles understood by the remote chat APIs.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation. Its JSON form is the on-disk and
// export representation, so every field is flat.
type Message struct {
	ID           string         `json:"id"`
	Role         string         `json:"role"`
	Content      string         `json:"content"`
	Timestamp    time.Time      `json:"timestamp"`
	ProviderID   string         `json:"providerId,omitempty"`
	ProviderName string         `json:"providerName,omitempty"`
	ModelID      string         `json:"modelId,omitempty"`
	ModelName    string         `json:"modelName,omitempty"`
	AgentID      string         `json:"agentId,omitempty"`
	Metadata     map[string]any `json:"metadata"`
	IsEdited     bool           `json:"isEdited"`
	EditedAt     *time.Time     `json:"editedAt,omitempty"`
}

// MessageConfig holds the fields accepted when a message is created.
// Zero ID and Timestamp are filled in.
type MessageConfig struct {
	ID           string
	Role         string
	Content      string
	Timestamp    time.Time
	ProviderID   string
	ProviderName string
	ModelID      string
	ModelName    string
	AgentID      string
	Metadata     map[string]any
}

// NewMessage validates cfg and builds a message. Content must be non-empty
// after trimming and the role must be set.
func NewMessage(cfg MessageConfig) (*Message, error) {
	if strings.TrimSpace(cfg.Content) == "" {
		return nil, fmt.Errorf("%w: message content must be a non-empty string", app_errors.ErrValidation)
	}
	if cfg.Role == "" {
		return nil, fmt.Errorf("%w: message role is required", app_errors.ErrValidation)
	}

	m := &Message{
		ID:           cfg.ID,
		Role:         cfg.Role,
		Content:      cfg.Content,
		Timestamp:    cfg.Timestamp,
		ProviderID:   cfg.ProviderID,
		ProviderName: cfg.ProviderName,
		ModelID:      cfg.ModelID,
		ModelName:    cfg.ModelName,
		AgentID:      cfg.AgentID,
		Metadata:     maps.Clone(cfg.Metadata),
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = now()
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	return m, nil
}

// Edit replaces the content and marks the message as edited. No validation
// is applied, so content may become empty.
func (m *Message) Edit(content string) {
	m.Content = content
	m.IsEdited = true
	t := now()
	m.EditedAt = &t
}

// SetProvider records which provider and model produced the message.
func (m *Message) SetProvider(providerID, providerName, modelID, modelName string) {
	m.ProviderID = providerID
	m.ProviderName = providerName
	m.ModelID = modelID
	m.ModelName = modelName
}

func (m *Message) HasProvider() bool { return m.ProviderID != "" }

func (m *Message) IsUser() bool { return m.Role == RoleUser }

func (m *Message) IsAssistant() bool { return m.Role == RoleAssistant }

// FormattedTime renders the timestamp as HH:MM in local time.
func (m *Message) FormattedTime() string {
	return m.Timestamp.Local().Format("15:04")
}

// Copy returns a deep copy of the message.
func (m *Message) Copy() *Message {
	c := *m
	c.Metadata = cloneMetadata(m.Metadata)
	if m.EditedAt != nil {
		t := *m.EditedAt
		c.EditedAt = &t
	}
	return &c
}

// now is the clock used for all timestamps. Values are UTC without a
// monotonic reading so they survive a JSON round trip unchanged.
var now = func() time.Time {
	return time.Now().UTC()
}

func cloneMetadata(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	return maps.Clone(src)
}
