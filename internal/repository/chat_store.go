package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aiteam-manager/internal/database"
	"aiteam-manager/internal/model"

	"github.com/google/uuid"
)

const (
	currentChatKey    = "currentChatId"
	currentProjectKey = "currentProjectId"

	// NoProjectKey labels unassigned chats in ChatStats.ByProject.
	NoProjectKey = "no-project"

	// timeLayout is fixed width so that string order equals time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ChatStats summarises the stored chats.
type ChatStats struct {
	Total         int            `json:"total"`
	Archived      int            `json:"archived"`
	Pinned        int            `json:"pinned"`
	ByProject     map[string]int `json:"byProject"`
	TotalMessages int            `json:"totalMessages"`
}

// ChatStore keeps chats as JSON documents in the chats table, with the
// indexed fields copied into their own columns.
type ChatStore struct {
	handle *database.Handle
}

func NewChatStore(handle *database.Handle) *ChatStore {
	return &ChatStore{handle: handle}
}

// Init opens and migrates the database. Calling it again is a no-op.
func (s *ChatStore) Init(ctx context.Context) error {
	_, err := s.ensureDB(ctx)
	return err
}

func (s *ChatStore) ensureDB(ctx context.Context) (*sql.DB, error) {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not open chat store: %w", err)
	}
	return db, nil
}

// Close releases the shared database handle.
func (s *ChatStore) Close() error {
	return s.handle.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func putChat(ctx context.Context, ex execer, chat *model.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("could not encode chat %s: %w", chat.ID, err)
	}
	var projectID sql.NullString
	if chat.ProjectID != nil {
		projectID = sql.NullString{String: *chat.ProjectID, Valid: true}
	}
	query := `
		INSERT OR REPLACE INTO chats (id, project_id, created_at, updated_at, pinned, archived, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = ex.ExecContext(ctx, query,
		chat.ID,
		projectID,
		formatTime(chat.CreatedAt),
		formatTime(chat.UpdatedAt),
		chat.Pinned,
		chat.Archived,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("could not save chat %s: %w", chat.ID, err)
	}
	return nil
}

func (s *ChatStore) SaveChat(ctx context.Context, chat *model.Chat) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	return logged("saveChat", putChat(ctx, db, chat))
}

// SaveChats writes every chat in one transaction. Nothing is stored when
// any write fails.
func (s *ChatStore) SaveChats(ctx context.Context, chats []*model.Chat) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return logged("saveChats", fmt.Errorf("could not begin transaction: %w", err))
	}
	defer tx.Rollback()

	for _, chat := range chats {
		if err := putChat(ctx, tx, chat); err != nil {
			return logged("saveChats", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return logged("saveChats", fmt.Errorf("could not commit transaction: %w", err))
	}
	return nil
}

// GetChat returns the chat with id, or nil when it is not stored.
func (s *ChatStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	var data string
	err = db.QueryRowContext(ctx, "SELECT data FROM chats WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, logged("getChat", fmt.Errorf("could not read chat %s: %w", id, err))
	}
	var chat model.Chat
	if err := json.Unmarshal([]byte(data), &chat); err != nil {
		return nil, logged("getChat", fmt.Errorf("could not decode chat %s: %w", id, err))
	}
	return &chat, nil
}

// GetAllChats returns every chat, most recently updated first.
func (s *ChatStore) GetAllChats(ctx context.Context) ([]*model.Chat, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	chats, err := queryChats(ctx, db, "SELECT data FROM chats ORDER BY updated_at DESC")
	return chats, logged("getAllChats", err)
}

// GetChatsByProject returns the chats of one project, most recently updated
// first. A nil projectID selects unassigned chats.
func (s *ChatStore) GetChatsByProject(ctx context.Context, projectID *string) ([]*model.Chat, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	var chats []*model.Chat
	if projectID == nil {
		chats, err = queryChats(ctx, db, "SELECT data FROM chats WHERE project_id IS NULL ORDER BY updated_at DESC")
	} else {
		chats, err = queryChats(ctx, db, "SELECT data FROM chats WHERE project_id = ? ORDER BY updated_at DESC", *projectID)
	}
	return chats, logged("getChatsByProject", err)
}

func queryChats(ctx context.Context, db *sql.DB, query string, args ...any) ([]*model.Chat, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query chats: %w", err)
	}
	defer rows.Close()

	chats := []*model.Chat{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("could not scan chat: %w", err)
		}
		var chat model.Chat
		if err := json.Unmarshal([]byte(data), &chat); err != nil {
			return nil, fmt.Errorf("could not decode chat: %w", err)
		}
		chats = append(chats, &chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate chats: %w", err)
	}
	return chats, nil
}

func (s *ChatStore) DeleteChat(ctx context.Context, id string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id); err != nil {
		return logged("deleteChat", fmt.Errorf("could not delete chat %s: %w", id, err))
	}
	return nil
}

// DeleteChats removes ids in one transaction.
func (s *ChatStore) DeleteChats(ctx context.Context, ids []string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return logged("deleteChats", fmt.Errorf("could not begin transaction: %w", err))
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id); err != nil {
			return logged("deleteChats", fmt.Errorf("could not delete chat %s: %w", id, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return logged("deleteChats", fmt.Errorf("could not commit transaction: %w", err))
	}
	return nil
}

func (s *ChatStore) ClearAllChats(ctx context.Context) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM chats"); err != nil {
		return logged("clearAllChats", fmt.Errorf("could not clear chats: %w", err))
	}
	return nil
}

// SaveCurrentChatID records the selected chat; "" clears the selection.
func (s *ChatStore) SaveCurrentChatID(ctx context.Context, id string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	return logged("saveCurrentChatId", saveSetting(ctx, db, appSettingsTable, currentChatKey, id))
}

// GetCurrentChatID returns the selected chat id, or "" when none is stored.
func (s *ChatStore) GetCurrentChatID(ctx context.Context) (string, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return "", err
	}
	id, err := lookupSetting(ctx, db, appSettingsTable, currentChatKey)
	return id, logged("getCurrentChatId", err)
}

// SaveCurrentProjectID records the selected project; "" clears it.
func (s *ChatStore) SaveCurrentProjectID(ctx context.Context, id string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	return logged("saveCurrentProjectId", saveSetting(ctx, db, appSettingsTable, currentProjectKey, id))
}

func (s *ChatStore) GetCurrentProjectID(ctx context.Context) (string, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return "", err
	}
	id, err := lookupSetting(ctx, db, appSettingsTable, currentProjectKey)
	return id, logged("getCurrentProjectId", err)
}

// ExportChats returns every stored chat in its full serialized form.
func (s *ChatStore) ExportChats(ctx context.Context) ([]*model.Chat, error) {
	return s.GetAllChats(ctx)
}

// ImportChats stores chats in one transaction and returns them as stored.
// Records without an id are given one.
func (s *ChatStore) ImportChats(ctx context.Context, chats []*model.Chat) ([]*model.Chat, error) {
	imported := make([]*model.Chat, 0, len(chats))
	for _, c := range chats {
		if c == nil {
			continue
		}
		cp := c.Copy()
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		imported = append(imported, cp)
	}
	if err := s.SaveChats(ctx, imported); err != nil {
		return nil, err
	}
	return imported, nil
}

func (s *ChatStore) GetChatStats(ctx context.Context) (*ChatStats, error) {
	chats, err := s.GetAllChats(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ChatStats{Total: len(chats), ByProject: map[string]int{}}
	for _, c := range chats {
		if c.Archived {
			stats.Archived++
		}
		if c.Pinned {
			stats.Pinned++
		}
		key := NoProjectKey
		if c.ProjectID != nil {
			key = *c.ProjectID
		}
		stats.ByProject[key]++
		stats.TotalMessages += len(c.Messages)
	}
	return stats, nil
}

var _ ChatRepository = (*ChatStore)(nil)
