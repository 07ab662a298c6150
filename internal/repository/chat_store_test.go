package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"aiteam-manager/internal/database"
	"aiteam-manager/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandle(t *testing.T) *database.Handle {
	t.Helper()
	h := database.NewHandle(filepath.Join(t.TempDir(), database.Name+".db"))
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func newStoredChat(t *testing.T, title string, updatedAt time.Time, projectID *string) *model.Chat {
	t.Helper()
	chat := model.NewChat(model.ChatConfig{Title: title, ProjectID: projectID, CreatedAt: updatedAt, UpdatedAt: updatedAt})
	_, err := chat.AppendMessage(model.MessageConfig{Role: model.RoleUser, Content: "hello " + title})
	require.NoError(t, err)
	chat.UpdatedAt = updatedAt
	return chat
}

func ptr(s string) *string { return &s }

func TestChatStore_InitIsIdempotent(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Init(ctx))
}

func TestChatStore_SaveAndGet(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	chat := newStoredChat(t, "First", time.Now().UTC(), ptr("p1"))
	chat.Metadata["color"] = "blue"
	require.NoError(t, store.SaveChat(ctx, chat))

	loaded, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat, loaded)

	missing, err := store.GetChat(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChatStore_SaveOverwrites(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	chat := newStoredChat(t, "Before", time.Now().UTC(), nil)
	require.NoError(t, store.SaveChat(ctx, chat))
	chat.UpdateTitle("After")
	require.NoError(t, store.SaveChat(ctx, chat))

	all, err := store.GetAllChats(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "After", all[0].Title)
}

func TestChatStore_GetAllChatsNewestFirst(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	middle := newStoredChat(t, "middle", base.Add(time.Hour), nil)
	oldest := newStoredChat(t, "oldest", base, nil)
	// Differs from middle by less than a millisecond.
	newest := newStoredChat(t, "newest", base.Add(time.Hour+time.Microsecond), nil)
	require.NoError(t, store.SaveChats(ctx, []*model.Chat{middle, oldest, newest}))

	all, err := store.GetAllChats(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, []string{all[0].Title, all[1].Title, all[2].Title})
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].UpdatedAt.After(all[i-1].UpdatedAt))
	}
}

func TestChatStore_GetChatsByProject(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	base := time.Now().UTC()
	a := newStoredChat(t, "a", base, ptr("p1"))
	b := newStoredChat(t, "b", base.Add(time.Second), ptr("p1"))
	c := newStoredChat(t, "c", base, ptr("p2"))
	d := newStoredChat(t, "d", base, nil)
	require.NoError(t, store.SaveChats(ctx, []*model.Chat{a, b, c, d}))

	p1, err := store.GetChatsByProject(ctx, ptr("p1"))
	require.NoError(t, err)
	require.Len(t, p1, 2)
	assert.Equal(t, b.ID, p1[0].ID)
	assert.Equal(t, a.ID, p1[1].ID)

	unassigned, err := store.GetChatsByProject(ctx, nil)
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, d.ID, unassigned[0].ID)

	none, err := store.GetChatsByProject(ctx, ptr("p3"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChatStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), database.Name+".db")
	ctx := context.Background()

	first := NewChatStore(database.NewHandle(path))
	require.NoError(t, first.Init(ctx))
	base := time.Now().UTC()
	require.NoError(t, first.SaveChats(ctx, []*model.Chat{
		newStoredChat(t, "one", base, nil),
		newStoredChat(t, "two", base.Add(time.Second), ptr("p1")),
	}))
	require.NoError(t, first.SaveCurrentChatID(ctx, "chat-1"))
	want, err := first.GetAllChats(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := NewChatStore(database.NewHandle(path))
	defer func() { _ = second.Close() }()
	require.NoError(t, second.Init(ctx))
	got, err := second.GetAllChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	current, err := second.GetCurrentChatID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chat-1", current)
}

func TestChatStore_Delete(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	base := time.Now().UTC()
	a := newStoredChat(t, "a", base, nil)
	b := newStoredChat(t, "b", base, nil)
	c := newStoredChat(t, "c", base, nil)
	require.NoError(t, store.SaveChats(ctx, []*model.Chat{a, b, c}))

	require.NoError(t, store.DeleteChat(ctx, a.ID))
	require.NoError(t, store.DeleteChat(ctx, "unknown"))
	require.NoError(t, store.DeleteChats(ctx, []string{b.ID, "unknown"}))

	all, err := store.GetAllChats(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, c.ID, all[0].ID)

	require.NoError(t, store.ClearAllChats(ctx))
	all, err = store.GetAllChats(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestChatStore_CurrentSelection(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	id, err := store.GetCurrentChatID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SaveCurrentChatID(ctx, "c1"))
	require.NoError(t, store.SaveCurrentProjectID(ctx, "p1"))

	id, err = store.GetCurrentChatID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", id)
	project, err := store.GetCurrentProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", project)

	require.NoError(t, store.SaveCurrentChatID(ctx, ""))
	id, err = store.GetCurrentChatID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestChatStore_ExportImportIsIdentity(t *testing.T) {
	ctx := context.Background()
	source := NewChatStore(newTestHandle(t))

	base := time.Now().UTC()
	pinned := newStoredChat(t, "pinned", base, ptr("p1"))
	pinned.Pinned = true
	archived := newStoredChat(t, "archived", base.Add(time.Minute), nil)
	archived.Archived = true
	require.NoError(t, source.SaveChats(ctx, []*model.Chat{pinned, archived}))

	exported, err := source.ExportChats(ctx)
	require.NoError(t, err)

	target := NewChatStore(newTestHandle(t))
	imported, err := target.ImportChats(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, exported, imported)

	reexported, err := target.ExportChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, exported, reexported)
}

func TestChatStore_ImportAssignsMissingIDs(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	imported, err := store.ImportChats(ctx, []*model.Chat{{Title: "no id"}, nil})
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.NotEmpty(t, imported[0].ID)

	loaded, err := store.GetChat(ctx, imported[0].ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "no id", loaded.Title)
}

func TestChatStore_GetChatStats(t *testing.T) {
	store := NewChatStore(newTestHandle(t))
	ctx := context.Background()

	base := time.Now().UTC()
	a := newStoredChat(t, "a", base, ptr("p1"))
	a.Pinned = true
	b := newStoredChat(t, "b", base, ptr("p1"))
	b.Archived = true
	_, err := b.AppendMessage(model.MessageConfig{Role: model.RoleAssistant, Content: "reply"})
	require.NoError(t, err)
	c := newStoredChat(t, "c", base, nil)
	require.NoError(t, store.SaveChats(ctx, []*model.Chat{a, b, c}))

	stats, err := store.GetChatStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ChatStats{
		Total:         3,
		Archived:      1,
		Pinned:        1,
		ByProject:     map[string]int{"p1": 2, NoProjectKey: 1},
		TotalMessages: 4,
	}, stats)
}
