// The `_test` suffix creates a "black box" test package: the tests only see
// what the api package exports.
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aiteam-manager/internal/api"
	app_errors "aiteam-manager/internal/errors"
	"aiteam-manager/internal/interfaces/mocks"
	"aiteam-manager/internal/llm"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/repository"
	"aiteam-manager/internal/service"
	"aiteam-manager/internal/syncbus"
)

// setupChatHandler builds a handler over fresh mocks. The mocks assert their
// expectations on cleanup.
func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockChatManager, *mocks.MockBroadcaster) {
	chats := mocks.NewMockChatManager(t)
	bus := mocks.NewMockBroadcaster(t)
	return api.NewChatHandler(chats, bus), chats, bus
}

// addChiURLParams injects URL parameters the way the chi router does, so
// handlers can be called directly.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func expectBroadcast(bus *mocks.MockBroadcaster, typ syncbus.EventType, data interface{}) {
	bus.On("Broadcast", mock.Anything, typ, data).Return(syncbus.Event{Type: typ}).Once()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestChatHandler_ListChats(t *testing.T) {
	all := []*model.Chat{{ID: "c1", Title: "First"}, {ID: "c2", Title: "Second"}}

	t.Run("All chats", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("GetChats").Return(all).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil)
		rr := httptest.NewRecorder()
		handler.ListChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []*model.Chat
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "c1", got[0].ID)
	})

	t.Run("Filters", func(t *testing.T) {
		tests := []struct {
			query  string
			method string
			args   []interface{}
		}{
			{query: "filter=pinned", method: "GetPinnedChats"},
			{query: "filter=archived", method: "GetArchivedChats"},
			{query: "filter=active", method: "GetActiveChats"},
			{query: "filter=unassigned", method: "GetUnassignedChats"},
			{query: "q=hello", method: "SearchChats", args: []interface{}{"hello"}},
		}
		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				handler, chats, _ := setupChatHandler(t)
				chats.On(tt.method, tt.args...).Return(all[:1]).Once()

				req := httptest.NewRequest(http.MethodGet, "/api/v1/chats?"+tt.query, nil)
				rr := httptest.NewRecorder()
				handler.ListChats(rr, req)

				assert.Equal(t, http.StatusOK, rr.Code)
			})
		}
	})

	t.Run("Project", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("GetChatsByProject", mock.MatchedBy(func(p *string) bool {
			return p != nil && *p == "p1"
		})).Return(all).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/chats?project=p1", nil)
		rr := httptest.NewRecorder()
		handler.ListChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unknown filter", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/chats?filter=starred", nil)
		rr := httptest.NewRecorder()
		handler.ListChats(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_GetChat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("GetChat", "c1").Return(&model.Chat{ID: "c1"}).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/chats/c1", nil), map[string]string{"chatID": "c1"})
		rr := httptest.NewRecorder()
		handler.GetChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("GetChat", "missing").Return(nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/chats/missing", nil), map[string]string{"chatID": "missing"})
		rr := httptest.NewRecorder()
		handler.GetChat(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Chat not found", decodeError(t, rr))
	})
}

func TestChatHandler_CreateChat(t *testing.T) {
	t.Run("Success broadcasts creation", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("CreateChat", mock.Anything, mock.MatchedBy(func(cfg service.CreateChatConfig) bool {
			return cfg.Title == "Plans" && cfg.DefaultProviderID == "p1" && cfg.NoProject
		})).Return(&model.Chat{ID: "new", Title: "Plans"}, nil).Once()
		expectBroadcast(bus, syncbus.ChatCreated, syncbus.ChatData("new"))

		body := `{"title":"Plans","providerId":"p1","noProject":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.CreateChat(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Empty body uses defaults", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("CreateChat", mock.Anything, service.CreateChatConfig{}).Return(&model.Chat{ID: "new"}, nil).Once()
		expectBroadcast(bus, syncbus.ChatCreated, syncbus.ChatData("new"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", nil)
		rr := httptest.NewRecorder()
		handler.CreateChat(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Storage failure is not broadcast", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("CreateChat", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		handler.CreateChat(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk full")
	})
}

func TestChatHandler_DeleteChat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("DeleteChat", mock.Anything, "c1").Return(nil).Once()
		expectBroadcast(bus, syncbus.ChatDeleted, syncbus.ChatData("c1"))

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/chats/c1", nil), map[string]string{"chatID": "c1"})
		rr := httptest.NewRecorder()
		handler.DeleteChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Several", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("DeleteChats", mock.Anything, []string{"a", "b"}).Return(nil).Once()
		expectBroadcast(bus, syncbus.ChatDeleted, syncbus.ChatData("a"))
		expectBroadcast(bus, syncbus.ChatDeleted, syncbus.ChatData("b"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/delete", strings.NewReader(`{"ids":["a","b"]}`))
		rr := httptest.NewRecorder()
		handler.DeleteChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Several requires ids", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/delete", strings.NewReader(`{"ids":[]}`))
		rr := httptest.NewRecorder()
		handler.DeleteChats(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "field 'ids' failed on the 'min' rule")
	})

	t.Run("Clear all announces each chat", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("GetChats").Return([]*model.Chat{{ID: "a"}, {ID: "b"}}).Once()
		chats.On("ClearAllChats", mock.Anything).Return(nil).Once()
		expectBroadcast(bus, syncbus.ChatDeleted, syncbus.ChatData("a"))
		expectBroadcast(bus, syncbus.ChatDeleted, syncbus.ChatData("b"))

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/chats", nil)
		rr := httptest.NewRecorder()
		handler.ClearAllChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestChatHandler_SelectChat(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("LoadChat", mock.Anything, "c1").Return(&model.Chat{ID: "c1"}, nil).Once()
		expectBroadcast(bus, syncbus.SettingsChanged, mock.Anything)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/chats/current", strings.NewReader(`{"chatId":"c1"}`))
		rr := httptest.NewRecorder()
		handler.SelectChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got api.CurrentChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "c1", got.Chat.ID)
	})

	t.Run("Clear", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("ClearCurrentChat", mock.Anything).Return(nil).Once()
		expectBroadcast(bus, syncbus.SettingsChanged, mock.Anything)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/chats/current", strings.NewReader(`{"chatId":""}`))
		rr := httptest.NewRecorder()
		handler.SelectChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"chat":null}`, rr.Body.String())
	})

	t.Run("Unknown chat", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("LoadChat", mock.Anything, "gone").Return(nil, app_errors.ErrChatNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/chats/current", strings.NewReader(`{"chatId":"gone"}`))
		rr := httptest.NewRecorder()
		handler.SelectChat(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_ChatUpdates(t *testing.T) {
	updated := &model.Chat{ID: "c1", Title: "Renamed", Pinned: true}

	tests := []struct {
		name   string
		body   string
		expect func(chats *mocks.MockChatManager)
		call   func(h *api.ChatHandler) http.HandlerFunc
	}{
		{
			name:   "Pin",
			expect: func(chats *mocks.MockChatManager) { chats.On("TogglePin", mock.Anything, "c1").Return(nil).Once() },
			call:   func(h *api.ChatHandler) http.HandlerFunc { return h.TogglePin },
		},
		{
			name:   "Archive",
			expect: func(chats *mocks.MockChatManager) { chats.On("ToggleArchive", mock.Anything, "c1").Return(nil).Once() },
			call:   func(h *api.ChatHandler) http.HandlerFunc { return h.ToggleArchive },
		},
		{
			name:   "Clear messages",
			expect: func(chats *mocks.MockChatManager) { chats.On("ClearChatMessages", mock.Anything, "c1").Return(nil).Once() },
			call:   func(h *api.ChatHandler) http.HandlerFunc { return h.ClearMessages },
		},
		{
			name: "Title is trimmed",
			body: `{"title":"  Renamed  "}`,
			expect: func(chats *mocks.MockChatManager) {
				chats.On("UpdateChatTitle", mock.Anything, "c1", "Renamed").Return(nil).Once()
			},
			call: func(h *api.ChatHandler) http.HandlerFunc { return h.UpdateChatTitle },
		},
		{
			name: "Provider",
			body: `{"providerId":"p1","modelId":"m1"}`,
			expect: func(chats *mocks.MockChatManager) {
				chats.On("UpdateChatProvider", mock.Anything, "c1", "p1", "m1").Return(nil).Once()
			},
			call: func(h *api.ChatHandler) http.HandlerFunc { return h.UpdateChatProvider },
		},
		{
			name: "Unassign project",
			body: `{"projectId":null}`,
			expect: func(chats *mocks.MockChatManager) {
				chats.On("MoveChatToProject", mock.Anything, "c1", (*string)(nil)).Return(nil).Once()
			},
			call: func(h *api.ChatHandler) http.HandlerFunc { return h.MoveChat },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, chats, bus := setupChatHandler(t)
			tt.expect(chats)
			chats.On("GetChat", "c1").Return(updated).Once()
			expectBroadcast(bus, syncbus.ChatUpdated, syncbus.ChatData("c1"))

			req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/chats/c1", strings.NewReader(tt.body)), map[string]string{"chatID": "c1"})
			rr := httptest.NewRecorder()
			tt.call(handler)(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			var got model.Chat
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, "Renamed", got.Title)
		})
	}

	t.Run("Missing chat is a 404 without broadcast", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("TogglePin", mock.Anything, "gone").Return(nil).Once()
		chats.On("GetChat", "gone").Return(nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/chats/gone/pin", nil), map[string]string{"chatID": "gone"})
		rr := httptest.NewRecorder()
		handler.TogglePin(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Empty title is rejected", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := addChiURLParams(httptest.NewRequest(http.MethodPut, "/api/v1/chats/c1/title", strings.NewReader(`{"title":""}`)), map[string]string{"chatID": "c1"})
		rr := httptest.NewRecorder()
		handler.UpdateChatTitle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "field 'title' failed on the 'required' rule")
	})

	t.Run("Bad JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := addChiURLParams(httptest.NewRequest(http.MethodPut, "/api/v1/chats/c1/title", strings.NewReader(`{"title":`)), map[string]string{"chatID": "c1"})
		rr := httptest.NewRecorder()
		handler.UpdateChatTitle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_Messages(t *testing.T) {
	params := map[string]string{"chatID": "c1", "messageID": "m1"}

	t.Run("Add", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("AddMessage", mock.Anything, "c1", mock.MatchedBy(func(cfg model.MessageConfig) bool {
			return cfg.Role == model.RoleUser && cfg.Content == "hi"
		})).Return(&model.Message{ID: "m1", Role: model.RoleUser, Content: "hi"}, nil).Once()
		expectBroadcast(bus, syncbus.MessageAdded, syncbus.ChatData("c1"))

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/chats/c1/messages", strings.NewReader(`{"role":"user","content":"hi"}`)), params)
		rr := httptest.NewRecorder()
		handler.AddMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Add to missing chat", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("AddMessage", mock.Anything, "c1", mock.Anything).Return(nil, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/chats/c1/messages", strings.NewReader(`{"role":"user","content":"hi"}`)), params)
		rr := httptest.NewRecorder()
		handler.AddMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Add rejects unknown role", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := addChiURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/chats/c1/messages", strings.NewReader(`{"role":"robot","content":"hi"}`)), params)
		rr := httptest.NewRecorder()
		handler.AddMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Edit", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("EditMessage", mock.Anything, "c1", "m1", "fixed").
			Return(&model.Message{ID: "m1", Content: "fixed", IsEdited: true}, nil).Once()
		expectBroadcast(bus, syncbus.ChatUpdated, syncbus.ChatData("c1"))

		req := addChiURLParams(httptest.NewRequest(http.MethodPut, "/api/v1/chats/c1/messages/m1", strings.NewReader(`{"content":"fixed"}`)), params)
		rr := httptest.NewRecorder()
		handler.EditMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"isEdited":true`)
	})

	t.Run("Edit missing message", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("EditMessage", mock.Anything, "c1", "m1", "fixed").Return(nil, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodPut, "/api/v1/chats/c1/messages/m1", strings.NewReader(`{"content":"fixed"}`)), params)
		rr := httptest.NewRecorder()
		handler.EditMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("DeleteMessage", mock.Anything, "c1", "m1").Return(true, nil).Once()
		expectBroadcast(bus, syncbus.ChatUpdated, syncbus.ChatData("c1"))

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/chats/c1/messages/m1", nil), params)
		rr := httptest.NewRecorder()
		handler.DeleteMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Delete missing message", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("DeleteMessage", mock.Anything, "c1", "m1").Return(false, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/chats/c1/messages/m1", nil), params)
		rr := httptest.NewRecorder()
		handler.DeleteMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_Send(t *testing.T) {
	user := &model.Message{ID: "u1", Role: model.RoleUser, Content: "hello"}

	t.Run("Success announces both messages", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		reply := &model.Message{ID: "a1", Role: model.RoleAssistant, Content: "hi there"}
		chats.On("SendMessage", mock.Anything, "hello", "p1", "").
			Return(&service.Exchange{ChatID: "c1", User: user, Reply: reply}, nil).Once()
		bus.On("Broadcast", mock.Anything, syncbus.MessageAdded, syncbus.ChatData("c1")).Return(syncbus.Event{}).Twice()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/send", strings.NewReader(`{"content":"hello","providerId":"p1"}`))
		rr := httptest.NewRecorder()
		handler.Send(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got service.Exchange
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "hi there", got.Reply.Content)
	})

	t.Run("Provider error keeps the user message", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("SendMessage", mock.Anything, "hello", "", "").
			Return(&service.Exchange{ChatID: "c1", User: user}, &llm.APIError{StatusCode: 401, Body: "bad key"}).Once()
		expectBroadcast(bus, syncbus.MessageAdded, syncbus.ChatData("c1"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/send", strings.NewReader(`{"content":"hello"}`))
		rr := httptest.NewRecorder()
		handler.Send(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, "AI Provider Error (401): bad key", decodeError(t, rr))
	})

	errs := []struct {
		err    error
		status int
		msg    string
	}{
		{app_errors.ErrNoActiveChat, http.StatusBadRequest, "No active chat"},
		{app_errors.ErrNoProviderConfigured, http.StatusBadRequest, "No AI provider configured"},
		{app_errors.ErrProviderNotFound, http.StatusNotFound, "Provider not found"},
		{&app_errors.ProviderDisabledError{Name: "Groq"}, http.StatusConflict, "Provider Groq is disabled"},
	}
	for _, tt := range errs {
		t.Run(tt.msg, func(t *testing.T) {
			handler, chats, _ := setupChatHandler(t)
			chats.On("SendMessage", mock.Anything, "hello", "", "").
				Return(nil, fmt.Errorf("send: %w", tt.err)).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/send", strings.NewReader(`{"content":"hello"}`))
			rr := httptest.NewRecorder()
			handler.Send(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, decodeError(t, rr), tt.msg)
		})
	}

	t.Run("Empty content", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/send", strings.NewReader(`{"content":""}`))
		rr := httptest.NewRecorder()
		handler.Send(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_Project(t *testing.T) {
	t.Run("Enter", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("SetCurrentProject", mock.Anything, "p1").Return(nil).Once()
		expectBroadcast(bus, syncbus.SettingsChanged, mock.Anything)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/project", strings.NewReader(`{"projectId":"p1"}`))
		rr := httptest.NewRecorder()
		handler.SelectProject(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Exit", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("ExitProject", mock.Anything).Return(nil).Once()
		expectBroadcast(bus, syncbus.SettingsChanged, mock.Anything)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/project", strings.NewReader(`{"projectId":""}`))
		rr := httptest.NewRecorder()
		handler.SelectProject(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Get", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("CurrentProjectID").Return("p1").Once()

		rr := httptest.NewRecorder()
		handler.GetProject(rr, httptest.NewRequest(http.MethodGet, "/api/v1/project", nil))

		assert.JSONEq(t, `{"projectId":"p1"}`, rr.Body.String())
	})
}

func TestChatHandler_ExportImport(t *testing.T) {
	t.Run("Export one", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("ExportChat", "c1").Return(&model.ChatExport{Title: "Plans"}, nil).Once()

		req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/chats/c1/export", nil), map[string]string{"chatID": "c1"})
		rr := httptest.NewRecorder()
		handler.ExportChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"title":"Plans"`)
	})

	t.Run("Export all", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("ExportAllChats", mock.Anything).Return([]*model.Chat{{ID: "c1"}}, nil).Once()

		rr := httptest.NewRecorder()
		handler.ExportAllChats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/export", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Import reloads peers", func(t *testing.T) {
		handler, chats, bus := setupChatHandler(t)
		chats.On("ImportChats", mock.Anything, mock.MatchedBy(func(in []*model.Chat) bool {
			return len(in) == 1 && in[0].ID == "x" && in[0].Title == "Imported"
		})).Return([]*model.Chat{{ID: "x"}}, nil).Once()
		expectBroadcast(bus, syncbus.ChatUpdated, mock.Anything)

		body := `[{"id":"x","title":"Imported","messages":[]}]`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ImportChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Import rejects non-array", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(`{"id":"x"}`))
		rr := httptest.NewRecorder()
		handler.ImportChats(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Stats", func(t *testing.T) {
		handler, chats, _ := setupChatHandler(t)
		chats.On("GetStats", mock.Anything).Return(&repository.ChatStats{Total: 3, Pinned: 1}, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total":3`)
	})
}
