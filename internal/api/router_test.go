package api_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aiteam-manager/internal/api"
	"aiteam-manager/internal/interfaces/mocks"
	"aiteam-manager/internal/model"
)

type testRouter struct {
	chats     *mocks.MockChatManager
	providers *mocks.MockProviderService
	bus       *mocks.MockBroadcaster
	notifier  *api.Notifier
	server    *httptest.Server
}

func newTestRouter(t *testing.T) *testRouter {
	tr := &testRouter{
		chats:     mocks.NewMockChatManager(t),
		providers: mocks.NewMockProviderService(t),
		bus:       mocks.NewMockBroadcaster(t),
		notifier:  api.NewNotifier(),
	}
	router := api.NewRouter(api.Handlers{
		Chats:     api.NewChatHandler(tr.chats, tr.bus),
		Providers: api.NewProviderHandler(tr.providers, tr.bus),
		View:      api.NewViewHandler(tr.notifier, tr.bus),
		Notifier:  tr.notifier,
	}, time.Minute)
	tr.server = httptest.NewServer(router)
	t.Cleanup(tr.server.Close)
	return tr
}

func (tr *testRouter) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, tr.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_Healthz(t *testing.T) {
	tr := newTestRouter(t)
	resp := tr.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Routes(t *testing.T) {
	tr := newTestRouter(t)
	tr.chats.On("GetChats").Return([]*model.Chat{}).Once()
	tr.chats.On("GetCurrentChat").Return(nil).Once()
	tr.chats.On("GetChat", "c1").Return(&model.Chat{ID: "c1"}).Once()
	tr.providers.On("Templates").Return(nil).Once()
	tr.providers.On("ActiveID", mock.Anything).Return("", nil).Once()

	for _, path := range []string{
		"/api/v1/chats",
		"/api/v1/chats/current",
		"/api/v1/chats/c1",
		"/api/v1/providers/templates",
		"/api/v1/providers/active",
	} {
		resp := tr.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp := tr.do(t, http.MethodGet, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ViewState(t *testing.T) {
	tr := newTestRouter(t)
	tr.bus.On("SetVisible", mock.Anything, true).Once()

	resp := tr.do(t, http.MethodPut, "/api/v1/view", `{"visible":true,"settingsActive":true}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, tr.notifier.SettingsActive())

	resp = tr.do(t, http.MethodPut, "/api/v1/view", `{"settingsActive":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, tr.notifier.SettingsActive())
}

func TestRouter_EventStream(t *testing.T) {
	tr := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tr.server.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The handler has flushed its headers; wait until it has subscribed.
	require.Eventually(t, func() bool { return tr.notifier.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	tr.notifier.RenderSidebar([]*model.Chat{{ID: "c1", Title: "Hello"}})
	tr.notifier.ShowWelcome()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return event, data
			}
		}
	}

	event, data := readEvent()
	assert.Equal(t, api.UpdateSidebar, event)
	assert.Contains(t, data, `"title":"Hello"`)

	event, _ = readEvent()
	assert.Equal(t, api.UpdateWelcome, event)

	cancel()
	require.Eventually(t, func() bool { return tr.notifier.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}
