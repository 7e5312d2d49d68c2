package server

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/craftboard/internal/store"
)

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestWebSocket_StreamsState(t *testing.T) {
	st := store.NewMemoryStore(testAddress)
	srv := newTestServer(st, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts.URL)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var initial store.State
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, store.PhaseUnloaded, initial.Phase)
	assert.True(t, initial.Loading)
	assert.Nil(t, initial.Snapshot)

	st.Set(loadedState("Alex", "Sam", "Jo"))

	var update store.State
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, store.PhaseLoaded, update.Phase)
	require.NotNil(t, update.Snapshot)
	assert.Equal(t, []string{"Alex", "Sam", "Jo"}, update.Snapshot.Players.List)
}

func TestWebSocket_ClientCount(t *testing.T) {
	st := store.NewMemoryStore(testAddress)
	srv := newTestServer(st, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts.URL)

	var initial store.State
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, 1, srv.WebSocketClients())
	assert.Equal(t, 1, st.Subscribers())

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return srv.WebSocketClients() == 0 && st.Subscribers() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocket_ServerShutdownClosesClient(t *testing.T) {
	st := store.NewMemoryStore(testAddress)
	srv := newTestServer(st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ts := httptest.NewUnstartedServer(srv.Handler())
	ts.Config.BaseContext = func(_ net.Listener) context.Context { return ctx }
	ts.Start()
	defer ts.Close()

	conn := dialWS(t, ts.URL)
	defer conn.Close()

	var initial store.State
	require.NoError(t, conn.ReadJSON(&initial))

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestWebSocket_RejectsPlainHTTP(t *testing.T) {
	srv := newTestServer(store.NewMemoryStore(testAddress), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 0, srv.WebSocketClients())
}
