package mcsrvstat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL + "/2/")
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClient_FetchRequestShape(t *testing.T) {
	var gotPath, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"online": true}`))
	})

	_, err := c.Fetch(context.Background(), "play.example.net:25565")
	require.NoError(t, err)

	assert.Equal(t, "/2/play.example.net:25565", gotPath)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestClient_Snapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"online":true,"players":{"online":3,"max":20,"list":["Alex","Sam","Jo"]},"version":"1.20.1","motd":{"clean":["Welcome!"]}}`))
	})

	snap, err := c.Snapshot(context.Background(), "mc.example.com")
	require.NoError(t, err)

	assert.True(t, snap.Online)
	assert.Equal(t, 3, snap.Players.Online)
	assert.Equal(t, 20, snap.Players.Max)
	assert.Equal(t, []string{"Alex", "Sam", "Jo"}, snap.Players.List)
	assert.Equal(t, "1.20.1", snap.Version)
	assert.Equal(t, "Welcome!", snap.Description)
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind FailureKind
		wantCode int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantKind: FailureStatus,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"online": true}`))
			},
			wantKind: FailureStatus,
			wantCode: http.StatusTooManyRequests,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			},
			wantKind: FailureDecode,
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := c.Fetch(context.Background(), "mc.example.com")
			require.Error(t, err)

			var pe *PollError
			require.True(t, errors.As(err, &pe), "expected *PollError, got %T", err)
			assert.Equal(t, tt.wantKind, pe.Kind)
			assert.Equal(t, tt.wantCode, pe.StatusCode)
			assert.Equal(t, "mc.example.com", pe.Address)
		})
	}
}

func TestClient_FetchNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL + "/2/"
	ts.Close()

	c, err := NewClient(base)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "mc.example.com")

	var pe *PollError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FailureRequest, pe.Kind)
	assert.Zero(t, pe.StatusCode)
}

func TestClient_FetchEmptyAddress(t *testing.T) {
	c, err := NewClient("")
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "  ")

	var pe *PollError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FailureRequest, pe.Kind)
}

func TestClient_FetchHonorsContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, "mc.example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = NewClient("http://localhost:9999/2")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/2/", c.BaseURL())

	_, err = NewClient("ftp://example.com/")
	assert.Error(t, err)
}

func TestClient_CloseNil(t *testing.T) {
	var c *Client
	c.Close()
}
