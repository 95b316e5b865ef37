//go:build integration
// +build integration

package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/x-batch-go/internal/domain"
)

func dialProgress(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(env.server.URL, "http://", "ws://", 1) + "/api/v1/batches/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestProgressWebSocket_SendsSnapshotOnConnect(t *testing.T) {
	env := setupTestServer(t)
	conn := dialProgress(t, env)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snapshot domain.Progress
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, 0, snapshot.Current)
	assert.Equal(t, 0, snapshot.Total)
}

func TestProgressWebSocket_StreamsBatchProgress(t *testing.T) {
	env := setupTestServer(t)
	conn := dialProgress(t, env)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// Drain the initial snapshot
	var snapshot domain.Progress
	require.NoError(t, conn.ReadJSON(&snapshot))

	items := []domain.MediaItem{
		{URL: env.media.URL + "/a?format=jpg", TweetID: 1, Kind: domain.KindPhoto},
		{URL: env.media.URL + "/b?format=jpg", TweetID: 2, Kind: domain.KindPhoto},
		{URL: env.media.URL + "/c?format=jpg", TweetID: 3, Kind: domain.KindPhoto},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp := postJSON(t, env.server.URL+"/api/v1/batches", map[string]interface{}{
			"items":    items,
			"username": "someuser",
		})
		resp.Body.Close()
	}()

	var events []domain.Progress
	for len(events) < 3 {
		var p domain.Progress
		require.NoError(t, conn.ReadJSON(&p))
		if p.Total == 0 {
			continue
		}
		events = append(events, p)
	}
	<-done

	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Current, events[i-1].Current)
	}
	assert.Equal(t, 100, events[len(events)-1].Percent)
}
