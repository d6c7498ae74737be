package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, streams ...string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve("client", streams, map[string]struct{}{StreamMenus: {}}, w, r)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool {
		return hub.Subscribers(StreamMenus) > 0 || len(streams) == 0
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestHubPublishDeliversToSubscribers(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamMenus)

	hub.Publish(StreamMenus, EventMenuUpdated, MenuChange{Slug: "portal"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, StreamMenus, msg.Stream)
	require.Equal(t, EventMenuUpdated, msg.Event)
	require.Equal(t, map[string]any{"slug": "portal"}, msg.Data)
}

func TestHubIgnoresDisallowedStreams(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamMenus, "secrets")

	require.Equal(t, 1, hub.Subscribers(StreamMenus))
	require.Equal(t, 0, hub.Subscribers("secrets"))
	require.Equal(t, 1, hub.Clients())

	require.NoError(t, conn.WriteJSON(controlMessage{Action: "unsubscribe", Streams: []string{"MENUS"}}))
	require.Eventually(t, func() bool {
		return hub.Subscribers(StreamMenus) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubPingControlMessage(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamMenus)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "pong", msg.Event)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, StreamMenus)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Clients() == 0 && hub.Subscribers(StreamMenus) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNormalizeStreams(t *testing.T) {
	require.Equal(t, []string{"menus", "other"}, NormalizeStreams([]string{" Menus ", "menus", "", "OTHER"}))
}

func TestHostHelpers(t *testing.T) {
	require.Equal(t, "example.com", hostWithoutPort("https://example.com:8443"))
	require.Equal(t, "example.com", hostWithoutPort("example.com:80"))
	require.True(t, isLoopback("127.0.0.1"))
	require.True(t, isLoopback("localhost"))
	require.False(t, isLoopback("example.com"))
}

func TestHubCheckOrigin(t *testing.T) {
	hub := NewHub(WithAllowedOrigins("https://portal.example.com"))

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/api/realtime", nil)
	require.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://api.example.com")
	require.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://portal.example.com:8443")
	require.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:5173")
	require.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example.net")
	require.False(t, hub.checkOrigin(req))
}
