package realtime

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	defaultBufferSize = 64
)

// Message represents a JSON payload delivered to realtime subscribers.
type Message struct {
	Stream string         `json:"stream"`
	Event  string         `json:"event"`
	Data   any            `json:"data,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type controlMessage struct {
	Action  string   `json:"action"`
	Streams []string `json:"streams"`
}

// Hub fans out stream messages to connected websocket clients.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*connection]struct{}
	clients       map[*connection]struct{}
	upgrader      websocket.Upgrader
	origins       map[string]struct{}
	log           *zap.Logger
}

// HubOption customises a Hub.
type HubOption func(*Hub)

// WithAllowedOrigins accepts websocket handshakes from the listed origin
// hosts in addition to same-origin and loopback requests.
func WithAllowedOrigins(origins ...string) HubOption {
	return func(h *Hub) {
		for _, origin := range origins {
			if host := hostWithoutPort(origin); host != "" {
				h.origins[strings.ToLower(host)] = struct{}{}
			}
		}
	}
}

// NewHub constructs a realtime hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscriptions: make(map[string]map[*connection]struct{}),
		clients:       make(map[*connection]struct{}),
		origins:       make(map[string]struct{}),
		log:           logger.WithModule("realtime"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originHost := hostWithoutPort(origin)
	if originHost == hostWithoutPort(r.Host) || isLoopback(originHost) {
		return true
	}
	_, ok := h.origins[strings.ToLower(originHost)]
	return ok
}

// Serve upgrades the HTTP connection to a WebSocket and subscribes the client
// to streams. The allowed set can be nil to permit every stream. Serve blocks
// until the client disconnects.
func (h *Hub) Serve(clientID string, streams []string, allowed map[string]struct{}, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	client := newConnection(h, conn, clientID, allowed)
	h.register(client)
	h.subscribe(client, streams)

	go client.writeLoop()
	client.readLoop()
}

// Publish delivers an event to every subscriber of stream.
func (h *Hub) Publish(stream, event string, data any) {
	h.BroadcastStream(stream, Message{Event: event, Data: data})
}

// BroadcastStream delivers a message to every subscriber listening on the provided stream.
func (h *Hub) BroadcastStream(stream string, message Message) {
	stream = normalizeStream(stream)
	if stream == "" {
		return
	}

	h.mu.RLock()
	targets := make([]*connection, 0, len(h.subscriptions[stream]))
	for client := range h.subscriptions[stream] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	message.Stream = stream
	monitoring.RecordRealtimeBroadcast(stream)
	for _, client := range targets {
		h.enqueue(client, message)
	}
}

// Subscribers returns the number of clients listening on stream.
func (h *Hub) Subscribers(stream string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[normalizeStream(stream)])
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(client *connection) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	monitoring.RecordRealtimeConnection(1)
}

func (h *Hub) subscribe(client *connection, streams []string) {
	if len(streams) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, stream := range uniqueStreams(streams) {
		if !client.isAllowed(stream) {
			h.log.Debug("ignoring unauthorized stream", zap.String("stream", stream), zap.String("client", client.id))
			continue
		}
		if _, exists := client.streams[stream]; exists {
			continue
		}
		if h.subscriptions[stream] == nil {
			h.subscriptions[stream] = make(map[*connection]struct{})
		}

		client.streams[stream] = struct{}{}
		h.subscriptions[stream][client] = struct{}{}
	}
}

func (h *Hub) unsubscribe(client *connection, streams []string) {
	if len(streams) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, stream := range uniqueStreams(streams) {
		h.removeSubscriptionLocked(client, stream)
	}
}

func (h *Hub) unregister(client *connection) {
	h.mu.Lock()
	for stream := range client.streams {
		h.removeSubscriptionLocked(client, stream)
	}
	_, known := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if known {
		monitoring.RecordRealtimeConnection(-1)
	}
}

func (h *Hub) removeSubscriptionLocked(client *connection, stream string) {
	clients, ok := h.subscriptions[stream]
	if !ok {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.subscriptions, stream)
	}
	delete(client.streams, stream)
}

func (h *Hub) enqueue(client *connection, message Message) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.closed {
		return
	}

	select {
	case client.send <- message:
	default:
		h.log.Warn("dropping slow client", zap.String("client", client.id))
		monitoring.RecordRealtimeFailure(message.Stream, "backpressure", "client "+client.id+" dropped")
		go client.close()
	}
}

type connection struct {
	hub     *Hub
	socket  *websocket.Conn
	id      string
	streams map[string]struct{}
	send    chan Message
	allowed map[string]struct{}

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func newConnection(hub *Hub, conn *websocket.Conn, id string, allowed map[string]struct{}) *connection {
	return &connection{
		hub:     hub,
		socket:  conn,
		id:      id,
		streams: make(map[string]struct{}),
		send:    make(chan Message, defaultBufferSize),
		allowed: allowed,
	}
}

func (c *connection) readLoop() {
	defer c.close()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("unexpected close", zap.String("client", c.id), zap.Error(err))
			}
			break
		}

		if len(payload) == 0 {
			continue
		}

		var ctrl controlMessage
		if err := json.Unmarshal(payload, &ctrl); err != nil {
			c.hub.log.Debug("invalid control payload", zap.String("client", c.id), zap.Error(err))
			continue
		}

		switch strings.ToLower(strings.TrimSpace(ctrl.Action)) {
		case "subscribe":
			c.hub.subscribe(c, ctrl.Streams)
		case "unsubscribe":
			c.hub.unsubscribe(c, ctrl.Streams)
		case "ping":
			c.hub.enqueue(c, Message{Event: "pong"})
		default:
			c.hub.log.Debug("unsupported control action", zap.String("action", ctrl.Action), zap.String("client", c.id))
		}
	}
}

func (c *connection) writeLoop() {
	defer c.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		_ = c.socket.Close()
	})
}

func (c *connection) isAllowed(stream string) bool {
	if len(c.allowed) == 0 {
		return true
	}
	_, ok := c.allowed[stream]
	return ok
}

func hostWithoutPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		parsed, err := http.NewRequest(http.MethodGet, host, nil)
		if err == nil {
			return hostWithoutPort(parsed.URL.Host)
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}

func normalizeStream(stream string) string {
	return strings.ToLower(strings.TrimSpace(stream))
}

// NormalizeStreams lower-cases, trims and de-duplicates stream names.
func NormalizeStreams(streams []string) []string {
	return uniqueStreams(streams)
}

func uniqueStreams(streams []string) []string {
	unique := make(map[string]struct{}, len(streams))
	var result []string
	for _, stream := range streams {
		if stream = normalizeStream(stream); stream != "" {
			if _, exists := unique[stream]; !exists {
				unique[stream] = struct{}{}
				result = append(result, stream)
			}
		}
	}
	return result
}
