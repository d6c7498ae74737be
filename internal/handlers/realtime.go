package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/realtime"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/response"
)

// RealtimeHandler upgrades HTTP connections into WebSocket streams.
type RealtimeHandler struct {
	hub            *realtime.Hub
	jwt            *iauth.JWTService
	allowedStreams map[string]struct{}
}

// NewRealtimeHandler constructs a realtime handler and optionally restricts allowed streams.
// If no streams are provided, any stream name is accepted.
func NewRealtimeHandler(hub *realtime.Hub, jwt *iauth.JWTService, streams ...string) *RealtimeHandler {
	allowed := make(map[string]struct{}, len(streams))
	for _, stream := range realtime.NormalizeStreams(streams) {
		allowed[stream] = struct{}{}
	}

	return &RealtimeHandler{
		hub:            hub,
		jwt:            jwt,
		allowedStreams: allowed,
	}
}

// Stream subscribes the caller to the requested streams. Menu change streams
// are public; a token, when supplied, must be valid and names the client.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	clientID, ok := h.clientID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	streams := gatherStreams(c)
	if len(streams) == 0 {
		streams = []string{realtime.StreamMenus}
	}

	if len(h.allowedStreams) > 0 {
		for _, stream := range streams {
			if _, ok := h.allowedStreams[stream]; !ok {
				response.Error(c, errors.ErrNotFound)
				return
			}
		}
	}

	var allowed map[string]struct{}
	if len(h.allowedStreams) > 0 {
		allowed = h.allowedStreams
	}
	h.hub.Serve(clientID, streams, allowed, c.Writer, c.Request)
}

func (h *RealtimeHandler) clientID(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token = strings.TrimSpace(c.Query("access_token"))
	}
	if token == "" {
		authz := c.GetHeader("Authorization")
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			token = strings.TrimSpace(authz[7:])
		}
	}

	if token == "" {
		return "anonymous-" + uuid.NewString(), true
	}
	if h.jwt == nil {
		return "", false
	}

	claims, err := h.jwt.Validate(token)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func gatherStreams(c *gin.Context) []string {
	var streams []string

	if pathStream := c.Param("stream"); pathStream != "" {
		streams = append(streams, pathStream)
	}
	streams = append(streams, c.QueryArray("stream")...)
	if raw := c.Query("streams"); raw != "" {
		streams = append(streams, strings.Split(raw, ",")...)
	}

	return realtime.NormalizeStreams(streams)
}
