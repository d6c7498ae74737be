package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS lets browser clients on other origins read navigation data. With no
// allowed origins every origin may read; otherwise only listed origins are
// echoed back and other origins get no CORS headers at all.
func CORS(allowed ...string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins[strings.ToLower(origin)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(origins) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "":
			c.Header("Vary", "Origin")
			if _, ok := origins[strings.ToLower(origin)]; !ok {
				break
			}
			c.Header("Access-Control-Allow-Origin", origin)
		}

		if c.Writer.Header().Get("Access-Control-Allow-Origin") != "" {
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Expose-Headers", "Content-Disposition")
			c.Header("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
