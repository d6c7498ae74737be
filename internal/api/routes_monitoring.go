package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/handlers"
)

func registerMonitoringRoutes(admin *gin.RouterGroup, handler *handlers.MonitoringHandler) {
	if admin == nil || handler == nil {
		return
	}

	group := admin.Group("/monitoring")
	group.GET("/summary", handler.Summary)
	group.GET("/menus/:slug", handler.Menu)
}
