package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/handlers"
	"github.com/kidzstudio/examportal/internal/realtime"
)

func registerRealtimeRoutes(api *gin.RouterGroup, deps Dependencies) {
	if deps.Hub == nil {
		return
	}

	handler := handlers.NewRealtimeHandler(deps.Hub, deps.JWT, realtime.StreamMenus)
	api.GET("/realtime", handler.Stream)
	api.GET("/realtime/:stream", handler.Stream)
}
