package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/handlers"
)

func registerMenuRoutes(public, admin *gin.RouterGroup, deps Dependencies) {
	menuHandler := handlers.NewMenuHandler(deps.Menus)
	itemHandler := handlers.NewMenuItemHandler(deps.Menus)
	navHandler := handlers.NewNavigationHandler(deps.Menus, deps.Renderer, deps.Icons)

	public.GET("/icons", navHandler.Icons)

	menus := public.Group("/menus")
	{
		menus.GET("", menuHandler.List)
		menus.GET("/:slug", menuHandler.Get)
		menus.GET("/:slug/tree", navHandler.Tree)
		menus.GET("/:slug/render/:view", navHandler.Render)
		menus.POST("/:slug/sidebar/toggle", navHandler.ToggleSidebar)
		menus.GET("/:slug/items", itemHandler.List)
		menus.GET("/:slug/items/:key", itemHandler.Get)
	}

	manage := admin.Group("/menus")
	{
		manage.POST("", menuHandler.Create)
		manage.PATCH("/:slug", menuHandler.Update)
		manage.DELETE("/:slug", menuHandler.Delete)
		manage.PUT("/:slug/import", menuHandler.Import)
		manage.GET("/:slug/export", menuHandler.Export)
		manage.POST("/:slug/items", itemHandler.Create)
		manage.PATCH("/:slug/items/:key", itemHandler.Update)
		manage.DELETE("/:slug/items/:key", itemHandler.Delete)
	}
}
