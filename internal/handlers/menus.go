package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/services"
	"github.com/kidzstudio/examportal/internal/table"
	"github.com/kidzstudio/examportal/pkg/response"
)

// MenuHandler exposes HTTP endpoints for managing menus.
type MenuHandler struct {
	svc *services.MenuService
}

// NewMenuHandler constructs a menu handler.
func NewMenuHandler(svc *services.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

type menuListPayload struct {
	Menus   []services.MenuDTO `json:"menus"`
	Filters table.Panel        `json:"filters"`
}

// List returns the menus matching the optional `q` search together with the
// filter bar the list page renders.
func (h *MenuHandler) List(c *gin.Context) {
	menus, err := h.svc.MenuTable(requestContext(c), strings.TrimSpace(c.Query("q")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, menuListPayload{
		Menus:   menus,
		Filters: table.Panel{FilterPanel: services.MenuFilterPanel()},
	}, &response.Meta{Total: len(menus)})
}

// Get returns a single menu.
func (h *MenuHandler) Get(c *gin.Context) {
	dto, err := h.svc.Get(requestContext(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Create registers a new, empty menu.
func (h *MenuHandler) Create(c *gin.Context) {
	var payload createMenuPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.svc.Create(requestContext(c), services.MenuInput{
		Slug:        payload.Slug,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Update renames a menu or changes its description.
func (h *MenuHandler) Update(c *gin.Context) {
	var payload updateMenuPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.svc.Update(requestContext(c), c.Param("slug"), services.MenuUpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Delete removes a menu and its items.
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type createMenuPayload struct {
	Slug        string `json:"slug" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=512"`
}

type updateMenuPayload struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}
