package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/services"
	"github.com/kidzstudio/examportal/internal/table"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/response"
)

// MenuItemHandler exposes the admin endpoints for a menu's items.
type MenuItemHandler struct {
	svc *services.MenuService
}

// NewMenuItemHandler constructs an item handler.
func NewMenuItemHandler(svc *services.MenuService) *MenuItemHandler {
	return &MenuItemHandler{svc: svc}
}

// List returns the item table: `q`, `kind` and `status` filter the rows,
// `sort` and `dir` order them.
func (h *MenuItemHandler) List(c *gin.Context) {
	direction, err := table.ParseDirection(c.Query("dir"))
	if err != nil {
		response.Error(c, errors.NewBadRequest(err.Error()))
		return
	}

	query := services.ItemQuery{
		Search: strings.TrimSpace(c.Query("q")),
		Kind:   c.Query("kind"),
		Status: c.Query("status"),
	}
	if column := strings.ToLower(strings.TrimSpace(c.Query("sort"))); column != "" {
		query.Sort = table.SortState{Column: column, Direction: direction}
	}

	result, err := h.svc.ItemTable(requestContext(c), c.Param("slug"), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result, &response.Meta{
		Total:     result.Total,
		Sort:      result.Sort.Column,
		Direction: string(result.Sort.Direction),
	})
}

// Get returns a single stored item.
func (h *MenuItemHandler) Get(c *gin.Context) {
	dto, err := h.svc.Item(requestContext(c), c.Param("slug"), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Create adds an item to a menu.
func (h *MenuItemHandler) Create(c *gin.Context) {
	var payload createItemPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.svc.CreateItem(requestContext(c), c.Param("slug"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Update changes an item; omitted fields are left as they are.
func (h *MenuItemHandler) Update(c *gin.Context) {
	var payload updateItemPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.svc.UpdateItem(requestContext(c), c.Param("slug"), c.Param("key"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Delete removes an item. Its children move up to the item's parent.
func (h *MenuItemHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteItem(requestContext(c), c.Param("slug"), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type createItemPayload struct {
	Key      string         `json:"key" validate:"required,max=64"`
	Title    string         `json:"title" validate:"required,max=120"`
	URL      string         `json:"url" validate:"omitempty,max=2048,menu_link"`
	Kind     string         `json:"kind"`
	Parent   string         `json:"parent"`
	Order    int            `json:"order" validate:"gte=0"`
	Icon     string         `json:"icon" validate:"max=64"`
	Visible  *bool          `json:"visible"`
	Status   string         `json:"status"`
	Target   string         `json:"target"`
	Metadata map[string]any `json:"metadata"`
}

func (p createItemPayload) toInput() services.MenuItemInput {
	return services.MenuItemInput{
		Key:       p.Key,
		Title:     p.Title,
		URL:       p.URL,
		Kind:      p.Kind,
		ParentKey: p.Parent,
		Order:     p.Order,
		Icon:      p.Icon,
		Visible:   p.Visible,
		Status:    p.Status,
		Target:    p.Target,
		Metadata:  p.Metadata,
	}
}

type updateItemPayload struct {
	Title    *string        `json:"title" validate:"omitempty,max=120"`
	URL      *string        `json:"url" validate:"omitempty,max=2048,menu_link"`
	Kind     *string        `json:"kind"`
	Parent   *string        `json:"parent"`
	Order    *int           `json:"order" validate:"omitempty,gte=0"`
	Icon     *string        `json:"icon" validate:"omitempty,max=64"`
	Visible  *bool          `json:"visible"`
	Status   *string        `json:"status"`
	Target   *string        `json:"target"`
	Metadata map[string]any `json:"metadata"`
}

func (p updateItemPayload) toInput() services.MenuItemUpdateInput {
	return services.MenuItemUpdateInput{
		Title:     p.Title,
		URL:       p.URL,
		Kind:      p.Kind,
		ParentKey: p.Parent,
		Order:     p.Order,
		Icon:      p.Icon,
		Visible:   p.Visible,
		Status:    p.Status,
		Target:    p.Target,
		Metadata:  p.Metadata,
	}
}
