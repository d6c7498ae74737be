package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/render"
	"github.com/kidzstudio/examportal/internal/services"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/response"
)

// Navigation views served by Render.
const (
	ViewDesktop = "desktop"
	ViewMobile  = "mobile"
	ViewSidebar = "sidebar"
)

// NavigationHandler serves built trees and their rendered views.
type NavigationHandler struct {
	svc      *services.MenuService
	renderer *render.Renderer
	icons    *navigation.IconTable
}

// NewNavigationHandler constructs a navigation handler. A nil icon table uses
// the built-in icons.
func NewNavigationHandler(svc *services.MenuService, renderer *render.Renderer, icons *navigation.IconTable) *NavigationHandler {
	if icons == nil {
		icons = navigation.DefaultIconTable()
	}
	return &NavigationHandler{svc: svc, renderer: renderer, icons: icons}
}

// Tree returns the built forest and its warnings. `orphans` overrides the
// configured orphan policy for this request.
func (h *NavigationHandler) Tree(c *gin.Context) {
	opts, err := treeOptions(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tree, err := h.svc.Tree(requestContext(c), c.Param("slug"), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tree)
}

// Render returns one view of the menu. `path` marks the active link; `open`
// opens the mobile drawer (a boolean) or expands a sidebar group (a single
// group id; naming more than one is a 400).
// With `format=json` the view model is returned instead of HTML.
func (h *NavigationHandler) Render(c *gin.Context) {
	view := strings.ToLower(c.Param("view"))
	if view != ViewDesktop && view != ViewMobile && view != ViewSidebar {
		response.Error(c, errors.ErrNotFound.WithMessage(fmt.Sprintf("unknown view %q", view)))
		return
	}

	opts, err := treeOptions(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	tree, err := h.svc.Tree(requestContext(c), c.Param("slug"), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	path := c.Query("path")
	asJSON := strings.EqualFold(c.Query("format"), "json")

	var (
		body  []byte
		model any
	)
	switch view {
	case ViewDesktop:
		if asJSON {
			model = render.NewDesktop(tree.Roots, path, h.icons)
		} else {
			body, err = h.renderer.Desktop(tree.Roots, path)
		}
	case ViewMobile:
		open := parseBoolQuery(c, "open", false)
		if asJSON {
			drawer := render.NewMobile(tree.Roots, path, h.icons)
			drawer.Open = open
			model = drawer
		} else {
			body, err = h.renderer.Mobile(tree.Roots, path, open)
		}
	case ViewSidebar:
		var state navigation.GroupState
		if state, err = sidebarState(queryList(c, "open")); err != nil {
			response.Error(c, err)
			return
		}
		if asJSON {
			model = render.NewSidebar(tree.Roots, path, state, h.icons)
		} else {
			body, err = h.renderer.Sidebar(tree.Roots, path, state)
		}
	}
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	if asJSON {
		response.Success(c, http.StatusOK, model)
		return
	}
	response.Fragment(c, http.StatusOK, body)
}

// ToggleSidebar applies a group click to the posted sidebar state and returns
// the resulting sidebar. At most one group is expanded afterwards.
func (h *NavigationHandler) ToggleSidebar(c *gin.Context) {
	var payload toggleSidebarPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	tree, err := h.svc.Tree(requestContext(c), c.Param("slug"), services.TreeOptions{})
	if err != nil {
		response.Error(c, err)
		return
	}

	if !slices.Contains(render.GroupIDs(tree.Roots), payload.Group) {
		response.Error(c, errors.NewBadRequest(fmt.Sprintf("unknown sidebar group %q", payload.Group)))
		return
	}

	sidebar := render.NewSidebar(tree.Roots, payload.Path, navigation.GroupState(payload.State), h.icons).Toggle(payload.Group)
	open, _ := sidebar.State.Open()

	response.Success(c, http.StatusOK, gin.H{
		"state":   sidebar.State,
		"open":    open,
		"sidebar": sidebar,
	})
}

type iconPayload struct {
	Name  string           `json:"name"`
	Glyph navigation.Glyph `json:"glyph"`
}

// Icons lists every resolvable icon name with its glyph, plus the glyph
// drawn for unknown names.
func (h *NavigationHandler) Icons(c *gin.Context) {
	names := h.icons.Names()
	icons := make([]iconPayload, 0, len(names))
	for _, name := range names {
		glyph, _ := h.icons.Resolve(name)
		icons = append(icons, iconPayload{Name: name, Glyph: glyph})
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"icons":    icons,
		"fallback": h.icons.Fallback(),
	}, &response.Meta{Total: len(icons)})
}

type toggleSidebarPayload struct {
	State map[string]bool `json:"state"`
	Group string          `json:"group" validate:"required"`
	Path  string          `json:"path"`
}

func treeOptions(c *gin.Context) (services.TreeOptions, error) {
	raw := strings.TrimSpace(c.Query("orphans"))
	if raw == "" {
		return services.TreeOptions{}, nil
	}
	policy, err := navigation.ParseOrphanPolicy(raw)
	if err != nil {
		return services.TreeOptions{}, errors.NewBadRequest(err.Error())
	}
	return services.TreeOptions{Orphans: &policy}, nil
}

// sidebarState expands the requested group. A sidebar never has more than
// one open group, so naming two different groups is rejected.
func sidebarState(open []string) (navigation.GroupState, error) {
	state := navigation.GroupState{}
	for _, id := range open {
		if len(state) > 0 && !state[id] {
			return nil, errors.NewBadRequest(fmt.Sprintf("sidebar accepts one open group, got %q", strings.Join(open, ",")))
		}
		state[id] = true
	}
	return state, nil
}
