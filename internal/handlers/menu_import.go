package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/response"
)

const maxImportSize = 1 << 20

// Import replaces the menu's items with the posted definition. The body is a
// single menu document in YAML or JSON; its slug, when present, must match
// the path.
func (h *MenuHandler) Import(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		response.Error(c, errors.NewBadRequest("unable to read request body"))
		return
	}
	if len(data) > maxImportSize {
		response.Error(c, errors.NewBadRequest("menu definition is too large"))
		return
	}

	def, err := menufile.ParseMenu(data)
	if err != nil {
		response.Error(c, errors.NewBadRequest(err.Error()))
		return
	}
	if def.Slug != "" && !strings.EqualFold(strings.TrimSpace(def.Slug), slug) {
		response.Error(c, errors.NewBadRequest(fmt.Sprintf("definition slug %q does not match %q", def.Slug, slug)))
		return
	}
	def.Slug = slug

	dto, err := h.svc.Import(requestContext(c), def)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Export returns the menu definition. `format=yaml` streams a definition file
// that navctl and the seed loader accept.
func (h *MenuHandler) Export(c *gin.Context) {
	def, err := h.svc.Export(requestContext(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "yaml") {
		body, err := menufile.Marshal(&menufile.File{Menus: []menufile.Menu{*def}})
		if err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", def.Slug+".yaml"))
		c.Data(http.StatusOK, "application/yaml", body)
		return
	}

	response.Success(c, http.StatusOK, def)
}

