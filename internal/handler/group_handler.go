package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// GroupHandler wires the grupo screen.
type GroupHandler struct {
	groups  *service.GroupService
	exports *service.ExportService
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups *service.GroupService, exports *service.ExportService) *GroupHandler {
	return &GroupHandler{groups: groups, exports: exports}
}

// List returns all groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

// Create adds a group and responds with the refreshed list.
func (h *GroupHandler) Create(c *gin.Context) {
	var req service.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid group payload"))
		return
	}
	groups, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, groups)
}

// Update renames a group and responds with the refreshed list.
func (h *GroupHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid group payload"))
		return
	}
	groups, err := h.groups.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

// Delete removes a group and responds with the refreshed list.
func (h *GroupHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	groups, err := h.groups.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

// Export streams the group list as pdf, xlsx or csv.
func (h *GroupHandler) Export(c *gin.Context) {
	doc, err := h.exports.Groups(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}
