package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// ClassroomHandler wires the aula screen.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	exports    *service.ExportService
}

// NewClassroomHandler constructs a ClassroomHandler.
func NewClassroomHandler(classrooms *service.ClassroomService, exports *service.ExportService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, exports: exports}
}

// List returns all classrooms.
func (h *ClassroomHandler) List(c *gin.Context) {
	rooms, err := h.classrooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// Create adds a classroom and responds with the refreshed list.
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classroom payload"))
		return
	}
	rooms, err := h.classrooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rooms)
}

// Update modifies a classroom and responds with the refreshed list.
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classroom payload"))
		return
	}
	rooms, err := h.classrooms.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// Delete removes a classroom and responds with the refreshed list.
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rooms, err := h.classrooms.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// Export streams the classroom list as pdf, xlsx or csv.
func (h *ClassroomHandler) Export(c *gin.Context) {
	doc, err := h.exports.Classrooms(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}
