package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// SubjectHandler wires the materia screen.
type SubjectHandler struct {
	subjects *service.SubjectService
	exports  *service.ExportService
}

// NewSubjectHandler constructs a SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, exports *service.ExportService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, exports: exports}
}

// List returns all subjects.
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjects.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// Create adds a subject and responds with the refreshed list.
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	subjects, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subjects)
}

// Update renames a subject and responds with the refreshed list.
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	subjects, err := h.subjects.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// Delete removes a subject and responds with the refreshed list.
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.subjects.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// Export streams the subject list as pdf, xlsx or csv.
func (h *SubjectHandler) Export(c *gin.Context) {
	doc, err := h.exports.Subjects(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}
