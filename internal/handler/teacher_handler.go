package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// TeacherHandler exposes the read-only docente catalog.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List returns all teachers.
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}
