package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// ScheduleHandler wires the timetable screen: the denormalized rows
// plus entry/assignment mutations.
type ScheduleHandler struct {
	schedule *service.ScheduleService
	exports  *service.ExportService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, exports: exports}
}

// List returns the display rows.
func (h *ScheduleHandler) List(c *gin.Context) {
	rows, err := h.schedule.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Get returns one entry with its reconstructed form values.
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.schedule.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Create inserts an entry plus its teacher links and responds with the
// refreshed rows.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	rows, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rows)
}

// Update rewrites an entry and its teacher links and responds with the
// refreshed rows.
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	rows, err := h.schedule.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Delete removes an entry with its teacher links and responds with the
// refreshed rows.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.schedule.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Export streams the timetable as pdf, xlsx or csv.
func (h *ScheduleHandler) Export(c *gin.Context) {
	doc, err := h.exports.Schedule(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}
