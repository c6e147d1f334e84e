package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// TimeSlotHandler wires the horario screen.
type TimeSlotHandler struct {
	slots   *service.TimeSlotService
	exports *service.ExportService
}

// NewTimeSlotHandler constructs a TimeSlotHandler.
func NewTimeSlotHandler(slots *service.TimeSlotService, exports *service.ExportService) *TimeSlotHandler {
	return &TimeSlotHandler{slots: slots, exports: exports}
}

// List returns all time slots.
func (h *TimeSlotHandler) List(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Create adds a time slot and responds with the refreshed list.
func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req service.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time slot payload"))
		return
	}
	slots, err := h.slots.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slots)
}

// Update modifies a time slot and responds with the refreshed list.
func (h *TimeSlotHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time slot payload"))
		return
	}
	slots, err := h.slots.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Delete removes a time slot and responds with the refreshed list.
func (h *TimeSlotHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.slots.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Export streams the time slot list as pdf, xlsx or csv.
func (h *TimeSlotHandler) Export(c *gin.Context) {
	doc, err := h.exports.TimeSlots(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}
