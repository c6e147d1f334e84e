package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
	"github.com/edusuite/siga-gateway/pkg/response"
)

// DashboardHandler wires the landing screens for both roles.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// AdminSummary returns the count cards for the admin landing screen.
func (h *DashboardHandler) AdminSummary(c *gin.Context) {
	summary, err := h.dashboard.AdminSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// TeacherOverview returns the read-only timetable for teachers.
func (h *DashboardHandler) TeacherOverview(c *gin.Context) {
	overview, err := h.dashboard.TeacherOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}
