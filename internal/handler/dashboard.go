package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardSvc}
}

// Summary returns the dashboard; ?refresh=true bypasses the cache.
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	get := h.dashboardService.Summary
	if queryBool(c, "refresh", false) {
		get = h.dashboardService.Refresh
	}
	summary, err := get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, summary)
}
