package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", middleware.RequireAuth(), h.Summary)
}

// Summary handles GET /dashboard
// @Summary      Dashboard summary
// @Description  Role-scoped counters over the caller's visible work orders, assets, predictions and stock
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        window  query  string  false  "Aggregation window: 24h, 7d or 30d (default 7d)"
// @Success      200  {object}  response.Response{data=service.DashboardSummary}
// @Failure      400  {object}  response.Response
// @Router       /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), p, c.Query("window"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
