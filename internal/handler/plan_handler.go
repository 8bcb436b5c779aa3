package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MaintenancePlanHandler struct {
	planService service.MaintenancePlanService
}

func NewMaintenancePlanHandler(planService service.MaintenancePlanService) *MaintenancePlanHandler {
	return &MaintenancePlanHandler{planService: planService}
}

func (h *MaintenancePlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/maintenance-plans", middleware.RequireAuth())
	{
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.POST("", h.CreatePlan)
		plans.PUT("/:id", h.UpdatePlan)
		plans.DELETE("/:id", h.DeletePlan)
	}
}

// ListPlans handles GET /maintenance-plans
func (h *MaintenancePlanHandler) ListPlans(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	plans, total, err := h.planService.ListPlans(c.Request.Context(), p, params.Page, params.Limit)
	if err != nil {
		writeError(c, "maintenance plan", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"plans": plans,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetPlan handles GET /maintenance-plans/:id
func (h *MaintenancePlanHandler) GetPlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	plan, found, err := h.planService.GetPlan(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, "maintenance plan", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("maintenance plan"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plan))
}

// CreatePlan handles POST /maintenance-plans
// @Summary      Create maintenance plan
// @Description  Creates a recurring plan; the scheduler generates work orders when it falls due
// @Tags         maintenance-plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePlanRequest  true  "Create Plan Payload"
// @Success      201      {object}  response.Response{data=model.MaintenancePlan}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /maintenance-plans [post]
func (h *MaintenancePlanHandler) CreatePlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "maintenance plan", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, plan))
}

// UpdatePlan handles PUT /maintenance-plans/:id
func (h *MaintenancePlanHandler) UpdatePlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "maintenance plan", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plan))
}

// DeletePlan handles DELETE /maintenance-plans/:id
func (h *MaintenancePlanHandler) DeletePlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), p, id); err != nil {
		writeError(c, "maintenance plan", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Maintenance plan deleted successfully"))
}
