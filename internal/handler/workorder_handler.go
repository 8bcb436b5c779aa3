package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

var workOrderSortColumns = map[string]string{
	"title":      "work_orders.title",
	"priority":   "work_orders.priority",
	"status":     "work_orders.status",
	"due_date":   "work_orders.due_date",
	"created_at": "work_orders.created_at",
}

type WorkOrderHandler struct {
	workOrderService service.WorkOrderService
}

func NewWorkOrderHandler(workOrderService service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

func (h *WorkOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/work-orders", middleware.RequireAuth())
	{
		orders.GET("", h.ListWorkOrders)
		orders.GET("/:id", h.GetWorkOrder)
		orders.POST("", h.CreateWorkOrder)
		orders.PUT("/:id", h.UpdateWorkOrder)
		orders.DELETE("/:id", h.DeleteWorkOrder)
		orders.POST("/:id/transition", h.Transition)
		orders.POST("/:id/assign", h.Assign)
		orders.PUT("/:id/checklist/:itemId", h.ToggleChecklistItem)
	}
}

// ListWorkOrders handles GET /work-orders with filters, search and pagination
// @Summary      List work orders
// @Description  Retrieves the work orders visible to the caller, with optional filters
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        page         query  int     false  "Page number"
// @Param        limit        query  int     false  "Items per page"
// @Param        assigned_to  query  string  false  "Filter by assignee"
// @Param        asset_id     query  string  false  "Filter by asset"
// @Param        status       query  string  false  "Filter by status"
// @Param        priority     query  string  false  "Filter by priority"
// @Param        search       query  string  false  "Search by title"
// @Param        sort         query  string  false  "Sort field, prefix with - for descending"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /work-orders [get]
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	order := pagination.Sort(c, workOrderSortColumns, "work_orders.created_at DESC")
	filter := service.WorkOrderFilter{
		AssignedTo: c.Query("assigned_to"),
		AssetID:    c.Query("asset_id"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Search:     c.Query("search"),
	}

	orders, total, err := h.workOrderService.ListWorkOrders(c.Request.Context(), p, filter, params, order)
	if err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"work_orders": orders,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// GetWorkOrder handles GET /work-orders/:id
// @Summary      Get work order by ID
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response{data=model.WorkOrder}
// @Failure      404  {object}  response.Response
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, found, err := h.workOrderService.GetWorkOrder(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, "work order", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("work order"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateWorkOrder handles POST /work-orders
// @Summary      Create work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateWorkOrderRequest  true  "Create Work Order Payload"
// @Success      201      {object}  response.Response{data=model.WorkOrder}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /work-orders [post]
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// UpdateWorkOrder handles PUT /work-orders/:id
func (h *WorkOrderHandler) UpdateWorkOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteWorkOrder handles DELETE /work-orders/:id
func (h *WorkOrderHandler) DeleteWorkOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), p, id); err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Work order deleted successfully"))
}

// Transition handles POST /work-orders/:id/transition
// @Summary      Transition work order status
// @Description  Moves a work order along the status state machine
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Work Order ID"
// @Param        payload  body      service.TransitionRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=model.WorkOrder}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /work-orders/{id}/transition [post]
func (h *WorkOrderHandler) Transition(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.workOrderService.Transition(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Assign handles POST /work-orders/:id/assign
func (h *WorkOrderHandler) Assign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.workOrderService.Assign(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "work order", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ToggleChecklistItem handles PUT /work-orders/:id/checklist/:itemId
func (h *WorkOrderHandler) ToggleChecklistItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	done, err := strconv.ParseBool(c.DefaultQuery("done", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid done parameter"))
		return
	}

	item, err := h.workOrderService.ToggleChecklistItem(c.Request.Context(), p, orderID, itemID, done)
	if err != nil {
		writeError(c, "checklist item", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
