package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	parts := router.Group("/spare-parts", middleware.RequireAuth())
	{
		parts.GET("", h.ListParts)
		parts.GET("/:id", h.GetPart)
		parts.POST("", h.CreatePart)
		parts.PUT("/:id", h.UpdatePart)
		parts.POST("/:id/movements", h.Move)
	}
}

// ListParts handles GET /spare-parts
func (h *InventoryHandler) ListParts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	parts, total, err := h.inventoryService.ListParts(c.Request.Context(), p, c.Query("search"), params.Page, params.Limit)
	if err != nil {
		writeError(c, "spare part", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"spare_parts": parts,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// GetPart handles GET /spare-parts/:id
func (h *InventoryHandler) GetPart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	part, found, err := h.inventoryService.GetPart(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, "spare part", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("spare part"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// CreatePart handles POST /spare-parts
func (h *InventoryHandler) CreatePart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateSparePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.CreatePart(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "spare part", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, part))
}

// UpdatePart handles PUT /spare-parts/:id
func (h *InventoryHandler) UpdatePart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateSparePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.UpdatePart(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "spare part", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}

// Move handles POST /spare-parts/:id/movements
// @Summary      Record stock movement
// @Description  Applies a stock delta to a spare part; dropping below the minimum escalates
// @Tags         spare-parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Spare Part ID"
// @Param        payload  body      service.StockMovementRequest  true  "Stock Movement Payload"
// @Success      200      {object}  response.Response{data=model.SparePart}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /spare-parts/{id}/movements [post]
func (h *InventoryHandler) Move(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	part, err := h.inventoryService.Move(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "spare part", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, part))
}
