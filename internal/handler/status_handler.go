package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetStatusHandler struct {
	statusService service.AssetStatusService
}

func NewAssetStatusHandler(statusService service.AssetStatusService) *AssetStatusHandler {
	return &AssetStatusHandler{statusService: statusService}
}

func (h *AssetStatusHandler) RegisterRoutes(router *gin.RouterGroup) {
	status := router.Group("/assets/:id/status", middleware.RequireAuth())
	{
		status.GET("", h.GetCurrent)
		status.GET("/history", h.ListHistory)
	}
	router.POST("/asset-status", middleware.RequireAuth(), h.Report)
}

// GetCurrent handles GET /assets/:id/status
// @Summary      Get current asset status
// @Tags         asset-status
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.AssetStatus}
// @Failure      404  {object}  response.Response
// @Router       /assets/{id}/status [get]
func (h *AssetStatusHandler) GetCurrent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	assetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	status, found, err := h.statusService.GetCurrent(c.Request.Context(), p, assetID)
	if err != nil {
		writeError(c, "asset status", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("asset status"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// ListHistory handles GET /assets/:id/status/history
func (h *AssetStatusHandler) ListHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	assetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	params := pagination.Parse(c)
	history, total, err := h.statusService.ListHistory(c.Request.Context(), p, assetID, params)
	if err != nil {
		writeError(c, "asset status", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"history": history,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// Report handles POST /asset-status
// @Summary      Report asset status
// @Description  Records the asset's current operational state and appends to its history
// @Tags         asset-status
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ReportStatusRequest  true  "Status Report Payload"
// @Success      200      {object}  response.Response{data=model.AssetStatus}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /asset-status [post]
func (h *AssetStatusHandler) Report(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.ReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	status, err := h.statusService.Report(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}
