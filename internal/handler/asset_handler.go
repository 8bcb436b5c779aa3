package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

var assetSortColumns = map[string]string{
	"name":        "assets.name",
	"code":        "assets.code",
	"criticality": "assets.criticality",
	"created_at":  "assets.created_at",
}

type AssetHandler struct {
	assetService service.AssetService
}

func NewAssetHandler(assetService service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets", middleware.RequireAuth())
	{
		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.POST("", h.CreateAsset)
		assets.PUT("/:id", h.UpdateAsset)
		assets.DELETE("/:id", h.ArchiveAsset)
		assets.POST("/:id/archive", h.ArchiveAsset)
		assets.POST("/:id/restore", h.RestoreAsset)
	}
}

// ListAssets handles GET /assets with filtering, search and pagination
// @Summary      List assets
// @Description  Retrieves the assets visible to the caller, with optional filters
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        page              query  int     false  "Page number"
// @Param        limit             query  int     false  "Items per page"
// @Param        location_id       query  string  false  "Filter by location"
// @Param        criticality       query  string  false  "Filter by criticality"
// @Param        search            query  string  false  "Search name or code"
// @Param        include_archived  query  bool    false  "Include archived assets"
// @Param        sort              query  string  false  "Sort field, prefix with - for descending"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	order := pagination.Sort(c, assetSortColumns, "assets.name ASC")
	filter := service.AssetFilter{
		LocationID:      c.Query("location_id"),
		Criticality:     c.Query("criticality"),
		Search:          c.Query("search"),
		IncludeArchived: c.Query("include_archived") == "true",
	}

	assets, total, err := h.assetService.ListAssets(c.Request.Context(), p, filter, params, order)
	if err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"assets": assets,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetAsset handles GET /assets/:id
// @Summary      Get asset by ID
// @Description  Fetch a single asset's detail; archived assets need include_archived=true
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id                path   string  true   "Asset ID"
// @Param        include_archived  query  bool    false  "Include archived assets"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Failure      404  {object}  response.Response
// @Router       /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	asset, found, err := h.assetService.GetAsset(c.Request.Context(), p, id, c.Query("include_archived") == "true")
	if err != nil {
		writeError(c, "asset", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("asset"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// CreateAsset handles POST /assets
// @Summary      Create asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAssetRequest  true  "Create Asset Payload"
// @Success      201      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// UpdateAsset handles PUT /assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// ArchiveAsset handles DELETE /assets/:id and POST /assets/:id/archive.
// Archival replaces deletion:
// history stays intact and the asset drops out of default listings.
func (h *AssetHandler) ArchiveAsset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.assetService.ArchiveAsset(c.Request.Context(), p, id); err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Asset archived successfully"))
}

// RestoreAsset handles POST /assets/:id/restore
func (h *AssetHandler) RestoreAsset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.assetService.RestoreAsset(c.Request.Context(), p, id); err != nil {
		writeError(c, "asset", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Asset restored successfully"))
}
