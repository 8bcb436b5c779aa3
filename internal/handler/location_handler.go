package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/locations", middleware.RequireAuth())
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.POST("", h.CreateLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}
}

// ListLocations returns all locations visible to the caller
func (h *LocationHandler) ListLocations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	locations, err := h.locationService.ListLocations(c.Request.Context(), p)
	if err != nil {
		writeError(c, "location", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, locations))
}

// GetLocation handles GET /locations/:id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	location, found, err := h.locationService.GetLocation(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, "location", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("location"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, location))
}

// CreateLocation handles POST /locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	location, err := h.locationService.CreateLocation(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "location", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, location))
}

// UpdateLocation handles PUT /locations/:id
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	location, err := h.locationService.UpdateLocation(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, "location", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, location))
}

// DeleteLocation handles DELETE /locations/:id
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.locationService.DeleteLocation(c.Request.Context(), p, id); err != nil {
		writeError(c, "location", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Location deleted successfully"))
}
