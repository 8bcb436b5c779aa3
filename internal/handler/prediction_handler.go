package handler

import (
	"net/http"
	"strconv"

	"backend/internal/authz"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictionService service.PredictionService
}

func NewPredictionHandler(predictionService service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	predictions := router.Group("/predictions", middleware.RequireAuth())
	{
		predictions.GET("", h.ListPredictions)
		predictions.GET("/:id", h.GetPrediction)
	}
	// Ingest is reserved for the ML pipeline's service account
	router.POST("/predictions", middleware.RequireRole(authz.RoleAdmin), h.IngestPrediction)
}

// ListPredictions handles GET /predictions with filters and pagination
// @Summary      List predictions
// @Description  Retrieves failure predictions for the assets visible to the caller
// @Tags         predictions
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Items per page"
// @Param        asset_id  query  string  false  "Filter by asset"
// @Param        min_prob  query  number  false  "Minimum failure probability"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /predictions [get]
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	minProb, _ := strconv.ParseFloat(c.Query("min_prob"), 64)
	filter := service.PredictionFilter{
		AssetID: c.Query("asset_id"),
		MinProb: minProb,
	}

	predictions, total, err := h.predictionService.ListPredictions(c.Request.Context(), p, filter, params)
	if err != nil {
		writeError(c, "prediction", err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"predictions": predictions,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// GetPrediction handles GET /predictions/:id
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	prediction, found, err := h.predictionService.GetPrediction(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, "prediction", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, response.NotFound("prediction"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, prediction))
}

// IngestPrediction handles POST /predictions from the ML pipeline
// @Summary      Ingest prediction
// @Description  Stores a failure prediction; high probabilities trigger escalation
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.IngestPredictionRequest  true  "Prediction Payload"
// @Success      201      {object}  response.Response{data=model.Prediction}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /predictions [post]
func (h *PredictionHandler) IngestPrediction(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.IngestPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	prediction, err := h.predictionService.IngestPrediction(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, "prediction", err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, prediction))
}
