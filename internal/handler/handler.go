package handler

import (
	"errors"
	"net/http"

	"backend/internal/authz"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// principal pulls the authenticated principal off the context. RequireAuth
// guarantees it exists on protected routes; the guard here is for routes
// registered without the middleware by mistake.
func principal(c *gin.Context) (authz.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing request principal"))
	}
	return p, ok
}

// parseID parses a UUID path parameter, writing a 400 on failure
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+param+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors onto the HTTP surface. Absent and invisible
// entities share the same 404; capability denials on a visible route become
// 403; illegal state transitions are a caller mistake, 400.
func writeError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.NotFound(resource))
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	case errors.Is(err, authz.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
