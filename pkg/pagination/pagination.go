package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Sort parses a "sort" query parameter ("field" or "-field") against a
// whitelist of sortable columns and returns an ORDER BY clause. Anything
// outside the whitelist falls back to the default, so caller input can never
// inject arbitrary SQL into the ordering.
func Sort(c *gin.Context, allowed map[string]string, fallback string) string {
	raw := c.Query("sort")
	if raw == "" {
		return fallback
	}

	dir := "ASC"
	field := raw
	if strings.HasPrefix(raw, "-") {
		dir = "DESC"
		field = raw[1:]
	}

	col, ok := allowed[field]
	if !ok {
		return fallback
	}
	return col + " " + dir
}
