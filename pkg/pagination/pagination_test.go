package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"negative page", "?page=-1", 1, 20},
		{"zero limit", "?limit=0", 1, 20},
		{"limit capped", "?limit=1000", 1, 100},
		{"garbage input", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(testContext(tt.query))
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Parse(%q) = page %d limit %d, want page %d limit %d",
					tt.query, got.Page, got.Limit, tt.wantPage, tt.wantLimit)
			}
			if got.Offset != (got.Page-1)*got.Limit {
				t.Errorf("Offset = %d, want %d", got.Offset, (got.Page-1)*got.Limit)
			}
		})
	}
}

func TestSortWhitelist(t *testing.T) {
	allowed := map[string]string{
		"name":       "assets.name",
		"created_at": "assets.created_at",
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no sort falls back", "", "assets.name ASC"},
		{"ascending", "?sort=created_at", "assets.created_at ASC"},
		{"descending", "?sort=-created_at", "assets.created_at DESC"},
		{"unknown field falls back", "?sort=password", "assets.name ASC"},
		{"injection attempt falls back", "?sort=name%3BDROP%20TABLE%20assets", "assets.name ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sort(testContext(tt.query), allowed, "assets.name ASC"); got != tt.want {
				t.Errorf("Sort(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
