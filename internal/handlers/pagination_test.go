package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		query      string
		page       int
		limit      int
		offset     int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "?page=3&limit=25", 3, 25, 50},
		{"zero page clamps", "?page=0&limit=5", 1, 5, 0},
		{"negative values clamp", "?page=-2&limit=-1", 1, 10, 0},
		{"limit capped", "?limit=5000", 1, 100, 0},
		{"garbage falls back", "?page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/things"+tc.query, nil)

			page, limit, offset := pageParams(c)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.limit, limit)
			assert.Equal(t, tc.offset, offset)
		})
	}
}
