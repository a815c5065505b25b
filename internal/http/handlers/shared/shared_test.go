package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/laundry-pos/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{4, 25, 4, 25},
	}
	for _, tc := range cases {
		page, limit := NormalizePagination(tc.page, tc.limit, 10, 100)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("NormalizePagination(%d,%d) want %d,%d got %d,%d", tc.page, tc.limit, tc.wantPage, tc.wantLimit, page, limit)
		}
	}
}

func TestResolveActorPrefersToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if got := ResolveActor(c, " cashier-1 "); got != "cashier-1" {
		t.Fatalf("fallback actor expected, got %q", got)
	}
	c.Set(constants.ContextKeyActor, "emp-42")
	if got := ResolveActor(c, "cashier-1"); got != "emp-42" {
		t.Fatalf("token actor expected, got %q", got)
	}
}
