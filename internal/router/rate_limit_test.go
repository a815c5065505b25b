package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/laundry-pos/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestKeyByActorOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByActorOrIP(c); key != "ip:1.2.3.4" {
		t.Fatalf("key want ip:1.2.3.4 got %s", key)
	}
	c.Set(constants.ContextKeyActor, " Cashier-1 ")
	if key := KeyByActorOrIP(c); key != "actor:cashier-1" {
		t.Fatalf("key want actor:cashier-1 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.POST("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("expected handler response body, got %s", w.Body.String())
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60}
	if got := retryAfterSeconds(12, rule); got != 12 {
		t.Fatalf("want 12 got %d", got)
	}
	if got := retryAfterSeconds(-1, rule); got != 60 {
		t.Fatalf("want window fallback 60 got %d", got)
	}
	if got := retryAfterSeconds(0, RateLimitRule{}); got != 1 {
		t.Fatalf("want minimum 1 got %d", got)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
