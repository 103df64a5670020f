package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/categories", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	r := newEngine(RateLimiter(2, time.Hour, "/api/health"))

	for i := 0; i < 2; i++ {
		if rr := get(r, "/api/categories", nil); rr.Code != http.StatusOK {
			t.Fatalf("request %d: want=200 got=%d", i, rr.Code)
		}
	}
	rr := get(r, "/api/categories", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("want=429 got=%d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}

	if rr := get(r, "/api/health", nil); rr.Code != http.StatusOK {
		t.Fatalf("skipped path: want=200 got=%d", rr.Code)
	}
}

func TestCORSAllowList(t *testing.T) {
	r := newEngine(CORS([]string{"https://quiz.example.com"}))

	rr := get(r, "/api/categories", map[string]string{"Origin": "https://quiz.example.com"})
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://quiz.example.com" {
		t.Fatalf("allowed origin: got %q", got)
	}

	rr = get(r, "/api/categories", map[string]string{"Origin": "https://evil.example.com"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: want=403 got=%d", rr.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	rr := get(newEngine(Secure()), "/api/categories", nil)
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing security headers: %v", rr.Header())
	}
}
