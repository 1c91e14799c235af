package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desbrava-pizza/internal/config"

	"github.com/gin-gonic/gin"
)

func TestOriginAllowed(t *testing.T) {
	if !originAllowed("https://example.com", []string{"*"}) {
		t.Fatalf("wildcard should allow any origin")
	}
	if !originAllowed("https://A.example.com", []string{"https://a.example.com", "https://b.example.com"}) {
		t.Fatalf("allow-list match should be case insensitive")
	}
	if originAllowed("https://x.example.com", []string{"https://a.example.com"}) {
		t.Fatalf("unmatched origin should be rejected")
	}
}

func TestBuildCORSConfig(t *testing.T) {
	corsCfg := buildCORSConfig(config.CORSConfig{
		AllowedOrigins:   []string{"https://painel.desbrava.org"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	if corsCfg.MaxAge != 600*time.Second {
		t.Fatalf("max age want 600s got %s", corsCfg.MaxAge)
	}
	if len(corsCfg.AllowMethods) == 0 || len(corsCfg.AllowHeaders) == 0 {
		t.Fatalf("default methods and headers should be filled")
	}
	if !corsCfg.AllowOriginFunc("https://painel.desbrava.org") || corsCfg.AllowOriginFunc("https://evil.example") {
		t.Fatalf("origin func should follow allow-list")
	}
}

func TestCORSMiddlewareEchoesOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://desbrava.org")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://desbrava.org" {
		t.Fatalf("allow origin want echoed origin got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials want true got %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestJWTAuthMiddlewareWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware(nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/delivery/orders/:id": "delivery",
		"/admin/reports/summary":     "reports",
		"/admin":                     "admin",
		"/":                          "system",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("%s: want %s got %s", object, want, got)
		}
	}
}
