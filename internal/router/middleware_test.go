package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitrine-api/internal/config"
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestCORSMiddlewareExposesCartKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), cartKeyHeader) {
		t.Fatalf("expose headers should contain %s, got %q", cartKeyHeader, w.Header().Get("Access-Control-Expose-Headers"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), cartKeyHeader) {
		t.Fatalf("allow headers should contain %s, got %q", cartKeyHeader, w.Header().Get("Access-Control-Allow-Headers"))
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

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
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
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestValidRequestID(t *testing.T) {
	if !validRequestID("req-123") {
		t.Fatalf("plain id should be valid")
	}
	for _, id := range []string{"", "has space", "tab\tid", strings.Repeat("a", maxRequestIDLength+1)} {
		if validRequestID(id) {
			t.Fatalf("id %q should be rejected", id)
		}
	}
}

func TestCartKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CartKeyMiddleware("fallback"))
	r.GET("/cart", func(c *gin.Context) {
		key, _ := handlershared.CartKey(c)
		c.JSON(http.StatusOK, gin.H{"cart_key": key})
	})

	cases := []struct {
		name   string
		header string
		status int
		want   string
	}{
		{name: "default", header: "", status: http.StatusOK, want: "fallback"},
		{name: "explicit", header: " tab-42 ", status: http.StatusOK, want: "tab-42"},
		{name: "invalid", header: "not valid!", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tc.header != "" {
				req.Header.Set(cartKeyHeader, tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status want %d got %d", tc.status, w.Code)
			}
			if tc.status != http.StatusOK {
				return
			}
			if got := w.Header().Get(cartKeyHeader); got != tc.want {
				t.Fatalf("echoed cart key want %s got %s", tc.want, got)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if resp["cart_key"] != tc.want {
				t.Fatalf("context cart key want %s got %s", tc.want, resp["cart_key"])
			}
		})
	}
}
