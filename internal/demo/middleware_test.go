package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMiddleware(t *testing.T) {
	m := NewMiddleware(true)
	if !m.IsEnabled() {
		t.Error("Expected middleware to be enabled")
	}

	m = NewMiddleware(false)
	if m.IsEnabled() {
		t.Error("Expected middleware to be disabled")
	}
}

func TestMiddleware_AllowsGETRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/loans", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got %s", w.Body.String())
	}
}

func TestMiddleware_BlocksWriteRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/loans", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.PUT("/loans/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.DELETE("/loans/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/loans"},
		{http.MethodPut, "/loans/1"},
		{http.MethodDelete, "/loans/1"},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403 for %s %s, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestMiddleware_BlockedResponseCarriesFlag(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/members", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["demo_mode"] != true {
		t.Error("Expected demo_mode flag in response")
	}
	if response["message"] == "" {
		t.Error("Expected a message in the response")
	}
}

func TestMiddleware_AllowsHEADAndOPTIONSRequests(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.HEAD("/books", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.OPTIONS("/books", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, method := range []string{http.MethodHead, http.MethodOptions} {
		req := httptest.NewRequest(method, "/books", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", method, w.Code)
		}
	}
}

func TestMiddleware_AllowsLoginFlow(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/login", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.POST("/logout", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	for _, path := range []string{"/login", "/logout"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", path, w.Code)
		}
	}
}

func TestMiddleware_AllowlistIsExact(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/login-helper", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.POST("/logout/everyone", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.POST("/login/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Sibling paths sharing the allowlist prefix stay blocked
	for _, path := range []string{"/login-helper", "/logout/everyone"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403 for %s, got %d", path, w.Code)
		}
	}

	// A trailing slash on an allowlisted route still passes
	req := httptest.NewRequest(http.MethodPost, "/login/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for /login/, got %d", w.Code)
	}
}

func TestMiddleware_BlocksRegistration(t *testing.T) {
	m := NewMiddleware(true)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/register", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestMiddleware_DisabledAllowsAllRequests(t *testing.T) {
	m := NewMiddleware(false)
	router := gin.New()
	router.Use(m.Handler())
	router.POST("/loans", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodPost, "/loans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 when disabled, got %d", w.Code)
	}
}
