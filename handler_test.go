package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{}
	h.registerRoutes(router, newRateLimiter(RateLimitConfig{}))

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /api/login",
		"POST /api/nutrition/calculate",
		"GET /api/nutrition/presets",
		"GET /api/clients",
		"POST /api/clients",
		"GET /api/clients/:id",
		"PATCH /api/clients/:id",
		"DELETE /api/clients/:id",
		"POST /api/clients/:id/nutrition-plans",
		"GET /api/clients/:id/nutrition-plans",
		"GET /api/clients/:id/nutrition-plans/latest",
		"POST /api/clients/:id/meal-ideas",
		"GET /api/clients/:id/food-log/daily",
		"POST /api/clients/:id/food-log",
		"PUT /api/clients/:id/food-log/:itemId",
		"DELETE /api/clients/:id/food-log/:itemId",
		"GET /api/clients/:id/weight-log",
		"POST /api/clients/:id/weight-log",
		"DELETE /api/clients/:id/weight-log/:entryId",
	} {
		if !registered[want] {
			t.Errorf("missing route %s", want)
		}
	}
}

func TestAuthMiddleware_RejectsMissingBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{}
	h.registerRoutes(router, nil)

	for _, header := range []string{"", "Basic abc", "bearer lowercase"} {
		req := httptest.NewRequest("GET", "/api/clients", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "missing or invalid authorization header" {
			t.Errorf("header %q: unexpected error %q", header, resp["error"])
		}
	}
}

func TestHealthz_NoDB(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{}
	router.GET("/healthz", h.healthz)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handler{}
	router.POST("/api/login", h.login)

	w := doJSON(router, "POST", "/api/login", `{"username":"coach"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "username and password are required" {
		t.Errorf("unexpected error %q", resp["error"])
	}
}
