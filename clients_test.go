package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupClientsTest registers the client routes on a Handler with no DB.
// Every case here must be rejected before any query runs.
func setupClientsTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	api := router.Group("/api", func(c *gin.Context) {
		c.Set("trainer_id", 1)
		c.Next()
	})
	api.POST("/clients", h.createClient)
	api.GET("/clients/:id", h.getClient)
	api.PATCH("/clients/:id", h.patchClient)
	api.DELETE("/clients/:id", h.deleteClient)
	api.POST("/clients/:id/nutrition-plans", h.createNutritionPlan)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClients_RejectedBeforeDB(t *testing.T) {
	router := setupClientsTest()

	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		wantErr string
	}{
		{"create without name", "POST", "/api/clients", `{"email":"a@b.co"}`, "name is required"},
		{"create blank name", "POST", "/api/clients", `{"name":"   "}`, "name is required"},
		{"create bad email", "POST", "/api/clients", `{"name":"Ann","email":"nope"}`, "email must be a valid email address"},
		{"create zero height", "POST", "/api/clients", `{"name":"Ann","height_cm":0}`, "height_cm must be greater than 0"},
		{"create bad sex", "POST", "/api/clients", `{"name":"Ann","sex":"other"}`, "sex must be one of: MALE, FEMALE"},
		{"create bad activity", "POST", "/api/clients", `{"name":"Ann","activity_level":"couch"}`, "activity_level must be one of: SEDENTARY, LIGHT, MODERATE, ACTIVE, VERY_ACTIVE"},
		{"create bad goal", "POST", "/api/clients", `{"name":"Ann","goal":"bulk"}`, "goal must be one of: WEIGHT_LOSS, FAT_LOSS, MAINTENANCE, WEIGHT_GAIN, MUSCLE_GAIN"},
		{"create bad preset", "POST", "/api/clients", `{"name":"Ann","macro_preset":"paleo"}`, "macro_preset must be one of: balanced, endurance, highProtein, keto, lowCarb"},
		{"create bad dob", "POST", "/api/clients", `{"name":"Ann","date_of_birth":"15/03/1996"}`, "invalid date_of_birth, expected YYYY-MM-DD"},
		{"create future dob", "POST", "/api/clients", `{"name":"Ann","date_of_birth":"2999-01-01"}`, "date_of_birth must be in the past"},
		{"get bad id", "GET", "/api/clients/abc", ``, "invalid client id"},
		{"get zero id", "GET", "/api/clients/0", ``, "invalid client id"},
		{"patch empty", "PATCH", "/api/clients/3", `{}`, "no fields to update"},
		{"patch empty name", "PATCH", "/api/clients/3", `{"name":""}`, "name must not be empty"},
		{"patch bad goal", "PATCH", "/api/clients/3", `{"goal":"bulk"}`, "goal must be one of: WEIGHT_LOSS, FAT_LOSS, MAINTENANCE, WEIGHT_GAIN, MUSCLE_GAIN"},
		{"delete bad id", "DELETE", "/api/clients/-1", ``, "invalid client id"},
		{"plan bad id", "POST", "/api/clients/x/nutrition-plans", `{}`, "invalid client id"},
		{"plan malformed body", "POST", "/api/clients/3/nutrition-plans", `{"goal":`, "invalid request body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, tc.method, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] != tc.wantErr {
				t.Errorf("expected error %q, got %q", tc.wantErr, resp["error"])
			}
		})
	}
}

func TestNormalizeProfileEnums_Canonicalizes(t *testing.T) {
	sex, level, goal, preset := "female", " very_active ", "Muscle_Gain", "LOWCARB"

	msg, ok := normalizeProfileEnums(&sex, &level, &goal, &preset, nil)
	if !ok {
		t.Fatalf("unexpected rejection: %s", msg)
	}
	if sex != "FEMALE" || level != "VERY_ACTIVE" || goal != "MUSCLE_GAIN" || preset != "lowCarb" {
		t.Errorf("not canonicalized: %s %s %s %s", sex, level, goal, preset)
	}
}

func TestNormalizeProfileEnums_AllNil(t *testing.T) {
	if msg, ok := normalizeProfileEnums(nil, nil, nil, nil, nil); !ok {
		t.Errorf("expected nil fields to pass, got %s", msg)
	}
}
