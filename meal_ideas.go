package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// mealIdeasRequest is the request body for POST /api/clients/:id/meal-ideas.
type mealIdeasRequest struct {
	Meal        string `json:"meal" binding:"required"`
	Preferences string `json:"preferences"`
	Count       int    `json:"count"`
}

// mealIdea is one suggested meal, with totals for the whole portion.
type mealIdea struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Calories    int     `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
}

const (
	defaultMealIdeas = 3
	maxMealIdeas     = 5
)

// mealShare is the fraction of the daily plan allotted to each meal.
var mealShare = map[string]float64{
	"breakfast": 0.25,
	"lunch":     0.35,
	"dinner":    0.30,
	"snack":     0.10,
}

var errNoMealIdeas = errors.New("no usable meal ideas in response")

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const mealIdeasSystemPrompt = `You are a sports nutritionist helping a personal trainer plan meals for a client.
Return a JSON object {"ideas": [...]} where each idea has:
- "name" (string, title case)
- "description" (string, one sentence with the main ingredients and portion)
- "calories" (integer, total for the portion)
- "protein_g" (integer)
- "carbs_g" (integer)
- "fat_g" (integer)

Keep every idea within 10% of the calorie target and as close to the macro targets as practical.
Return only valid JSON, no explanation.`

// mealIdeasPrompt builds the user message: the per-meal share of the plan's
// daily targets, plus any free-text preferences.
func mealIdeasPrompt(plan *nutritionPlan, meal, preferences string, count int) string {
	share := mealShare[meal]
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d %s ideas.\n", count, meal)
	fmt.Fprintf(&b, "Targets for this meal: %d kcal, %d g protein, %d g carbs, %d g fat.\n",
		roundInt(float64(plan.CalorieNeeds)*share),
		roundInt(float64(plan.ProteinG)*share),
		roundInt(float64(plan.CarbsG)*share),
		roundInt(float64(plan.FatG)*share))
	fmt.Fprintf(&b, "Client goal: %s.\n", plan.Goal)
	if p := strings.TrimSpace(preferences); p != "" {
		fmt.Fprintf(&b, "Preferences: %s\n", p)
	}
	return b.String()
}

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the content of the
// first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, cfg OpenAIConfig, messages []openAIMessage) (string, error) {
	reqBody := openAIRequest{
		Model:          cfg.Model,
		Messages:       messages,
		Temperature:    0.7,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	content := gjson.GetBytes(respBytes, "choices.0.message.content")
	if !content.Exists() {
		return "", errors.New("no choices in response")
	}
	return content.String(), nil
}

// parseMealIdeas extracts ideas from the model's JSON content. Ideas without
// a name or with non-positive calories are dropped.
func parseMealIdeas(content string) ([]mealIdea, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("invalid JSON content: %w", errNoMealIdeas)
	}
	var ideas []mealIdea
	gjson.Get(content, "ideas").ForEach(func(_, v gjson.Result) bool {
		idea := mealIdea{
			Name:        strings.TrimSpace(v.Get("name").String()),
			Description: strings.TrimSpace(v.Get("description").String()),
			Calories:    int(v.Get("calories").Int()),
			ProteinG:    v.Get("protein_g").Float(),
			CarbsG:      v.Get("carbs_g").Float(),
			FatG:        v.Get("fat_g").Float(),
		}
		if idea.Name != "" && idea.Calories > 0 {
			ideas = append(ideas, idea)
		}
		return true
	})
	if len(ideas) == 0 {
		return nil, errNoMealIdeas
	}
	return ideas, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestMealIdeas asks OpenAI for meals that fit a share of the client's
// latest nutrition plan. POST /api/clients/:id/meal-ideas.
func (h *Handler) suggestMealIdeas(c *gin.Context) {
	log := h.logger("suggestMealIdeas")

	id, ok := clientID(c)
	if !ok {
		return
	}

	var req mealIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}
	if _, ok := mealShare[req.Meal]; !ok {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	switch {
	case req.Count == 0:
		req.Count = defaultMealIdeas
	case req.Count < 0 || req.Count > maxMealIdeas:
		apiError(c, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", maxMealIdeas))
		return
	}
	if h.openAI.APIKey == "" {
		apiError(c, http.StatusServiceUnavailable, "meal ideas are not configured")
		return
	}

	if _, ok := h.loadClient(c, id); !ok {
		return
	}
	plan, err := h.latestPlan(c, id)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch nutrition plan")
		return
	}
	if plan == nil {
		apiError(c, http.StatusConflict, "client has no nutrition plan yet")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: mealIdeasSystemPrompt},
		{Role: "user", Content: mealIdeasPrompt(plan, req.Meal, req.Preferences, req.Count)},
	}
	content, err := callOpenAI(c.Request.Context(), h.openAI, messages)
	if err != nil {
		log.WithError(err).Error("openai request failed")
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}

	ideas, err := parseMealIdeas(content)
	if err != nil {
		log.WithError(err).Warn("unusable openai response")
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": req.Meal, "plan_id": plan.ID, "ideas": ideas})
}
