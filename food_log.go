package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMeals is the set of allowed values for food_log_items.meal.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMeals = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// sumFoodLog totals calories and macros over items. Missing macros count as 0.
func sumFoodLog(items []foodLogItem) macroTotals {
	var t macroTotals
	for _, item := range items {
		t.Calories += item.Calories
		if item.ProteinG != nil {
			t.ProteinG += *item.ProteinG
		}
		if item.CarbsG != nil {
			t.CarbsG += *item.CarbsG
		}
		if item.FatG != nil {
			t.FatG += *item.FatG
		}
	}
	return t
}

// planTargets converts a saved plan into daily targets.
func planTargets(p *nutritionPlan) macroTotals {
	return macroTotals{
		Calories: p.CalorieNeeds,
		ProteinG: float64(p.ProteinG),
		CarbsG:   float64(p.CarbsG),
		FatG:     float64(p.FatG),
	}
}

// remaining is target minus consumed. Negative values mean over target.
func remaining(target, consumed macroTotals) macroTotals {
	return macroTotals{
		Calories: target.Calories - consumed.Calories,
		ProteinG: target.ProteinG - consumed.ProteinG,
		CarbsG:   target.CarbsG - consumed.CarbsG,
		FatG:     target.FatG - consumed.FatG,
	}
}

// foodLogItemID parses the :itemId path param.
func foodLogItemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// getDailyFoodLog returns a client's food log for one day, with totals
// compared against their latest nutrition plan.
// GET /api/clients/:id/food-log/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyFoodLog(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying; an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if _, ok := h.loadClient(c, id); !ok {
		return
	}

	items, err := queryMany[foodLogItem](h, c,
		`SELECT * FROM food_log_items
		 WHERE client_id = @clientID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"clientID": id, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food log")
		return
	}
	// Ensure items is an empty array (not null) in JSON
	if items == nil {
		items = []foodLogItem{}
	}

	plan, err := h.latestPlan(c, id)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch nutrition plan")
		return
	}

	summary := dailyFoodLog{
		Date:     date,
		Items:    items,
		Consumed: sumFoodLog(items),
		Plan:     plan,
	}
	if plan != nil {
		target := planTargets(plan)
		left := remaining(target, summary.Consumed)
		summary.Target = &target
		summary.Remaining = &left
	}

	c.JSON(http.StatusOK, summary)
}

// createFoodLogItem inserts a food log entry for a client.
// POST /api/clients/:id/food-log. Defaults date to today if omitted.
func (h *Handler) createFoodLogItem(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var body createFoodLogItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ItemName == "" {
		apiError(c, http.StatusBadRequest, "item_name is required")
		return
	}
	if !validMeals[body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if _, ok := h.loadClient(c, id); !ok {
		return
	}

	item, err := queryOne[foodLogItem](h, c,
		`INSERT INTO food_log_items (client_id, date, item_name, meal, qty, uom, calories, protein_g, carbs_g, fat_g)
		 VALUES (@clientID, @date, @itemName, @meal, @qty, @uom, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		pgx.NamedArgs{
			"clientID": id, "date": body.Date, "itemName": body.ItemName,
			"meal": body.Meal, "qty": body.Qty, "uom": body.Uom,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateFoodLogItem updates a food log entry.
// PUT /api/clients/:id/food-log/:itemId. Uses COALESCE so omitted fields keep
// their current value.
func (h *Handler) updateFoodLogItem(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	itemID, ok := foodLogItemID(c)
	if !ok {
		return
	}

	var body struct {
		Date     *string  `json:"date"`
		ItemName *string  `json:"item_name"`
		Meal     *string  `json:"meal"`
		Qty      *float64 `json:"qty"`
		Uom      *string  `json:"uom"`
		Calories *int     `json:"calories"`
		ProteinG *float64 `json:"protein_g"`
		CarbsG   *float64 `json:"carbs_g"`
		FatG     *float64 `json:"fat_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Meal != nil && !validMeals[*body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if body.Calories != nil && *body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}

	// The client join enforces trainer ownership.
	item, err := queryOne[foodLogItem](h, c,
		`UPDATE food_log_items f SET
			date = COALESCE(@date, f.date),
			item_name = COALESCE(@itemName, f.item_name),
			meal = COALESCE(@meal, f.meal),
			qty = COALESCE(@qty, f.qty),
			uom = COALESCE(@uom, f.uom),
			calories = COALESCE(@calories, f.calories),
			protein_g = COALESCE(@proteinG, f.protein_g),
			carbs_g = COALESCE(@carbsG, f.carbs_g),
			fat_g = COALESCE(@fatG, f.fat_g),
			updated_at = now()
		 FROM clients cl
		 WHERE f.id = @itemID AND f.client_id = @clientID
		   AND cl.id = f.client_id AND cl.trainer_id = @trainerID
		 RETURNING f.*`,
		pgx.NamedArgs{
			"itemID": itemID, "clientID": id, "trainerID": c.GetInt("trainer_id"),
			"date": body.Date, "itemName": body.ItemName, "meal": body.Meal,
			"qty": body.Qty, "uom": body.Uom, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "item not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteFoodLogItem removes a food log entry. Returns 204 on success.
// DELETE /api/clients/:id/food-log/:itemId.
func (h *Handler) deleteFoodLogItem(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	itemID, ok := foodLogItemID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		`DELETE FROM food_log_items f USING clients cl
		 WHERE f.id = @itemID AND f.client_id = @clientID
		   AND cl.id = f.client_id AND cl.trainer_id = @trainerID`,
		pgx.NamedArgs{"itemID": itemID, "clientID": id, "trainerID": c.GetInt("trainer_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}

	c.Status(http.StatusNoContent)
}
