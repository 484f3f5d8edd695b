package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/FitGenius/FitGenius-sub002/internal/nutrition"
)

// maxPlausibleAge guards against DOBs that are obviously wrong.
const maxPlausibleAge = 130

// incompleteProfileError names the first client profile field a plan needs
// but the client does not have yet.
type incompleteProfileError struct {
	Field string
}

func (e *incompleteProfileError) Error() string {
	return "client profile incomplete: " + e.Field
}

// ageOn returns the age in whole years on the given day. ok is false when
// the DOB is in the future or implausibly old.
func ageOn(dob, now time.Time) (int, bool) {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 || age > maxPlausibleAge {
		return 0, false
	}
	return age, true
}

// buildPlanRequest assembles a calculator request from the stored client
// profile, with any non-nil field in body taking precedence.
func buildPlanRequest(cl client, body createNutritionPlanRequest, now time.Time) (nutrition.Request, error) {
	switch {
	case cl.WeightKG == nil:
		return nutrition.Request{}, &incompleteProfileError{Field: "weight_kg"}
	case cl.HeightCM == nil:
		return nutrition.Request{}, &incompleteProfileError{Field: "height_cm"}
	case cl.DateOfBirth == nil || cl.DateOfBirth.IsZero():
		return nutrition.Request{}, &incompleteProfileError{Field: "date_of_birth"}
	case cl.Sex == nil:
		return nutrition.Request{}, &incompleteProfileError{Field: "sex"}
	}

	age, ok := ageOn(cl.DateOfBirth.Time, now)
	if !ok {
		return nutrition.Request{}, &nutrition.ValidationError{Field: "age", Reason: "must be a positive integer"}
	}
	sex, err := nutrition.ParseSex(*cl.Sex)
	if err != nil {
		return nutrition.Request{}, err
	}

	levelStr := body.ActivityLevel
	if levelStr == nil {
		levelStr = cl.ActivityLevel
	}
	if levelStr == nil {
		return nutrition.Request{}, &incompleteProfileError{Field: "activity_level"}
	}
	level, err := nutrition.ParseActivityLevel(*levelStr)
	if err != nil {
		return nutrition.Request{}, err
	}

	goalStr := body.Goal
	if goalStr == nil {
		goalStr = cl.Goal
	}
	if goalStr == nil {
		return nutrition.Request{}, &incompleteProfileError{Field: "goal"}
	}
	goal, err := nutrition.ParseGoal(*goalStr)
	if err != nil {
		return nutrition.Request{}, err
	}

	req := nutrition.Request{
		Biometrics: nutrition.BiometricInput{
			WeightKg: *cl.WeightKG,
			HeightCm: *cl.HeightCM,
			AgeYears: age,
			Sex:      sex,
		},
		ActivityLevel: level,
		Goal:          goal,
		CustomMacros:  body.CustomMacros.ratio(),
		TargetDeltaKg: body.TargetDeltaKg,
	}
	switch {
	case body.MacroPreset != nil:
		req.MacroPreset = *body.MacroPreset
	case cl.MacroPreset != nil:
		req.MacroPreset = *cl.MacroPreset
	}
	return req, nil
}

// planErrorStatus extends calculatorErrorStatus with profile errors.
func planErrorStatus(err error) (int, string) {
	var pErr *incompleteProfileError
	if errors.As(err, &pErr) {
		return http.StatusBadRequest, err.Error()
	}
	return calculatorErrorStatus(err)
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// createNutritionPlan computes a plan from the client's stored profile and
// saves it. POST /api/clients/:id/nutrition-plans. The body may override
// activity_level, goal, macro_preset, custom_macros and target_delta_kg.
func (h *Handler) createNutritionPlan(c *gin.Context) {
	log := h.logger("createNutritionPlan")

	id, ok := clientID(c)
	if !ok {
		return
	}

	var body createNutritionPlanRequest
	// An empty body is valid: compute from the stored profile alone.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apiError(c, http.StatusBadRequest, bindErrorMessage(err))
			return
		}
	}

	cl, ok := h.loadClient(c, id)
	if !ok {
		return
	}

	req, err := buildPlanRequest(cl, body, time.Now())
	if err != nil {
		recordCalculation(outcomeInvalid)
		status, msg := planErrorStatus(err)
		apiError(c, status, msg)
		return
	}

	res, err := nutrition.Calculate(req)
	if err != nil {
		status, msg := planErrorStatus(err)
		if status == http.StatusInternalServerError {
			recordCalculation(outcomeError)
			log.WithError(err).WithField("client_id", id).Error("calculation failed")
		} else {
			recordCalculation(outcomeInvalid)
		}
		apiError(c, status, msg)
		return
	}
	recordCalculation(outcomeOK)

	plan, err := queryOne[nutritionPlan](h, c,
		`INSERT INTO nutrition_plans (client_id, goal, activity_level, macro_preset,
		                              carb_ratio, protein_ratio, fat_ratio,
		                              bmr, tdee, calorie_needs, carbs_g, protein_g, fat_g,
		                              water_ml, bmi, bmi_status, estimated_weeks, recommendations)
		 VALUES (@clientID, @goal, @activityLevel, @macroPreset,
		         @carbRatio, @proteinRatio, @fatRatio,
		         @bmr, @tdee, @calorieNeeds, @carbsG, @proteinG, @fatG,
		         @waterML, @bmi, @bmiStatus, @estimatedWeeks, @recommendations)
		 RETURNING *`,
		pgx.NamedArgs{
			"clientID": id, "goal": string(req.Goal), "activityLevel": string(req.ActivityLevel),
			"macroPreset": res.MacroPreset,
			"carbRatio":   res.MacroRatio.Carb, "proteinRatio": res.MacroRatio.Protein, "fatRatio": res.MacroRatio.Fat,
			"bmr": roundInt(res.BMR), "tdee": roundInt(res.TDEE), "calorieNeeds": roundInt(res.CalorieNeeds),
			"carbsG": roundInt(res.Macros.Carbs), "proteinG": roundInt(res.Macros.Protein), "fatG": roundInt(res.Macros.Fat),
			"waterML": roundInt(res.WaterNeedsMl), "bmi": round2(res.BMI.Value), "bmiStatus": string(res.BMI.HealthStatus),
			"estimatedWeeks": res.EstimatedTimeWeeks, "recommendations": res.Recommendations,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save nutrition plan")
		return
	}

	log.WithField("client_id", id).WithField("plan_id", plan.ID).Info("nutrition plan created")
	c.JSON(http.StatusCreated, plan)
}

// listNutritionPlans returns a client's plans, newest first.
// GET /api/clients/:id/nutrition-plans.
func (h *Handler) listNutritionPlans(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	if _, ok := h.loadClient(c, id); !ok {
		return
	}

	plans, err := queryMany[nutritionPlan](h, c,
		`SELECT * FROM nutrition_plans WHERE client_id = @clientID
		 ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"clientID": id})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch nutrition plans")
		return
	}
	if plans == nil {
		plans = []nutritionPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// latestPlan returns the client's most recent plan, or nil if none exists.
func (h *Handler) latestPlan(c *gin.Context, clientID int) (*nutritionPlan, error) {
	plan, err := queryOne[nutritionPlan](h, c,
		`SELECT * FROM nutrition_plans WHERE client_id = @clientID
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		pgx.NamedArgs{"clientID": clientID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest plan for client %d: %w", clientID, err)
	}
	return &plan, nil
}

// getLatestNutritionPlan returns the client's most recent plan.
// GET /api/clients/:id/nutrition-plans/latest. 404 when none exists.
func (h *Handler) getLatestNutritionPlan(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
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
		apiError(c, http.StatusNotFound, "no nutrition plan for client")
		return
	}
	c.JSON(http.StatusOK, plan)
}
