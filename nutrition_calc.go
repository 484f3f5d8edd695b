package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FitGenius/FitGenius-sub002/internal/nutrition"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// customMacroBody is the JSON shape of caller-supplied macro ratios.
type customMacroBody struct {
	CarbRatio    *float64 `json:"carbRatio" binding:"required"`
	ProteinRatio *float64 `json:"proteinRatio" binding:"required"`
	FatRatio     *float64 `json:"fatRatio" binding:"required"`
}

func (b *customMacroBody) ratio() *nutrition.MacroRatio {
	if b == nil {
		return nil
	}
	return &nutrition.MacroRatio{Carb: *b.CarbRatio, Protein: *b.ProteinRatio, Fat: *b.FatRatio}
}

// calculateRequest is the request body for POST /api/nutrition/calculate.
// Pointers distinguish "missing" (400 naming the field) from zero (which the
// calculator rejects as out of domain).
type calculateRequest struct {
	Weight        *float64         `json:"weight" binding:"required"`
	Height        *float64         `json:"height" binding:"required"`
	Age           *int             `json:"age" binding:"required"`
	Gender        *string          `json:"gender" binding:"required"`
	ActivityLevel *string          `json:"activityLevel" binding:"required"`
	Goal          *string          `json:"goal" binding:"required"`
	MacroPreset   string           `json:"macroPreset"`
	CustomMacros  *customMacroBody `json:"customMacros"`
	TargetDeltaKg *float64         `json:"targetDeltaKg"`
}

// calculateInput echoes the normalized request.
type calculateInput struct {
	Weight        float64                 `json:"weight"`
	Height        float64                 `json:"height"`
	Age           int                     `json:"age"`
	Gender        nutrition.Sex           `json:"gender"`
	ActivityLevel nutrition.ActivityLevel `json:"activityLevel"`
	Goal          nutrition.Goal          `json:"goal"`
	MacroPreset   string                  `json:"macroPreset"`
	CustomMacros  *nutrition.MacroRatio   `json:"customMacros,omitempty"`
	TargetDeltaKg *float64                `json:"targetDeltaKg,omitempty"`
}

type roundedMacros struct {
	Calories int `json:"calories"`
	Carbs    int `json:"carbs"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
}

// calculateResponse is the response body for POST /api/nutrition/calculate.
type calculateResponse struct {
	Input              calculateInput       `json:"input"`
	BMR                int                  `json:"bmr"`
	TDEE               int                  `json:"tdee"`
	CalorieNeeds       int                  `json:"calorieNeeds"`
	Macros             roundedMacros        `json:"macros"`
	MacroPreset        string               `json:"macroPreset"`
	MacroRatios        nutrition.MacroRatio `json:"macroRatios"`
	WaterNeeds         int                  `json:"waterNeeds"`
	BMI                nutrition.BMI        `json:"bmi"`
	EstimatedTimeWeeks *int                 `json:"estimatedTimeWeeks"`
	Recommendations    []string             `json:"recommendations"`
}

/* ─── Request → calculator ───────────────────────────────────────────── */

// toNutritionRequest parses enum strings and assembles a typed calculator
// request. Enum errors are returned as *nutrition.UnknownEnumError.
func (r calculateRequest) toNutritionRequest() (nutrition.Request, error) {
	sex, err := nutrition.ParseSex(*r.Gender)
	if err != nil {
		return nutrition.Request{}, err
	}
	level, err := nutrition.ParseActivityLevel(*r.ActivityLevel)
	if err != nil {
		return nutrition.Request{}, err
	}
	goal, err := nutrition.ParseGoal(*r.Goal)
	if err != nil {
		return nutrition.Request{}, err
	}
	return nutrition.Request{
		Biometrics: nutrition.BiometricInput{
			WeightKg: *r.Weight,
			HeightCm: *r.Height,
			AgeYears: *r.Age,
			Sex:      sex,
		},
		ActivityLevel: level,
		Goal:          goal,
		MacroPreset:   r.MacroPreset,
		CustomMacros:  r.CustomMacros.ratio(),
		TargetDeltaKg: r.TargetDeltaKg,
	}, nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func roundInt(v float64) int { return int(math.Round(v)) }

// newCalculateResponse rounds a calculator result for the wire.
// The echoed macroPreset is the one applied, not the raw request value.
func newCalculateResponse(req nutrition.Request, res *nutrition.Result) calculateResponse {
	return calculateResponse{
		Input: calculateInput{
			Weight:        req.Biometrics.WeightKg,
			Height:        req.Biometrics.HeightCm,
			Age:           req.Biometrics.AgeYears,
			Gender:        req.Biometrics.Sex,
			ActivityLevel: req.ActivityLevel,
			Goal:          req.Goal,
			MacroPreset:   res.MacroPreset,
			CustomMacros:  req.CustomMacros,
			TargetDeltaKg: req.TargetDeltaKg,
		},
		BMR:          roundInt(res.BMR),
		TDEE:         roundInt(res.TDEE),
		CalorieNeeds: roundInt(res.CalorieNeeds),
		Macros: roundedMacros{
			Calories: roundInt(res.Macros.Calories),
			Carbs:    roundInt(res.Macros.Carbs),
			Protein:  roundInt(res.Macros.Protein),
			Fat:      roundInt(res.Macros.Fat),
		},
		MacroPreset:        res.MacroPreset,
		MacroRatios:        res.MacroRatio,
		WaterNeeds:         roundInt(res.WaterNeedsMl),
		BMI:                nutrition.BMI{Value: round2(res.BMI.Value), HealthStatus: res.BMI.HealthStatus},
		EstimatedTimeWeeks: res.EstimatedTimeWeeks,
		Recommendations:    res.Recommendations,
	}
}

// calculatorErrorStatus maps calculator errors to an HTTP status and message.
// Input errors are the caller's fault (400); anything else is opaque (500).
func calculatorErrorStatus(err error) (int, string) {
	var (
		vErr *nutrition.ValidationError
		rErr *nutrition.InvalidRatioError
		eErr *nutrition.UnknownEnumError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &rErr), errors.As(err, &eErr):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "failed to calculate nutrition needs"
}

// cacheKey derives a stable key from the typed request.
func cacheKey(req nutrition.Request) string {
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return "nutrition:calc:" + hex.EncodeToString(sum[:])
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// calculateNutrition runs the nutrition calculator on the request body.
// POST /api/nutrition/calculate. Nothing is persisted; identical requests
// may be served from the result cache.
func (h *Handler) calculateNutrition(c *gin.Context) {
	log := h.logger("calculateNutrition")

	var body calculateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		recordCalculation(outcomeInvalid)
		apiError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	req, err := body.toNutritionRequest()
	if err != nil {
		recordCalculation(outcomeInvalid)
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(req)
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(c, key); err != nil {
			log.WithError(err).Warn("cache read failed")
		} else if ok {
			recordCacheLookup(true)
			recordCalculation(outcomeOK)
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
		recordCacheLookup(false)
	}

	if req.CustomMacros == nil && req.MacroPreset != "" && !nutrition.IsPreset(req.MacroPreset) {
		log.WithField("preset", req.MacroPreset).Info("unknown macro preset, using default")
	}

	res, err := nutrition.Calculate(req)
	if err != nil {
		status, msg := calculatorErrorStatus(err)
		if status == http.StatusInternalServerError {
			recordCalculation(outcomeError)
			log.WithError(err).Error("calculation failed")
		} else {
			recordCalculation(outcomeInvalid)
		}
		apiError(c, status, msg)
		return
	}
	recordCalculation(outcomeOK)

	resp := newCalculateResponse(req, res)
	if h.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(c, key, b); err != nil {
				log.WithError(err).Warn("cache write failed")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// listMacroPresets returns the named macro presets.
// GET /api/nutrition/presets.
func (h *Handler) listMacroPresets(c *gin.Context) {
	presets := make(map[string]nutrition.MacroRatio)
	for _, name := range nutrition.PresetNames() {
		_, r := nutrition.LookupPreset(name)
		presets[name] = r
	}
	c.JSON(http.StatusOK, gin.H{"default": nutrition.DefaultPreset, "presets": presets})
}
