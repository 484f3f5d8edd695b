package nutrition

import (
	"fmt"
	"math"
)

// Validate checks the biometric fields. All must be present and positive.
func (in BiometricInput) Validate() error {
	if !(in.WeightKg > 0) || math.IsInf(in.WeightKg, 0) {
		return &ValidationError{Field: "weight", Reason: "must be a positive number"}
	}
	if !(in.HeightCm > 0) || math.IsInf(in.HeightCm, 0) {
		return &ValidationError{Field: "height", Reason: "must be a positive number"}
	}
	if in.AgeYears <= 0 {
		return &ValidationError{Field: "age", Reason: "must be a positive integer"}
	}
	if in.Sex != Male && in.Sex != Female {
		return &UnknownEnumError{Field: "gender", Value: string(in.Sex)}
	}
	return nil
}

// Validate checks the whole request before any computation runs.
func (r Request) Validate() error {
	if err := r.Biometrics.Validate(); err != nil {
		return err
	}
	if _, err := r.ActivityLevel.Multiplier(); err != nil {
		return err
	}
	if _, err := r.Goal.Adjustment(); err != nil {
		return err
	}
	if r.CustomMacros != nil {
		if err := r.CustomMacros.Validate(); err != nil {
			return err
		}
	}
	if r.TargetDeltaKg != nil {
		if !(*r.TargetDeltaKg > 0) || math.IsInf(*r.TargetDeltaKg, 0) {
			return &ValidationError{Field: "targetDeltaKg", Reason: "must be a positive number"}
		}
		if *r.TargetDeltaKg > MaxTargetDeltaKg {
			return &ValidationError{Field: "targetDeltaKg", Reason: fmt.Sprintf("must not exceed %g", MaxTargetDeltaKg)}
		}
	}
	return nil
}

// macroRatio resolves the ratio to apply and the name reported for it.
func (r Request) macroRatio() (string, MacroRatio) {
	if r.CustomMacros != nil {
		return "custom", *r.CustomMacros
	}
	return LookupPreset(r.MacroPreset)
}

// Calculate runs the full pipeline. Either a complete result or an error is
// returned; nothing partial.
func Calculate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bmr := BMR(req.Biometrics)
	tdee, err := TDEE(bmr, req.ActivityLevel)
	if err != nil {
		return nil, err
	}
	calories, err := AdjustForGoal(tdee, req.Goal)
	if err != nil {
		return nil, err
	}

	preset, ratio := req.macroRatio()
	macros := DistributeMacros(calories, ratio)

	target := DefaultTargetDeltaKg(req.Goal)
	if req.TargetDeltaKg != nil {
		target = *req.TargetDeltaKg
	}

	bmi := ClassifyBMI(req.Biometrics.WeightKg, req.Biometrics.HeightCm)
	res := &Result{
		BMR:                bmr,
		TDEE:               tdee,
		CalorieNeeds:       calories,
		Macros:             macros,
		MacroPreset:        preset,
		MacroRatio:         ratio,
		WaterNeedsMl:       WaterNeeds(req.Biometrics.WeightKg, req.ActivityLevel),
		BMI:                bmi,
		EstimatedTimeWeeks: EstimateWeeks(tdee, calories, req.Goal, target),
		Recommendations:    Recommend(bmi.HealthStatus, req.Goal, req.ActivityLevel),
	}

	checks := []struct {
		name string
		v    float64
	}{
		{"bmr", res.BMR}, {"tdee", res.TDEE}, {"calorieNeeds", res.CalorieNeeds},
		{"carbs", macros.Carbs}, {"protein", macros.Protein}, {"fat", macros.Fat},
		{"waterNeeds", res.WaterNeedsMl}, {"bmi", res.BMI.Value},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return nil, fmt.Errorf("%s = %v: %w", c.name, c.v, ErrInternal)
		}
	}
	if w, ok := weeksToTarget(tdee, calories, req.Goal, target); ok &&
		(math.IsNaN(w) || w < 0 || w > maxEstimatedWeeks) {
		return nil, fmt.Errorf("estimatedTimeWeeks = %v: %w", w, ErrInternal)
	}
	return res, nil
}
