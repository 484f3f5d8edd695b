package nutrition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRequest returns a 30-year-old 70 kg / 175 cm male, moderately active,
// maintaining weight on the balanced preset.
func validRequest() Request {
	return Request{
		Biometrics:    BiometricInput{WeightKg: 70, HeightCm: 175, AgeYears: 30, Sex: Male},
		ActivityLevel: Moderate,
		Goal:          Maintenance,
		MacroPreset:   "balanced",
	}
}

/* ─── Pipeline ───────────────────────────────────────────────────────── */

func TestCalculate_ModerateMaleMaintenance(t *testing.T) {
	res, err := Calculate(validRequest())
	require.NoError(t, err)

	// 10*70 + 6.25*175 - 5*30 + 5
	assert.InDelta(t, 1648.75, res.BMR, 1e-9)
	assert.InDelta(t, 1648.75*1.55, res.TDEE, 1e-9)
	assert.Equal(t, res.TDEE, res.CalorieNeeds)

	assert.Equal(t, "balanced", res.MacroPreset)
	assert.Equal(t, MacroRatio{Carb: 0.40, Protein: 0.30, Fat: 0.30}, res.MacroRatio)
	assert.InDelta(t, res.CalorieNeeds*0.40/4, res.Macros.Carbs, 1e-9)
	assert.InDelta(t, res.CalorieNeeds*0.30/4, res.Macros.Protein, 1e-9)
	assert.InDelta(t, res.CalorieNeeds*0.30/9, res.Macros.Fat, 1e-9)

	assert.InDelta(t, 22.857, res.BMI.Value, 0.001)
	assert.Equal(t, Normal, res.BMI.HealthStatus)
	assert.InDelta(t, 2450.0, res.WaterNeedsMl, 1e-9)
	assert.Nil(t, res.EstimatedTimeWeeks)
	assert.NotEmpty(t, res.Recommendations)
}

func TestCalculate_FemaleBMR(t *testing.T) {
	req := validRequest()
	req.Biometrics.Sex = Female
	res, err := Calculate(req)
	require.NoError(t, err)
	assert.InDelta(t, 1482.75, res.BMR, 1e-9)
}

func TestCalculate_Idempotent(t *testing.T) {
	req := validRequest()
	req.Goal = FatLoss
	req.ActivityLevel = VeryActive

	first, err := Calculate(req)
	require.NoError(t, err)
	second, err := Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculate_CustomMacrosOverridePreset(t *testing.T) {
	req := validRequest()
	req.MacroPreset = "keto"
	req.CustomMacros = &MacroRatio{Carb: 0.5, Protein: 0.25, Fat: 0.25}

	res, err := Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, "custom", res.MacroPreset)
	assert.Equal(t, *req.CustomMacros, res.MacroRatio)
}

func TestCalculate_UnknownPresetFallsBackToBalanced(t *testing.T) {
	req := validRequest()
	req.MacroPreset = "carnivore"

	res, err := Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset, res.MacroPreset)
	assert.Equal(t, macroPresets[DefaultPreset], res.MacroRatio)
}

func TestCalculate_TargetDeltaOverride(t *testing.T) {
	req := validRequest()
	req.Goal = WeightLoss

	def, err := Calculate(req)
	require.NoError(t, err)
	require.NotNil(t, def.EstimatedTimeWeeks)
	assert.Equal(t, 11, *def.EstimatedTimeWeeks)

	target := 10.0
	req.TargetDeltaKg = &target
	custom, err := Calculate(req)
	require.NoError(t, err)
	require.NotNil(t, custom.EstimatedTimeWeeks)
	assert.Equal(t, 22, *custom.EstimatedTimeWeeks)
}

/* ─── Errors ─────────────────────────────────────────────────────────── */

func TestCalculate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(r *Request)
		field string
	}{
		{"zero weight", func(r *Request) { r.Biometrics.WeightKg = 0 }, "weight"},
		{"negative height", func(r *Request) { r.Biometrics.HeightCm = -1 }, "height"},
		{"zero age", func(r *Request) { r.Biometrics.AgeYears = 0 }, "age"},
		{"zero target delta", func(r *Request) { z := 0.0; r.TargetDeltaKg = &z }, "targetDeltaKg"},
		{"target delta above bound", func(r *Request) { v := MaxTargetDeltaKg + 1; r.TargetDeltaKg = &v }, "targetDeltaKg"},
		{"huge target delta", func(r *Request) { v := 1e300; r.TargetDeltaKg = &v }, "targetDeltaKg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mut(&req)

			res, err := Calculate(req)
			assert.Nil(t, res)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestCalculate_UnknownEnums(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(r *Request)
		field string
	}{
		{"activity", func(r *Request) { r.ActivityLevel = "INVALID" }, "activityLevel"},
		{"goal", func(r *Request) { r.Goal = "BULK" }, "goal"},
		{"sex", func(r *Request) { r.Biometrics.Sex = "" }, "gender"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mut(&req)

			_, err := Calculate(req)
			var eErr *UnknownEnumError
			require.True(t, errors.As(err, &eErr), "expected UnknownEnumError, got %v", err)
			assert.Equal(t, tc.field, eErr.Field)
		})
	}
}

func TestCalculate_InvalidCustomRatio(t *testing.T) {
	req := validRequest()
	req.CustomMacros = &MacroRatio{Carb: 0.4, Protein: 0.2, Fat: 0.2}

	res, err := Calculate(req)
	assert.Nil(t, res)
	var rErr *InvalidRatioError
	require.True(t, errors.As(err, &rErr))
	assert.InDelta(t, 0.8, rErr.Sum, 1e-9)
}

func TestCalculate_ImplausibleInputIsInternalError(t *testing.T) {
	// Tiny body, old age: Mifflin-St Jeor goes negative.
	req := validRequest()
	req.Biometrics = BiometricInput{WeightKg: 1, HeightCm: 10, AgeYears: 90, Sex: Female}

	_, err := Calculate(req)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCalculate_UnrepresentableTimelineIsInternal(t *testing.T) {
	// Tiny but positive biometrics leave a deficit of a few nanocalories,
	// so the projection runs past the int32 range.
	req := validRequest()
	req.Goal = WeightLoss
	req.Biometrics = BiometricInput{WeightKg: 1e-9, HeightCm: 1e-9, AgeYears: 1, Sex: Male}

	res, err := Calculate(req)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInternal)
}

/* ─── Properties ─────────────────────────────────────────────────────── */

func TestTDEE_MonotonicInActivity(t *testing.T) {
	bmr := BMR(validRequest().Biometrics)
	prev := bmr
	for _, level := range ActivityLevels {
		tdee, err := TDEE(bmr, level)
		require.NoError(t, err)
		assert.Greater(t, tdee, prev, "TDEE for %s should exceed previous level", level)
		prev = tdee
	}
}

func TestAdjustForGoal_Symmetry(t *testing.T) {
	const tdee = 2500.0
	for _, goal := range Goals {
		t.Run(string(goal), func(t *testing.T) {
			cal, err := AdjustForGoal(tdee, goal)
			require.NoError(t, err)
			switch {
			case goal.IsLoss():
				assert.Less(t, cal, tdee)
			case goal.IsGain():
				assert.Greater(t, cal, tdee)
			default:
				assert.Equal(t, tdee, cal)
			}
		})
	}
}

func TestTDEE_UnknownLevel(t *testing.T) {
	_, err := TDEE(1500, ActivityLevel("couch"))
	var eErr *UnknownEnumError
	assert.True(t, errors.As(err, &eErr))
}

func TestParseEnums_CaseInsensitive(t *testing.T) {
	level, err := ParseActivityLevel(" very_active ")
	require.NoError(t, err)
	assert.Equal(t, VeryActive, level)

	goal, err := ParseGoal("muscle_gain")
	require.NoError(t, err)
	assert.Equal(t, MuscleGain, goal)

	sex, err := ParseSex("female")
	require.NoError(t, err)
	assert.Equal(t, Female, sex)

	_, err = ParseActivityLevel("INVALID")
	assert.EqualError(t, err, `unknown activityLevel "INVALID"`)
}
