// Package nutrition computes daily energy and macronutrient targets from a
// person's biometrics, activity level and goal. Everything here is pure: no
// I/O, no shared mutable state, safe to call concurrently.
package nutrition

import "strings"

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	Male   Sex = "MALE"
	Female Sex = "FEMALE"
)

// ActivityLevel is the self-reported activity category used for TDEE.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "SEDENTARY"
	Light      ActivityLevel = "LIGHT"
	Moderate   ActivityLevel = "MODERATE"
	Active     ActivityLevel = "ACTIVE"
	VeryActive ActivityLevel = "VERY_ACTIVE"
)

// ActivityLevels lists the levels from least to most active.
var ActivityLevels = []ActivityLevel{Sedentary, Light, Moderate, Active, VeryActive}

// activityMultipliers maps each activity level to its TDEE multiplier.
// Single source of truth for valid levels; values increase with the enum order.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Goal is the client's stated body-composition goal.
type Goal string

const (
	WeightLoss  Goal = "WEIGHT_LOSS"
	FatLoss     Goal = "FAT_LOSS"
	Maintenance Goal = "MAINTENANCE"
	WeightGain  Goal = "WEIGHT_GAIN"
	MuscleGain  Goal = "MUSCLE_GAIN"
)

// Goals lists every supported goal.
var Goals = []Goal{WeightLoss, FatLoss, Maintenance, WeightGain, MuscleGain}

// goalAdjustments is the fractional caloric surplus (+) or deficit (-) per goal.
var goalAdjustments = map[Goal]float64{
	WeightLoss:  -0.20,
	FatLoss:     -0.15,
	Maintenance: 0,
	WeightGain:  0.15,
	MuscleGain:  0.10,
}

// IsLoss reports whether the goal implies a caloric deficit.
func (g Goal) IsLoss() bool { return g == WeightLoss || g == FatLoss }

// IsGain reports whether the goal implies a caloric surplus.
func (g Goal) IsGain() bool { return g == WeightGain || g == MuscleGain }

// BiometricInput is the body data the BMR formula needs.
type BiometricInput struct {
	WeightKg float64 `json:"weightKg"`
	HeightCm float64 `json:"heightCm"`
	AgeYears int     `json:"ageYears"`
	Sex      Sex     `json:"sex"`
}

// MacroRatio is the share of calories from each macronutrient.
type MacroRatio struct {
	Carb    float64 `json:"carbRatio"`
	Protein float64 `json:"proteinRatio"`
	Fat     float64 `json:"fatRatio"`
}

// Sum returns the total of the three ratios.
func (r MacroRatio) Sum() float64 { return r.Carb + r.Protein + r.Fat }

// Macros holds a calorie total and its split in grams.
type Macros struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// BMIStatus is the WHO weight class for a BMI value.
type BMIStatus string

const (
	Underweight BMIStatus = "underweight"
	Normal      BMIStatus = "normal"
	Overweight  BMIStatus = "overweight"
	Obese       BMIStatus = "obese"
)

// BMI is a body mass index value and its classification.
type BMI struct {
	Value        float64   `json:"value"`
	HealthStatus BMIStatus `json:"healthStatus"`
}

// Request is a fully typed calculator request. CustomMacros, when set,
// overrides MacroPreset. TargetDeltaKg overrides the default timeline target.
type Request struct {
	Biometrics    BiometricInput
	ActivityLevel ActivityLevel
	Goal          Goal
	MacroPreset   string
	CustomMacros  *MacroRatio
	TargetDeltaKg *float64
}

// Result is the aggregate calculator output.
type Result struct {
	BMR                float64    `json:"bmr"`
	TDEE               float64    `json:"tdee"`
	CalorieNeeds       float64    `json:"calorieNeeds"`
	Macros             Macros     `json:"macros"`
	MacroPreset        string     `json:"macroPreset"`
	MacroRatio         MacroRatio `json:"macroRatios"`
	WaterNeedsMl       float64    `json:"waterNeedsMl"`
	BMI                BMI        `json:"bmi"`
	EstimatedTimeWeeks *int       `json:"estimatedTimeWeeks"`
	Recommendations    []string   `json:"recommendations"`
}

// normalizeEnum upper-cases and trims a raw enum value so "very_active",
// " Very_Active " and "VERY_ACTIVE" all resolve to the same constant.
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseSex resolves a raw sex value.
func ParseSex(s string) (Sex, error) {
	switch v := Sex(normalizeEnum(s)); v {
	case Male, Female:
		return v, nil
	}
	return "", &UnknownEnumError{Field: "gender", Value: s}
}

// ParseActivityLevel resolves a raw activity level.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(normalizeEnum(s))
	if _, ok := activityMultipliers[v]; !ok {
		return "", &UnknownEnumError{Field: "activityLevel", Value: s}
	}
	return v, nil
}

// ParseGoal resolves a raw goal.
func ParseGoal(s string) (Goal, error) {
	v := Goal(normalizeEnum(s))
	if _, ok := goalAdjustments[v]; !ok {
		return "", &UnknownEnumError{Field: "goal", Value: s}
	}
	return v, nil
}
