package nutrition

import "math"

const (
	waterMlPerKg = 35.0
	// highActivityWaterFactor applies to ACTIVE and VERY_ACTIVE.
	highActivityWaterFactor = 1.2

	// kcalPerKg is the energy content of one kilogram of body mass.
	kcalPerKg = 7700.0

	DefaultLossTargetKg = 5.0
	DefaultGainTargetKg = 3.0
	// MaxTargetDeltaKg bounds a caller-supplied timeline target.
	MaxTargetDeltaKg = 650.0

	// maxEstimatedWeeks keeps projections representable as a 32-bit integer.
	maxEstimatedWeeks = math.MaxInt32
)

// BMI cutoffs (WHO).
const (
	bmiUnderweightBelow = 18.5
	bmiNormalBelow      = 25.0
	bmiOverweightBelow  = 30.0
)

// WaterNeeds estimates daily water intake in mL.
func WaterNeeds(weightKg float64, level ActivityLevel) float64 {
	ml := weightKg * waterMlPerKg
	if level == Active || level == VeryActive {
		ml *= highActivityWaterFactor
	}
	return ml
}

// ClassifyBMI computes BMI from kg and cm and buckets it.
func ClassifyBMI(weightKg, heightCm float64) BMI {
	heightM := heightCm / 100
	value := weightKg / (heightM * heightM)

	var status BMIStatus
	switch {
	case value < bmiUnderweightBelow:
		status = Underweight
	case value < bmiNormalBelow:
		status = Normal
	case value < bmiOverweightBelow:
		status = Overweight
	default:
		status = Obese
	}
	return BMI{Value: value, HealthStatus: status}
}

// DefaultTargetDeltaKg returns the timeline target used when the caller does
// not supply one: 5 kg for loss goals, 3 kg for gain goals, 0 otherwise.
func DefaultTargetDeltaKg(goal Goal) float64 {
	switch {
	case goal.IsLoss():
		return DefaultLossTargetKg
	case goal.IsGain():
		return DefaultGainTargetKg
	}
	return 0
}

// weeksToTarget is the unrounded projection behind EstimateWeeks. ok is false
// when there is nothing to project.
func weeksToTarget(tdee, calorieNeeds float64, goal Goal, targetDeltaKg float64) (weeks float64, ok bool) {
	if goal == Maintenance || targetDeltaKg <= 0 {
		return 0, false
	}
	dailyDelta := math.Abs(calorieNeeds - tdee)
	if dailyDelta == 0 {
		return 0, false
	}
	kgPerWeek := dailyDelta * 7 / kcalPerKg
	return math.Ceil(targetDeltaKg / kgPerWeek), true
}

// EstimateWeeks projects, linearly, how many weeks the daily surplus or
// deficit needs to move body weight by targetDeltaKg. Returns nil when there
// is nothing to project (maintenance, no calorie delta, or no target) and
// when the projection does not fit in an int32.
func EstimateWeeks(tdee, calorieNeeds float64, goal Goal, targetDeltaKg float64) *int {
	w, ok := weeksToTarget(tdee, calorieNeeds, goal, targetDeltaKg)
	if !ok || math.IsNaN(w) || w > maxEstimatedWeeks {
		return nil
	}
	weeks := int(w)
	return &weeks
}
