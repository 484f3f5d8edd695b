package nutrition

// BMR returns basal metabolic rate in kcal/day via Mifflin-St Jeor.
// Input is assumed validated; see Calculate.
func BMR(in BiometricInput) float64 {
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears)
	if in.Sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

// Multiplier returns the TDEE multiplier for the level.
func (a ActivityLevel) Multiplier() (float64, error) {
	m, ok := activityMultipliers[a]
	if !ok {
		return 0, &UnknownEnumError{Field: "activityLevel", Value: string(a)}
	}
	return m, nil
}

// TDEE multiplies BMR by the activity level multiplier. An unknown level is
// an error, never a silent default.
func TDEE(bmr float64, level ActivityLevel) (float64, error) {
	m, err := level.Multiplier()
	if err != nil {
		return 0, err
	}
	return bmr * m, nil
}

// Adjustment returns the fractional caloric adjustment for the goal.
func (g Goal) Adjustment() (float64, error) {
	pct, ok := goalAdjustments[g]
	if !ok {
		return 0, &UnknownEnumError{Field: "goal", Value: string(g)}
	}
	return pct, nil
}

// AdjustForGoal applies the goal's surplus or deficit to TDEE.
func AdjustForGoal(tdee float64, goal Goal) (float64, error) {
	pct, err := goal.Adjustment()
	if err != nil {
		return 0, err
	}
	return tdee * (1 + pct), nil
}
