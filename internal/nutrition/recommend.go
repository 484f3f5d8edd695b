package nutrition

var bmiTips = map[BMIStatus][]string{
	Underweight: {
		"Your BMI is below the healthy range. Focus on nutrient-dense foods and consider a modest caloric surplus.",
		"Include healthy fats such as nuts, avocado and olive oil to raise calorie intake without large meal volumes.",
	},
	Normal: {
		"Your BMI is in the healthy range. Keep a consistent, balanced eating pattern.",
	},
	Overweight: {
		"Your BMI is above the healthy range. A moderate caloric deficit and regular activity will help.",
		"Prioritize vegetables, lean protein and whole grains to stay full on fewer calories.",
	},
	Obese: {
		"Your BMI is in the obese range. Consider working with a healthcare provider on a sustainable plan.",
		"Aim for gradual loss of 0.5–1 kg per week rather than aggressive restriction.",
		"Limit sugary drinks and highly processed foods.",
	},
}

var activityTips = map[ActivityLevel][]string{
	Sedentary: {
		"Try to add at least 150 minutes of moderate activity per week, starting with daily walks.",
	},
	Light: {
		"Gradually increase training frequency or intensity to raise your daily energy expenditure.",
	},
	Active: {
		"Time carbohydrates around training sessions to support performance and recovery.",
	},
	VeryActive: {
		"Time carbohydrates around training sessions to support performance and recovery.",
		"Replace electrolytes on heavy training days and schedule rest days to avoid overtraining.",
	},
}

var goalTips = map[Goal][]string{
	WeightLoss: {
		"Keep protein high during a deficit to preserve lean mass.",
		"Track intake consistently; small untracked snacks add up quickly.",
	},
	FatLoss: {
		"Combine resistance training with your deficit so most of the loss comes from fat.",
		"Keep protein high during a deficit to preserve lean mass.",
	},
	Maintenance: {
		"Weigh in weekly and adjust intake if your weight trends more than 1 kg in either direction.",
	},
	WeightGain: {
		"Add calorie-dense whole foods and an extra meal or snack to reach your surplus.",
	},
	MuscleGain: {
		"Aim for 1.6–2.2 g of protein per kg of body weight spread across the day.",
		"Follow a progressive resistance training program to turn the surplus into muscle.",
	},
}

var generalTips = []string{
	"Eat a variety of vegetables and fruits every day.",
	"Spread water intake through the day and drink more around exercise.",
	"Aim for 7–9 hours of sleep to support recovery and appetite control.",
}

// Recommend returns advisory strings for the given BMI class, goal and
// activity level. Order is fixed: BMI tips, activity tips, goal tips, then
// the general tips. The result is a fresh slice the caller may modify.
func Recommend(status BMIStatus, goal Goal, level ActivityLevel) []string {
	var out []string
	out = append(out, bmiTips[status]...)
	out = append(out, activityTips[level]...)
	out = append(out, goalTips[goal]...)
	out = append(out, generalTips...)
	return out
}
