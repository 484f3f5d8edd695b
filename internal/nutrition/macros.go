package nutrition

import (
	"math"
	"sort"
	"strings"
)

// Caloric density per gram.
const (
	KcalPerGramCarb    = 4.0
	KcalPerGramProtein = 4.0
	KcalPerGramFat     = 9.0
)

// RatioTolerance is how far a custom ratio sum may drift from 1.0.
const RatioTolerance = 0.01

// DefaultPreset is used when no preset is named, or the name is unknown.
const DefaultPreset = "balanced"

var macroPresets = map[string]MacroRatio{
	"balanced":    {Carb: 0.40, Protein: 0.30, Fat: 0.30},
	"lowCarb":     {Carb: 0.20, Protein: 0.40, Fat: 0.40},
	"highProtein": {Carb: 0.30, Protein: 0.40, Fat: 0.30},
	"keto":        {Carb: 0.05, Protein: 0.25, Fat: 0.70},
	"endurance":   {Carb: 0.55, Protein: 0.20, Fat: 0.25},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(macroPresets))
	for name := range macroPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presetName returns the canonical spelling of a preset, matching case-insensitively.
func presetName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := macroPresets[name]; ok {
		return name, true
	}
	for canonical := range macroPresets {
		if strings.EqualFold(canonical, name) {
			return canonical, true
		}
	}
	return "", false
}

// LookupPreset resolves a preset name. Unknown or empty names fall back to
// DefaultPreset; the returned name is the preset actually applied.
func LookupPreset(name string) (string, MacroRatio) {
	if canonical, ok := presetName(name); ok {
		return canonical, macroPresets[canonical]
	}
	return DefaultPreset, macroPresets[DefaultPreset]
}

// IsPreset reports whether name is a known preset.
func IsPreset(name string) bool {
	_, ok := presetName(name)
	return ok
}

// Validate checks that the ratios are non-negative and sum to 1.0 within
// RatioTolerance. Nothing is normalized on failure.
func (r MacroRatio) Validate() error {
	sum := r.Sum()
	if r.Carb < 0 || r.Protein < 0 || r.Fat < 0 || math.Abs(sum-1) > RatioTolerance {
		return &InvalidRatioError{Sum: sum}
	}
	return nil
}

// DistributeMacros splits calories into grams per macronutrient. Grams are
// left unrounded so they convert back to exactly calories × ratio sum.
func DistributeMacros(calories float64, r MacroRatio) Macros {
	return Macros{
		Calories: calories,
		Carbs:    calories * r.Carb / KcalPerGramCarb,
		Protein:  calories * r.Protein / KcalPerGramProtein,
		Fat:      calories * r.Fat / KcalPerGramFat,
	}
}

// Kcal converts the gram split back into calories.
func (m Macros) Kcal() float64 {
	return m.Carbs*KcalPerGramCarb + m.Protein*KcalPerGramProtein + m.Fat*KcalPerGramFat
}
