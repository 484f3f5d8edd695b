package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend_Order(t *testing.T) {
	got := Recommend(Obese, FatLoss, Sedentary)

	want := append([]string{}, bmiTips[Obese]...)
	want = append(want, activityTips[Sedentary]...)
	want = append(want, goalTips[FatLoss]...)
	want = append(want, generalTips...)
	assert.Equal(t, want, got)

	// General tips always close the list.
	assert.Equal(t, generalTips, got[len(got)-len(generalTips):])
}

func TestRecommend_ModerateHasNoActivityTips(t *testing.T) {
	got := Recommend(Normal, Maintenance, Moderate)
	assert.Len(t, got, len(bmiTips[Normal])+len(goalTips[Maintenance])+len(generalTips))
}

func TestRecommend_Deterministic(t *testing.T) {
	for _, goal := range Goals {
		for _, level := range ActivityLevels {
			a := Recommend(Overweight, goal, level)
			b := Recommend(Overweight, goal, level)
			assert.Equal(t, a, b)
		}
	}
}

func TestRecommend_ResultIsCopy(t *testing.T) {
	got := Recommend(Normal, Maintenance, Moderate)
	got[len(got)-1] = "mutated"
	assert.NotEqual(t, "mutated", generalTips[len(generalTips)-1])
}
