package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBMI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		heightCM float64
		weightKG float64
		want     float64
	}{
		{name: "average adult", heightCM: 170, weightKG: 65, want: 22.5},
		{name: "rounds to one decimal", heightCM: 180, weightKG: 80, want: 24.7},
		{name: "obese reading", heightCM: 160, weightKG: 95, want: 37.1},
		{name: "underweight reading", heightCM: 175, weightKG: 50, want: 16.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, BMI(tt.heightCM, tt.weightKG), 0.001)
		})
	}
}

func TestBMICategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bmi  float64
		want string
	}{
		{bmi: 16.0, want: CategoryUnderweight},
		{bmi: 18.4, want: CategoryUnderweight},
		{bmi: 18.5, want: CategoryNormal},
		{bmi: 24.9, want: CategoryNormal},
		{bmi: 25.0, want: CategoryOverweight},
		{bmi: 29.9, want: CategoryOverweight},
		{bmi: 30.0, want: CategoryObese},
		{bmi: 42.0, want: CategoryObese},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BMICategory(tt.bmi), "bmi %.1f", tt.bmi)
	}
}

func TestRiskFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		systolic int
		sugar    int
		category string
		want     string
	}{
		{name: "all clear", systolic: 120, sugar: 100, category: CategoryNormal, want: RiskNormal},
		{name: "high blood pressure", systolic: 141, sugar: 100, category: CategoryNormal, want: RiskHigh},
		{name: "high sugar", systolic: 120, sugar: 181, category: CategoryNormal, want: RiskHigh},
		{name: "obesity alone is high", systolic: 120, sugar: 100, category: CategoryObese, want: RiskHigh},
		{name: "elevated blood pressure", systolic: 131, sugar: 100, category: CategoryNormal, want: RiskModerate},
		{name: "elevated sugar", systolic: 120, sugar: 141, category: CategoryNormal, want: RiskModerate},
		{name: "overweight alone is moderate", systolic: 120, sugar: 100, category: CategoryOverweight, want: RiskModerate},
		{name: "boundary readings stay normal", systolic: 130, sugar: 140, category: CategoryNormal, want: RiskNormal},
		{name: "high beats moderate", systolic: 135, sugar: 200, category: CategoryOverweight, want: RiskHigh},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RiskFlag(tt.systolic, tt.sugar, tt.category))
		})
	}
}
