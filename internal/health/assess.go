package health

import "math"

const (
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"

	RiskNormal   = "Normal"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// BMI computes body mass index from height in centimeters and weight in
// kilograms, rounded to one decimal.
func BMI(heightCM, weightKG float64) float64 {
	meters := heightCM / 100
	raw := weightKG / (meters * meters)
	return math.Round(raw*10) / 10
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// RiskFlag grades a reading: high blood pressure, high blood sugar or obesity
// each escalate it independently, the worst one wins.
func RiskFlag(systolic, sugarLevel int, bmiCategory string) string {
	if systolic > 140 || sugarLevel > 180 || bmiCategory == CategoryObese {
		return RiskHigh
	}
	if systolic > 130 || sugarLevel > 140 || bmiCategory == CategoryOverweight {
		return RiskModerate
	}
	return RiskNormal
}
