// Package nutrition computes body metrics used by the dashboard calculators.
package nutrition

import (
	"errors"
	"math"
)

// Sex selects the BMR coefficient.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ActivityLevel scales BMR to total daily energy expenditure.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Goal adjusts the daily calorie target.
type Goal string

const (
	Lose     Goal = "lose"
	Maintain Goal = "maintain"
	Gain     Goal = "gain"
)

const (
	kcalPerMJ     = 239.006
	deficitKcal   = 500
	surplusKcal   = 300
	maleFactor    = 1.083
	femaleFactor  = 0.963
	weightPower   = 0.48
	heightPower   = 0.50
	agePower      = -0.13
	centimetersIn = 100.0
)

var ErrInvalidMeasurement = errors.New("invalid measurement")

// Profile is the body data a calculation is based on.
type Profile struct {
	WeightKg float64
	HeightCm float64
	Age      int
	Sex      Sex
	Activity ActivityLevel
}

func (p Profile) validate() error {
	if p.WeightKg <= 0 || p.HeightCm <= 0 || p.Age <= 0 {
		return ErrInvalidMeasurement
	}
	return nil
}

// BMI is weight over height squared, in kg/m².
func BMI(p Profile) (float64, error) {
	if p.WeightKg <= 0 || p.HeightCm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	h := p.HeightCm / centimetersIn
	return round1(p.WeightKg / (h * h)), nil
}

// BMR is the basal metabolic rate in kcal/day using the Müller equation.
func BMR(p Profile) (float64, error) {
	kcal, err := bmrKcal(p)
	if err != nil {
		return 0, err
	}
	return math.Round(kcal), nil
}

func bmrKcal(p Profile) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	factor := maleFactor
	if p.Sex == Female {
		factor = femaleFactor
	}
	mj := factor *
		math.Pow(p.WeightKg, weightPower) *
		math.Pow(p.HeightCm/centimetersIn, heightPower) *
		math.Pow(float64(p.Age), agePower)
	return mj * kcalPerMJ, nil
}

// ActivityMultiplier returns the TDEE factor for level. Unknown levels count as moderate.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[Moderate]
}

// TDEE is BMR scaled by the activity multiplier, in kcal/day.
func TDEE(p Profile) (float64, error) {
	// Rounded once at the end; scaling an already rounded BMR can drift by a kcal.
	bmr, err := bmrKcal(p)
	if err != nil {
		return 0, err
	}
	return math.Round(bmr * ActivityMultiplier(p.Activity)), nil
}

// EnergyTarget returns the daily calorie target for goal.
func EnergyTarget(p Profile, goal Goal) (float64, error) {
	tdee, err := TDEE(p)
	if err != nil {
		return 0, err
	}
	switch goal {
	case Lose:
		return tdee - deficitKcal, nil
	case Gain:
		return tdee + surplusKcal, nil
	default:
		return tdee, nil
	}
}

// BMICategory returns the WHO class for bmi.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
