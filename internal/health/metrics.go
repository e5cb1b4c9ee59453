// Package health holds the pure metric calculators: BMR, TDEE, BMI and age
// derivation. None of them touch storage or the network.
package health

import (
	"errors"
	"time"

	"github.com/caloriemate/backend/internal/models"
)

const (
	ActivitySedentary = "sedentary"
	ActivityLight     = "lightly active"
	ActivityModerate  = "moderately active"
	ActivityVery      = "very active"
	ActivitySuper     = "super active"
)

var ErrInvalidActivityLevel = errors.New("invalid activity level")

// tdeeMultipliers maps each recognized activity level to its TDEE factor.
var tdeeMultipliers = map[string]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityVery:      1.725,
	ActivitySuper:     1.9,
}

// ComputeBMR calculates the basal metabolic rate using the Mifflin-St Jeor
// equation. Weight is in kilograms, height in centimeters. The caller is
// responsible for validating weight and height are positive.
func ComputeBMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.GenderMale {
		return base + 5
	}
	return base - 161
}

// ComputeTDEE scales a BMR by the activity-level multiplier.
func ComputeTDEE(bmr float64, activityLevel string) (float64, error) {
	multiplier, ok := tdeeMultipliers[activityLevel]
	if !ok {
		return 0, ErrInvalidActivityLevel
	}
	return bmr * multiplier, nil
}

// ComputeBMI expects height in centimeters and weight in kilograms.
func ComputeBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

// Age returns the calendar-year difference between the birth date and now.
func Age(birthDate, now time.Time) int {
	return now.Year() - birthDate.Year()
}
