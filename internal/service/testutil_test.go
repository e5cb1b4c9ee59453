package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caloriemate/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.DailyLog{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Fullname:     "Test User",
		Username:     "testuser-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		Gender:       models.GenderMale,
		BirthDate:    time.Date(1995, 3, 14, 0, 0, 0, 0, time.UTC),
		PasswordHash: string(hash),
		Role:         models.RoleMember,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fixedClock pins "today" for the daily-log tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type estimateCall struct {
	FoodNames     []string
	ActivityNames []string
}

// stubOracle is a canned CalorieOracle that records every estimation call
// so tests can assert exactly which names were sent.
type stubOracle struct {
	foodCalories     map[string]float64
	activityCalories map[string]float64

	estimateCalls []estimateCall
	reportCalls   int
	recipeCalls   int

	report string
	recipe *RecipeSuggestion
}

var _ CalorieOracle = (*stubOracle)(nil)

func (o *stubOracle) EstimateCalories(_ context.Context, foodNames, activityNames []string, _, _ float64) CalorieEstimate {
	o.estimateCalls = append(o.estimateCalls, estimateCall{
		FoodNames:     foodNames,
		ActivityNames: activityNames,
	})

	estimate := CalorieEstimate{Food: []EstimatedItem{}, Activity: []EstimatedItem{}}
	for _, name := range foodNames {
		estimate.Food = append(estimate.Food, EstimatedItem{Name: name, Calories: o.foodCalories[name]})
	}
	for _, name := range activityNames {
		estimate.Activity = append(estimate.Activity, EstimatedItem{Name: name, Calories: o.activityCalories[name]})
	}
	return estimate
}

func (o *stubOracle) GenerateHealthReport(_ context.Context, _ HealthMetrics, _ string) string {
	o.reportCalls++
	return o.report
}

func (o *stubOracle) GenerateRecipe(_ context.Context, _ float64, _, _ string) *RecipeSuggestion {
	o.recipeCalls++
	return o.recipe
}
