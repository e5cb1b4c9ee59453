package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caloriemate/backend/internal/models"
)

// CalorieOracle is the contract to the external generative-AI service. All
// methods degrade on failure instead of returning an error: calorie
// estimation yields an empty result, report and recipe generation yield
// their zero values. Callers treat those as "no data produced".
type CalorieOracle interface {
	EstimateCalories(ctx context.Context, foodNames, activityNames []string, weight, height float64) CalorieEstimate
	GenerateHealthReport(ctx context.Context, metrics HealthMetrics, language string) string
	GenerateRecipe(ctx context.Context, tdee float64, goal, language string) *RecipeSuggestion
}

// CalorieEstimate is the oracle's per-item calorie breakdown.
type CalorieEstimate struct {
	Food     []EstimatedItem `json:"food"`
	Activity []EstimatedItem `json:"activity"`
}

type EstimatedItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// HealthMetrics is the derived data handed to the report generator.
type HealthMetrics struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	TotalCaloriesIn  float64 `json:"total_calories_in"`
	TotalCaloriesOut float64 `json:"total_calories_out"`
	Weight           float64 `json:"weight"`
	Height           float64 `json:"height"`
	BMI              float64 `json:"bmi"`
	Goal             string  `json:"goal"`
}

// Clock abstracts the wall clock so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// IDailyLogService defines the daily-log operations exposed to handlers.
type IDailyLogService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateDailyLogInput) (*models.DailyLog, error)
	ListAll(ctx context.Context, opts ListOptions) ([]models.DailyLog, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.DailyLog, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DailyLog, error)
	UpdatePersonalData(ctx context.Context, userID, logID uuid.UUID, req *UpdatePersonalDataInput) (*models.DailyLog, error)
	UpdateEntries(ctx context.Context, logID uuid.UUID, food, activity []models.LogEntry) (*models.DailyLog, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.DailyLog, error)
	DeleteFoodEntry(ctx context.Context, logID, entryID uuid.UUID) (*models.DailyLog, error)
	DeleteActivityEntry(ctx context.Context, logID, entryID uuid.UUID) (*models.DailyLog, error)
	GetReport(ctx context.Context, userID uuid.UUID, language string) (string, error)
	GetRecipe(ctx context.Context, userID uuid.UUID, language string) (*RecipeSuggestion, error)
}

// IAuthService defines the account operations exposed to handlers.
type IAuthService interface {
	Register(ctx context.Context, req *RegisterInput) (*models.User, error)
	Activate(ctx context.Context, code string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileInput) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	ValidateToken(token string) (*TokenClaims, error)
}
