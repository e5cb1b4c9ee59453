package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caloriemate/backend/internal/api"
	"github.com/caloriemate/backend/internal/models"
	"github.com/caloriemate/backend/internal/service"
)

// cannedOracle returns fixed estimates so the full HTTP flow runs without
// an upstream model.
type cannedOracle struct{}

func (cannedOracle) EstimateCalories(_ context.Context, foodNames, activityNames []string, _, _ float64) service.CalorieEstimate {
	estimate := service.CalorieEstimate{Food: []service.EstimatedItem{}, Activity: []service.EstimatedItem{}}
	for _, name := range foodNames {
		estimate.Food = append(estimate.Food, service.EstimatedItem{Name: name, Calories: 100})
	}
	for _, name := range activityNames {
		estimate.Activity = append(estimate.Activity, service.EstimatedItem{Name: name, Calories: 200})
	}
	return estimate
}

func (cannedOracle) GenerateHealthReport(_ context.Context, _ service.HealthMetrics, _ string) string {
	return "daily intake looks balanced"
}

func (cannedOracle) GenerateRecipe(_ context.Context, _ float64, _, _ string) *service.RecipeSuggestion {
	return &service.RecipeSuggestion{}
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.DailyLog{}))

	authService := service.NewAuthService(db, "router-test-secret")
	logService := service.NewDailyLogService(db, cannedOracle{}, nil)

	r := SetupRouter(Options{
		AuthHandler:     api.NewAuthHandler(authService),
		DailyLogHandler: api.NewDailyLogHandler(logService),
		AuthService:     authService,
	})

	return &testApp{router: r, db: db, auth: authService}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// signUp registers, activates and logs a member in, returning the token.
func (a *testApp) signUp(t *testing.T, username string) string {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"fullname":         "Router Test",
		"username":         username,
		"email":            username + "@example.com",
		"gender":           "male",
		"birth_date":       "1995-03-14",
		"password":         "Secret1",
		"confirm_password": "Secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	code := data["activation_code"].(string)

	w = a.request(t, http.MethodPost, "/api/v1/auth/activation", "", gin.H{"code": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": username,
		"password":   "Secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decodeBody(t, w)["data"].(map[string]interface{})["token"].(string)
}

func (a *testApp) signUpAdmin(t *testing.T, username string) string {
	t.Helper()

	a.signUp(t, username)
	require.NoError(t, a.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("role", models.RoleAdmin).Error)

	// Re-login so the token carries the new role.
	w := a.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": username,
		"password":   "Secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody(t, w)["data"].(map[string]interface{})["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "flowuser")

	w := app.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "flowuser", data["username"])
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodGet, "/api/v1/daily-log-member", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "pwuser")

	w := app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": "pwuser",
		"password":   "Wrong1x",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDailyLogLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "logger")

	// Create today's log with one unknown food item.
	w := app.request(t, http.MethodPost, "/api/v1/daily-log", token, gin.H{
		"weight":         70,
		"height":         175,
		"goal":           "maintain",
		"activity_level": "sedentary",
		"food":           []gin.H{{"name": "apple"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	logID := data["id"].(string)
	assert.Equal(t, 100.0, data["total_calories_in"])

	// A second create on the same day conflicts.
	w = app.request(t, http.MethodPost, "/api/v1/daily-log", token, gin.H{
		"weight":         70,
		"height":         175,
		"goal":           "maintain",
		"activity_level": "sedentary",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Add an activity.
	w = app.request(t, http.MethodPut, "/api/v1/daily-log/"+logID, token, gin.H{
		"activity": []gin.H{{"name": "running"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 200.0, data["total_calories_out"])

	// Remove the food entry and watch the total drop.
	food := data["food"].([]interface{})
	entryID := food[0].(map[string]interface{})["id"].(string)

	w = app.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/daily-log/%s/food/%s", logID, entryID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["total_calories_in"])

	// Report and recipe come from the oracle.
	w = app.request(t, http.MethodGet, "/api/v1/daily-log-report", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "daily intake looks balanced", decodeBody(t, w)["data"])

	w = app.request(t, http.MethodGet, "/api/v1/daily-log-recipe", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Listing the member's logs is paginated.
	w = app.request(t, http.MethodGet, "/api/v1/daily-log-member", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 1.0, body["pagination"].(map[string]interface{})["total"])

	// Delete the whole log.
	w = app.request(t, http.MethodDelete, "/api/v1/daily-log/"+logID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/daily-log/"+logID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDailyLogValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "validator")

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing weight", gin.H{"height": 175, "goal": "maintain", "activity_level": "sedentary"}},
		{"bad goal", gin.H{"weight": 70, "height": 175, "goal": "bulk", "activity_level": "sedentary"}},
		{"bad activity level", gin.H{"weight": 70, "height": 175, "goal": "maintain", "activity_level": "heroic"}},
		{"bad date", gin.H{"weight": 70, "height": 175, "goal": "maintain", "activity_level": "sedentary", "date": "15-06-2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.request(t, http.MethodPost, "/api/v1/daily-log", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestReportOnEmptyLog(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "emptylog")

	w := app.request(t, http.MethodPost, "/api/v1/daily-log", token, gin.H{
		"weight":         70,
		"height":         175,
		"goal":           "maintain",
		"activity_level": "sedentary",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/daily-log-report", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRouteGating(t *testing.T) {
	app := newTestApp(t)
	memberToken := app.signUp(t, "plainmember")
	adminToken := app.signUpAdmin(t, "theadmin")

	// Seed one log so the admin listing has data.
	w := app.request(t, http.MethodPost, "/api/v1/daily-log", memberToken, gin.H{
		"weight":         70,
		"height":         175,
		"goal":           "maintain",
		"activity_level": "sedentary",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/daily-log", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "members cannot list all logs")

	w = app.request(t, http.MethodGet, "/api/v1/daily-log", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodPost, "/api/v1/daily-log", adminToken, gin.H{
		"weight":         70,
		"height":         175,
		"goal":           "maintain",
		"activity_level": "sedentary",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "admins do not own daily logs")
}

func TestUpdateProfileAndPassword(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "profileuser")

	w := app.request(t, http.MethodPut, "/api/v1/auth/update-profile", token, gin.H{
		"fullname": "Renamed User",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Renamed User", data["fullname"])

	w = app.request(t, http.MethodPut, "/api/v1/auth/update-password", token, gin.H{
		"old_password":     "Secret1",
		"password":         "Newpass2",
		"confirm_password": "Newpass2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": "profileuser",
		"password":   "Newpass2",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
