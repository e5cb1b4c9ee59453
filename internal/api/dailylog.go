package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caloriemate/backend/internal/health"
	"github.com/caloriemate/backend/internal/models"
	"github.com/caloriemate/backend/internal/service"
)

const dateLayout = "2006-01-02"

// DailyLogHandler exposes the daily-log operations over HTTP.
type DailyLogHandler struct {
	logs service.IDailyLogService
}

// NewDailyLogHandler creates a new DailyLogHandler instance.
func NewDailyLogHandler(logs service.IDailyLogService) *DailyLogHandler {
	return &DailyLogHandler{logs: logs}
}

// currentUserID extracts the authenticated user from the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		failure(c, http.StatusUnauthorized, "user not authenticated")
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func parseLogID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		notFound(c, "daily log not found")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrDailyLogNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrUserNotFound):
		notFound(c, "daily log not found")
	case errors.Is(err, service.ErrDailyLogExists):
		failure(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyLogData),
		errors.Is(err, health.ErrInvalidActivityLevel):
		failure(c, http.StatusBadRequest, err.Error())
	default:
		failure(c, http.StatusInternalServerError, message+": "+err.Error())
	}
}

func toLogEntries(payload []EntryPayload) []models.LogEntry {
	entries := make([]models.LogEntry, len(payload))
	for i, p := range payload {
		entries[i] = models.LogEntry{Name: p.Name, Calories: p.Calories}
	}
	return entries
}

func (h *DailyLogHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	input := service.CreateDailyLogInput{
		Weight:        req.Weight,
		Height:        req.Height,
		Goal:          req.Goal,
		ActivityLevel: req.ActivityLevel,
		Food:          toLogEntries(req.Food),
		Activity:      toLogEntries(req.Activity),
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			failure(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	result, err := h.logs.Create(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err, "failed create daily log")
		return
	}
	success(c, http.StatusCreated, result, "success create daily log")
}

func listOptions(c *gin.Context) service.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	opts := service.ListOptions{Page: page, Limit: limit}

	if raw := c.Query("date"); raw != "" {
		if date, err := time.Parse(dateLayout, raw); err == nil {
			opts.Date = &date
		}
	}
	if raw := c.Query("startDate"); raw != "" {
		if date, err := time.Parse(dateLayout, raw); err == nil {
			opts.StartDate = &date
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if date, err := time.Parse(dateLayout, raw); err == nil {
			opts.EndDate = &date
		}
	}
	return opts
}

func (h *DailyLogHandler) FindAll(c *gin.Context) {
	opts := listOptions(c)
	logs, total, err := h.logs.ListAll(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, "failed get all daily log")
		return
	}
	paginated(c, logs, total, opts.Page, opts.Limit, "success get all daily log")
}

func (h *DailyLogHandler) FindAllByMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	opts := listOptions(c)
	logs, total, err := h.logs.ListByUser(c.Request.Context(), userID, opts)
	if err != nil {
		respondError(c, err, "failed get all daily log by member")
		return
	}
	paginated(c, logs, total, opts.Page, opts.Limit, "success get all daily log by member")
}

func (h *DailyLogHandler) FindOne(c *gin.Context) {
	logID, ok := parseLogID(c)
	if !ok {
		return
	}

	result, err := h.logs.Get(c.Request.Context(), logID)
	if err != nil {
		respondError(c, err, "failed get daily log")
		return
	}
	success(c, http.StatusOK, result, "success get daily log")
}

func (h *DailyLogHandler) UpdatePersonalData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := parseLogID(c)
	if !ok {
		return
	}

	var req UpdatePersonalDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.logs.UpdatePersonalData(c.Request.Context(), userID, logID, &service.UpdatePersonalDataInput{
		Weight:        req.Weight,
		Height:        req.Height,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		respondError(c, err, "failed to update personal data")
		return
	}
	success(c, http.StatusOK, result, "personal data updated successfully")
}

func (h *DailyLogHandler) UpdateEntries(c *gin.Context) {
	logID, ok := parseLogID(c)
	if !ok {
		return
	}

	var req UpdateEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.logs.UpdateEntries(c.Request.Context(), logID, toLogEntries(req.Food), toLogEntries(req.Activity))
	if err != nil {
		respondError(c, err, "failed to update food & activity")
		return
	}
	success(c, http.StatusOK, result, "food & activity updated successfully")
}

func (h *DailyLogHandler) Delete(c *gin.Context) {
	logID, ok := parseLogID(c)
	if !ok {
		return
	}

	result, err := h.logs.Delete(c.Request.Context(), logID)
	if err != nil {
		respondError(c, err, "failed delete daily log")
		return
	}
	success(c, http.StatusOK, result, "success delete daily log")
}

func (h *DailyLogHandler) deleteEntry(c *gin.Context, remove func(c *gin.Context, logID, entryID uuid.UUID) (*models.DailyLog, error), message string) {
	logID, ok := parseLogID(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		notFound(c, "daily log not found")
		return
	}

	result, err := remove(c, logID, entryID)
	if err != nil {
		respondError(c, err, "failed "+message)
		return
	}
	success(c, http.StatusOK, result, "success "+message)
}

func (h *DailyLogHandler) DeleteFoodEntry(c *gin.Context) {
	h.deleteEntry(c, func(c *gin.Context, logID, entryID uuid.UUID) (*models.DailyLog, error) {
		return h.logs.DeleteFoodEntry(c.Request.Context(), logID, entryID)
	}, "delete food by id")
}

func (h *DailyLogHandler) DeleteActivityEntry(c *gin.Context) {
	h.deleteEntry(c, func(c *gin.Context, logID, entryID uuid.UUID) (*models.DailyLog, error) {
		return h.logs.DeleteActivityEntry(c.Request.Context(), logID, entryID)
	}, "delete activity by id")
}

func (h *DailyLogHandler) GetReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.logs.GetReport(c.Request.Context(), userID, c.Query("language"))
	if err != nil {
		respondError(c, err, "failed get report")
		return
	}
	success(c, http.StatusOK, report, "success get report")
}

func (h *DailyLogHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipe, err := h.logs.GetRecipe(c.Request.Context(), userID, c.Query("language"))
	if err != nil {
		respondError(c, err, "failed get recipe")
		return
	}
	success(c, http.StatusOK, recipe, "success get recipe")
}
