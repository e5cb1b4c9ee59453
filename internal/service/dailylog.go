package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caloriemate/backend/internal/health"
	"github.com/caloriemate/backend/internal/models"
)

var (
	ErrDailyLogExists   = errors.New("daily log already exists")
	ErrDailyLogNotFound = errors.New("daily log not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrEmptyLogData     = errors.New("food and activity data is empty")
	ErrUserNotFound     = errors.New("user not found")
)

// CreateDailyLogInput carries the payload for creating a daily log.
type CreateDailyLogInput struct {
	Date          *time.Time
	Weight        float64
	Height        float64
	Goal          string
	ActivityLevel string
	Food          []models.LogEntry
	Activity      []models.LogEntry
}

// UpdatePersonalDataInput carries a partial personal-data update. Nil
// fields fall back to the values already stored on the log.
type UpdatePersonalDataInput struct {
	Weight        *float64
	Height        *float64
	ActivityLevel *string
}

// ListOptions carries pagination and date filters for log listings.
type ListOptions struct {
	Page      int
	Limit     int
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
}

// DailyLogService maintains the per-user per-day logs and their derived
// metrics. The oracle and clock are injected so tests can substitute a
// stub estimator and pin "today".
type DailyLogService struct {
	db     *gorm.DB
	oracle CalorieOracle
	clock  Clock
}

// Ensure DailyLogService implements IDailyLogService
var _ IDailyLogService = (*DailyLogService)(nil)

// NewDailyLogService creates a new DailyLogService instance. A nil clock
// defaults to the system clock.
func NewDailyLogService(db *gorm.DB, oracle CalorieOracle, clock Clock) *DailyLogService {
	if clock == nil {
		clock = SystemClock()
	}
	return &DailyLogService{
		db:     db,
		oracle: oracle,
		clock:  clock,
	}
}

func (s *DailyLogService) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// todayLog resolves the log with the given id that belongs to the current
// calendar day. Operations that mutate a log only ever target today's.
func (s *DailyLogService) todayLog(ctx context.Context, logID uuid.UUID) (*models.DailyLog, error) {
	start, end := models.DayBounds(s.clock.Now())
	var dailyLog models.DailyLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND log_date >= ? AND log_date <= ?", logID, start, end).
		First(&dailyLog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return &dailyLog, nil
}

// todayLogByUser resolves the current user's log for today.
func (s *DailyLogService) todayLogByUser(ctx context.Context, userID uuid.UUID) (*models.DailyLog, error) {
	start, end := models.DayBounds(s.clock.Now())
	var dailyLog models.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, start, end).
		First(&dailyLog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return &dailyLog, nil
}

// saveEntries is the single write path for every mutation of food or
// activity. It re-derives the totals from the lists being written and
// clears the cached report in the same update, so no call site can forget
// either invariant.
func (s *DailyLogService) saveEntries(ctx context.Context, dailyLog *models.DailyLog, food, activity models.EntryList) (*models.DailyLog, error) {
	dailyLog.Food = food
	dailyLog.Activity = activity
	dailyLog.Recalculate()
	dailyLog.InvalidateReport()

	err := s.db.WithContext(ctx).Model(dailyLog).Updates(map[string]interface{}{
		"food":               dailyLog.Food,
		"activity":           dailyLog.Activity,
		"total_calories_in":  dailyLog.TotalCaloriesIn,
		"total_calories_out": dailyLog.TotalCaloriesOut,
		"calorie_balance":    dailyLog.CalorieBalance,
		"report":             nil,
	}).Error
	if err != nil {
		return nil, err
	}
	return dailyLog, nil
}

// Create creates the log for the given date (default: today). At most one
// log exists per user per day; creation relies on the unique index on
// (user_id, log_date) to decide concurrent races.
func (s *DailyLogService) Create(ctx context.Context, userID uuid.UUID, req *CreateDailyLogInput) (*models.DailyLog, error) {
	logDate := models.DateOnly(s.clock.Now())
	if req.Date != nil {
		logDate = models.DateOnly(*req.Date)
	}

	var existing models.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, logDate).
		First(&existing).Error
	if err == nil {
		return nil, ErrDailyLogExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	age := health.Age(user.BirthDate, s.clock.Now())
	bmr := health.ComputeBMR(req.Weight, req.Height, age, user.Gender)
	tdee, err := health.ComputeTDEE(bmr, req.ActivityLevel)
	if err != nil {
		return nil, err
	}

	dailyLog := &models.DailyLog{
		UserID:        userID,
		LogDate:       logDate,
		Weight:        req.Weight,
		Height:        req.Height,
		Goal:          req.Goal,
		ActivityLevel: req.ActivityLevel,
		BMR:           bmr,
		TDEE:          tdee,
	}

	food, activity := s.mergeEntries(ctx, dailyLog, req.Food, req.Activity)
	dailyLog.Food = food
	dailyLog.Activity = activity

	if err := s.db.WithContext(ctx).Create(dailyLog).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDailyLogExists
		}
		return nil, err
	}
	return dailyLog, nil
}

// ListAll returns a page of all logs, newest first, optionally filtered by
// an inclusive creation-date range. Returns ErrDailyLogNotFound when the
// page is empty.
func (s *DailyLogService) ListAll(ctx context.Context, opts ListOptions) ([]models.DailyLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.DailyLog{})

	if opts.StartDate != nil && opts.EndDate != nil {
		query = query.Where("created_at >= ? AND created_at <= ?", *opts.StartDate, *opts.EndDate)
	} else if opts.StartDate != nil {
		query = query.Where("created_at >= ?", *opts.StartDate)
	} else if opts.EndDate != nil {
		query = query.Where("created_at <= ?", *opts.EndDate)
	}

	return s.paginate(query, "created_at DESC", opts)
}

// ListByUser returns a page of the user's own logs, oldest first,
// optionally filtered by an exact calendar day or a creation-date range.
func (s *DailyLogService) ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.DailyLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.DailyLog{}).Where("user_id = ?", userID)

	if opts.Date != nil {
		start, end := models.DayBounds(*opts.Date)
		query = query.Where("log_date >= ? AND log_date <= ?", start, end)
	}
	if opts.StartDate != nil && opts.EndDate != nil {
		query = query.Where("created_at >= ? AND created_at <= ?", *opts.StartDate, *opts.EndDate)
	}

	return s.paginate(query, "created_at ASC", opts)
}

func (s *DailyLogService) paginate(query *gorm.DB, order string, opts ListOptions) ([]models.DailyLog, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.DailyLog
	err := query.
		Order(order).
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	if len(logs) == 0 {
		return nil, 0, ErrDailyLogNotFound
	}
	return logs, count, nil
}

// Get retrieves a single log by id.
func (s *DailyLogService) Get(ctx context.Context, id uuid.UUID) (*models.DailyLog, error) {
	var dailyLog models.DailyLog
	if err := s.db.WithContext(ctx).First(&dailyLog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return &dailyLog, nil
}

// UpdatePersonalData updates weight, height and activity level on today's
// log and recomputes BMR and TDEE. Age is re-derived from the user's birth
// date at call time. Food, activity and the cached report are untouched.
func (s *DailyLogService) UpdatePersonalData(ctx context.Context, userID, logID uuid.UUID, req *UpdatePersonalDataInput) (*models.DailyLog, error) {
	dailyLog, err := s.todayLog(ctx, logID)
	if err != nil {
		return nil, err
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	weight := dailyLog.Weight
	if req.Weight != nil {
		weight = *req.Weight
	}
	height := dailyLog.Height
	if req.Height != nil {
		height = *req.Height
	}
	activityLevel := dailyLog.ActivityLevel
	if req.ActivityLevel != nil {
		activityLevel = *req.ActivityLevel
	}

	age := health.Age(user.BirthDate, s.clock.Now())
	bmr := health.ComputeBMR(weight, height, age, user.Gender)
	tdee, err := health.ComputeTDEE(bmr, activityLevel)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(dailyLog).Updates(map[string]interface{}{
		"weight":         weight,
		"height":         height,
		"activity_level": activityLevel,
		"bmr":            bmr,
		"tdee":           tdee,
	}).Error
	if err != nil {
		return nil, err
	}

	dailyLog.Weight = weight
	dailyLog.Height = height
	dailyLog.ActivityLevel = activityLevel
	dailyLog.BMR = bmr
	dailyLog.TDEE = tdee
	return dailyLog, nil
}

// UpdateEntries merges the submitted food and activity lists into today's
// log. Entries whose names were logged before reuse the known calorie
// values; the rest are estimated by the oracle in one batched call. Totals
// are recomputed and the cached report cleared in the same write.
func (s *DailyLogService) UpdateEntries(ctx context.Context, logID uuid.UUID, food, activity []models.LogEntry) (*models.DailyLog, error) {
	dailyLog, err := s.todayLog(ctx, logID)
	if err != nil {
		return nil, err
	}

	mergedFood, mergedActivity := s.mergeEntries(ctx, dailyLog, food, activity)
	return s.saveEntries(ctx, dailyLog, mergedFood, mergedActivity)
}

// Delete removes a whole log and returns the deleted record.
func (s *DailyLogService) Delete(ctx context.Context, id uuid.UUID) (*models.DailyLog, error) {
	dailyLog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.DailyLog{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return dailyLog, nil
}

// DeleteFoodEntry removes a single food entry by its id, recomputes the
// calories-in total and clears the cached report.
func (s *DailyLogService) DeleteFoodEntry(ctx context.Context, logID, entryID uuid.UUID) (*models.DailyLog, error) {
	dailyLog, err := s.Get(ctx, logID)
	if err != nil {
		return nil, err
	}

	food, removed := removeEntry(dailyLog.Food, entryID)
	if !removed {
		return nil, ErrEntryNotFound
	}
	return s.saveEntries(ctx, dailyLog, food, dailyLog.Activity)
}

// DeleteActivityEntry removes a single activity entry by its id,
// recomputes the calories-out total and clears the cached report.
func (s *DailyLogService) DeleteActivityEntry(ctx context.Context, logID, entryID uuid.UUID) (*models.DailyLog, error) {
	dailyLog, err := s.Get(ctx, logID)
	if err != nil {
		return nil, err
	}

	activity, removed := removeEntry(dailyLog.Activity, entryID)
	if !removed {
		return nil, ErrEntryNotFound
	}
	return s.saveEntries(ctx, dailyLog, dailyLog.Food, activity)
}

func removeEntry(entries models.EntryList, entryID uuid.UUID) (models.EntryList, bool) {
	remaining := make(models.EntryList, 0, len(entries))
	removed := false
	for _, e := range entries {
		if e.ID == entryID {
			removed = true
			continue
		}
		remaining = append(remaining, e)
	}
	return remaining, removed
}

// GetReport returns the health report for today's log. A report generated
// since the entries last changed is served from the log itself without
// calling the oracle. With no food or activity data at all the report is
// refused; there is nothing meaningful to analyze.
func (s *DailyLogService) GetReport(ctx context.Context, userID uuid.UUID, language string) (string, error) {
	dailyLog, err := s.todayLogByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if dailyLog.Report != nil {
		return *dailyLog.Report, nil
	}
	if dailyLog.TotalCaloriesIn == 0 && dailyLog.TotalCaloriesOut == 0 {
		return "", ErrEmptyLogData
	}

	bmi, _ := health.ComputeBMI(dailyLog.Height, dailyLog.Weight)
	report := s.oracle.GenerateHealthReport(ctx, HealthMetrics{
		BMR:              dailyLog.BMR,
		TDEE:             dailyLog.TDEE,
		TotalCaloriesIn:  dailyLog.TotalCaloriesIn,
		TotalCaloriesOut: dailyLog.TotalCaloriesOut,
		Weight:           dailyLog.Weight,
		Height:           dailyLog.Height,
		BMI:              bmi,
		Goal:             dailyLog.Goal,
	}, language)
	if report == "" {
		// Oracle produced nothing; do not cache the failure.
		return "", nil
	}

	if err := s.db.WithContext(ctx).Model(dailyLog).Update("report", report).Error; err != nil {
		return "", err
	}
	return report, nil
}

// GetRecipe returns a fresh recipe suggestion for today's log. Recipes are
// expected to vary per call and are never cached.
func (s *DailyLogService) GetRecipe(ctx context.Context, userID uuid.UUID, language string) (*RecipeSuggestion, error) {
	dailyLog, err := s.todayLogByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.oracle.GenerateRecipe(ctx, dailyLog.TDEE, dailyLog.Goal, language), nil
}
