package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
)

// LogEntry is a single food or activity item. Each entry gets a stable id
// at creation time; deletion targets the id, while merge reconciliation
// matches on the name.
type LogEntry struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
}

// EntryList is a custom type for storing log entries in a JSONB column.
type EntryList []LogEntry

// Value implements the driver.Valuer interface
func (l EntryList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *EntryList) Scan(value interface{}) error {
	if value == nil {
		*l = EntryList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// TotalCalories sums the calories of all entries in the list.
func (l EntryList) TotalCalories() float64 {
	var total float64
	for _, e := range l {
		total += e.Calories
	}
	return total
}

// FindByName returns the first entry with the given name, matched exactly.
func (l EntryList) FindByName(name string) (LogEntry, bool) {
	for _, e := range l {
		if e.Name == name {
			return e, true
		}
	}
	return LogEntry{}, false
}

// DailyLog is one user's nutrition and activity record for a single
// calendar day. At most one log exists per (user, date). Deletion is a
// hard delete: a soft-delete tombstone would keep holding the unique
// index and block re-creating the same day's log.
type DailyLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_logs_user_date" json:"user_id"`
	LogDate       time.Time `gorm:"not null;uniqueIndex:idx_daily_logs_user_date" json:"date"`
	Weight        float64   `gorm:"not null" json:"weight"`
	Height        float64   `gorm:"not null" json:"height"`
	Goal          string    `gorm:"size:20;not null" json:"goal"`
	ActivityLevel string    `gorm:"size:30;not null" json:"activity_level"`
	Food          EntryList `gorm:"type:jsonb;not null;default:'[]'" json:"food"`
	Activity      EntryList `gorm:"type:jsonb;not null;default:'[]'" json:"activity"`

	TotalCaloriesIn  float64 `gorm:"not null" json:"total_calories_in"`
	TotalCaloriesOut float64 `gorm:"not null" json:"total_calories_out"`
	CalorieBalance   float64 `gorm:"not null" json:"calorie_balance"`
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`

	// Report holds the last generated health report. nil means no report
	// has been generated since the entries last changed.
	Report *string `gorm:"type:text" json:"report"`
}

// Recalculate re-derives the calorie totals and balance from the current
// food and activity lists. Every persistence path must go through it so a
// stored log never carries stale totals.
func (d *DailyLog) Recalculate() {
	d.TotalCaloriesIn = d.Food.TotalCalories()
	d.TotalCaloriesOut = d.Activity.TotalCalories()
	d.CalorieBalance = d.TotalCaloriesIn - d.TotalCaloriesOut
}

// InvalidateReport clears the cached report. Called whenever food or
// activity entries change, since the totals feeding the report are stale.
func (d *DailyLog) InvalidateReport() {
	d.Report = nil
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// BeforeSave mirrors the recompute-on-write rule for full-document saves.
func (d *DailyLog) BeforeSave(tx *gorm.DB) error {
	d.Recalculate()
	return nil
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBounds returns the inclusive start and end of the calendar day
// containing t: [00:00:00.000, 23:59:59.999].
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := DateOnly(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
