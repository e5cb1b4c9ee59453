package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/caloriemate/backend/internal/models"
)

// carryOverCalories copies the calorie value of a previously logged entry
// onto each incoming entry with the same name. Names are matched exactly;
// an incoming entry with no match keeps whatever calories it was submitted
// with (usually zero).
func carryOverCalories(incoming []models.LogEntry, existing models.EntryList) []models.LogEntry {
	updated := make([]models.LogEntry, len(incoming))
	for i, item := range incoming {
		if old, ok := existing.FindByName(item.Name); ok {
			item.Calories = old.Calories
		}
		updated[i] = item
	}
	return updated
}

// splitKnown partitions entries into those that already carry a calorie
// value and those that still need an estimate. A calorie value of exactly
// zero counts as unknown and is re-queried.
func splitKnown(entries []models.LogEntry) (known []models.LogEntry, unknownNames []string) {
	for _, item := range entries {
		if item.Calories > 0 {
			known = append(known, item)
		} else {
			unknownNames = append(unknownNames, item.Name)
		}
	}
	return known, unknownNames
}

// appendMerged builds the merged list: all existing entries preserved,
// then the freshly estimated items, then the incoming items whose calories
// were already known. Estimated items get a new stable id here.
func appendMerged(existing models.EntryList, estimated []EstimatedItem, known []models.LogEntry) models.EntryList {
	merged := make(models.EntryList, 0, len(existing)+len(estimated)+len(known))
	merged = append(merged, existing...)
	for _, item := range estimated {
		merged = append(merged, models.LogEntry{
			ID:       uuid.New(),
			Name:     item.Name,
			Calories: item.Calories,
		})
	}
	for _, item := range known {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		merged = append(merged, item)
	}
	return merged
}

// mergeEntries reconciles a log's existing food and activity lists with an
// incoming submission. Previously known calorie values are reused; only
// entries with no usable value go to the oracle, in one batched call
// covering both lists. The oracle degrades to an empty estimate on
// failure, so a merge never fails the update - it just adds no new data.
func (s *DailyLogService) mergeEntries(ctx context.Context, log *models.DailyLog, newFood, newActivity []models.LogEntry) (models.EntryList, models.EntryList) {
	knownFood, unknownFood := splitKnown(carryOverCalories(newFood, log.Food))
	knownActivity, unknownActivity := splitKnown(carryOverCalories(newActivity, log.Activity))

	var estimate CalorieEstimate
	if len(unknownFood) > 0 || len(unknownActivity) > 0 {
		estimate = s.oracle.EstimateCalories(ctx, unknownFood, unknownActivity, log.Weight, log.Height)
	}

	food := appendMerged(log.Food, estimate.Food, knownFood)
	activity := appendMerged(log.Activity, estimate.Activity, knownActivity)
	return food, activity
}
