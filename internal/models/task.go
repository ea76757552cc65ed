package models

import "strings"

// TaskCategory classifies a calendar task
type TaskCategory string

const (
	TaskCategoryWatering   TaskCategory = "watering"
	TaskCategoryFertilizer TaskCategory = "fertilizer"
	TaskCategoryPesticide  TaskCategory = "pesticide"
	TaskCategoryHarvesting TaskCategory = "harvesting"
	TaskCategoryPlanting   TaskCategory = "planting"
	TaskCategoryWeeding    TaskCategory = "weeding"
	TaskCategoryGeneral    TaskCategory = "general"
)

// ValidTaskCategory reports whether c is one of the known categories.
func ValidTaskCategory(c TaskCategory) bool {
	switch c {
	case TaskCategoryWatering, TaskCategoryFertilizer, TaskCategoryPesticide,
		TaskCategoryHarvesting, TaskCategoryPlanting, TaskCategoryWeeding,
		TaskCategoryGeneral:
		return true
	default:
		return false
	}
}

// SuggestedIDPrefix marks the synthetic ids of tasks derived from the
// suggestion tables. Those tasks are computed at read time and never stored.
const SuggestedIDPrefix = "suggested-"

// Task is a calendar entry for a single local calendar day (YYYY-MM-DD).
// User tasks are persisted; suggested tasks carry a SuggestedIDPrefix id
// and only exist in the merged read view.
type Task struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Category   TaskCategory `json:"category"`
	Date       string       `json:"date"`
	Completed  bool         `json:"completed"`
	IsUserTask bool         `json:"isUserTask"`
}

// IsSuggested reports whether the task is a synthetic suggestion.
func (t Task) IsSuggested() bool {
	return strings.HasPrefix(t.ID, SuggestedIDPrefix)
}
