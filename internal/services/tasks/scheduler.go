// Package tasks merges persisted user tasks with the per-date suggestion
// tables into the calendar view, and owns task mutations.
package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
)

// ErrSuggestedTask is returned when a mutation targets a synthetic
// suggestion id. Suggestions are recomputed on every read and never
// persisted, so the completion control is disabled for them.
var ErrSuggestedTask = errors.New("suggested tasks cannot be modified")

// ErrTaskNotFound is returned when no persisted task matches an id.
var ErrTaskNotFound = errors.New("task not found")

// TaskState is the persistence boundary the scheduler needs.
type TaskState interface {
	Tasks() []models.Task
	SetTasks(tasks []models.Task) error
}

// Scheduler presents the merged task view for a calendar date.
type Scheduler struct {
	state  TaskState
	logger *zap.Logger
}

// NewScheduler wires the scheduler to its persistence boundary.
func NewScheduler(state TaskState, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{state: state, logger: logger}
}

// TasksFor returns the suggestions for date in the given language followed
// by the persisted user tasks for date. Deterministic for a fixed date and
// language: suggestions come from a static table and are never stored.
func (s *Scheduler) TasksFor(date, langCode string) []models.Task {
	suggestions := i18n.SuggestionsFor(langCode, date)
	merged := make([]models.Task, 0, len(suggestions))
	for i, sg := range suggestions {
		merged = append(merged, models.Task{
			ID:         fmt.Sprintf("%s%s-%d", models.SuggestedIDPrefix, date, i),
			Title:      sg.Title,
			Category:   models.TaskCategory(sg.Category),
			Date:       date,
			Completed:  false,
			IsUserTask: false,
		})
	}
	for _, t := range s.state.Tasks() {
		if t.Date == date {
			merged = append(merged, t)
		}
	}
	return merged
}

// Partition splits tasks into pending and completed display groups,
// preserving insertion order within each.
func Partition(tasks []models.Task) (pending, completed []models.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// AddTask appends a user task for date. A whitespace-only title is a silent
// no-op, mirroring the form's inline validation. Returns the created task,
// or ok=false when nothing was added.
func (s *Scheduler) AddTask(title, date string) (models.Task, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, false, nil
	}

	task := models.Task{
		ID:         uuid.NewString(),
		Title:      title,
		Category:   models.TaskCategoryGeneral,
		Date:       date,
		Completed:  false,
		IsUserTask: true,
	}

	updated := append(s.state.Tasks(), task)
	if err := s.state.SetTasks(updated); err != nil {
		return models.Task{}, false, fmt.Errorf("persisting task: %w", err)
	}

	s.logger.Info("task_added", zap.String("date", date))
	return task, true, nil
}

// ToggleCompletion flips the completed flag on a persisted user task and
// rewrites the list. Synthetic suggestion ids are rejected.
func (s *Scheduler) ToggleCompletion(taskID string) (models.Task, error) {
	if strings.HasPrefix(taskID, models.SuggestedIDPrefix) {
		return models.Task{}, ErrSuggestedTask
	}

	tasks := s.state.Tasks()
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Completed = !tasks[i].Completed
			if err := s.state.SetTasks(tasks); err != nil {
				return models.Task{}, fmt.Errorf("persisting toggle: %w", err)
			}
			return tasks[i], nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}
