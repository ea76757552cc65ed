package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/tasks"
	"github.com/kisansathi/assistant/internal/store"
	"github.com/kisansathi/assistant/internal/validation"
)

// TaskHandler handles calendar task requests
type TaskHandler struct {
	scheduler *tasks.Scheduler
	state     *store.StateStore
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(scheduler *tasks.Scheduler, state *store.StateStore) *TaskHandler {
	return &TaskHandler{scheduler: scheduler, state: state}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}/toggle", h.ToggleTask).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title string `json:"title" validate:"max=500"`
	Date  string `json:"date" validate:"required,date_ymd"`
}

// ListTasksResponse is the merged day view split into partitions
type ListTasksResponse struct {
	Date      string        `json:"date"`
	Pending   []models.Task `json:"pending"`
	Completed []models.Task `json:"completed"`
}

// ListTasks lists suggested plus user tasks for a date (default today)
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	langCode := i18n.DefaultLanguageCode
	if lang, ok := h.state.Language(); ok {
		langCode = lang.Code
	}

	merged := h.scheduler.TasksFor(date, langCode)
	pending, completed := tasks.Partition(merged)

	respondJSON(w, http.StatusOK, ListTasksResponse{
		Date:      date,
		Pending:   pending,
		Completed: completed,
	})
}

// CreateTask adds a user task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	task, added, err := h.scheduler.AddTask(req.Title, req.Date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save task")
		return
	}
	if !added {
		// Whitespace-only title: nothing to save
		respondJSON(w, http.StatusOK, map[string]any{"added": false})
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// ToggleTask flips a user task's completion
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	task, err := h.scheduler.ToggleCompletion(taskID)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrSuggestedTask):
			respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
		case errors.Is(err, tasks.ErrTaskNotFound):
			respondJSONError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save task")
		}
		return
	}
	respondJSON(w, http.StatusOK, task)
}
