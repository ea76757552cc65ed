package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/models"
)

// StateStore layers typed, JSON-encoded application state on top of a KV.
// Reads never surface decode errors to the caller: a missing or corrupted
// value degrades to the entity's empty/default form so one bad blob cannot
// take a page down. Every write replaces the whole logical entity
// (last-writer-wins, acceptable for a single-user client).
type StateStore struct {
	kv     KV
	logger *zap.Logger
}

// NewStateStore wraps kv. logger may be nil.
func NewStateStore(kv KV, logger *zap.Logger) *StateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateStore{kv: kv, logger: logger}
}

// get decodes the value under key into out, reporting whether a usable value
// was found. Decode failures are logged and treated as absent.
func (s *StateStore) get(key string, out any) bool {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn("state_read_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("state_decode_failed_using_default",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *StateStore) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		return fmt.Errorf("persisting %q: %w", key, err)
	}
	return nil
}

// Language returns the selected language, or ok=false if none is stored.
func (s *StateStore) Language() (models.Language, bool) {
	var lang models.Language
	if !s.get(KeyLanguage, &lang) || lang.Code == "" {
		return models.Language{}, false
	}
	return lang, true
}

// SetLanguage persists the selected language.
func (s *StateStore) SetLanguage(lang models.Language) error {
	return s.set(KeyLanguage, lang)
}

// UserInfo returns the stored profile, or ok=false if none is stored.
func (s *StateStore) UserInfo() (models.UserInfo, bool) {
	var info models.UserInfo
	ok := s.get(KeyUserInfo, &info)
	return info, ok
}

// SetUserInfo persists the profile. Set once at onboarding.
func (s *StateStore) SetUserInfo(info models.UserInfo) error {
	return s.set(KeyUserInfo, info)
}

// OnboardingComplete reports whether the welcome step has been finished.
func (s *StateStore) OnboardingComplete() bool {
	var done bool
	return s.get(KeyOnboardingComplete, &done) && done
}

// SetOnboardingComplete marks onboarding as finished.
func (s *StateStore) SetOnboardingComplete() error {
	return s.set(KeyOnboardingComplete, true)
}

// PermissionsChecked reports whether the permissions screen was passed.
func (s *StateStore) PermissionsChecked() bool {
	var checked bool
	return s.get(KeyPermissionsChecked, &checked) && checked
}

// SetPermissionsChecked marks the permissions screen as passed.
func (s *StateStore) SetPermissionsChecked() error {
	return s.set(KeyPermissionsChecked, true)
}

// Tasks returns all persisted user tasks. Corrupted state yields an empty
// list, never an error.
func (s *StateStore) Tasks() []models.Task {
	var tasks []models.Task
	if !s.get(KeyTasks, &tasks) {
		return nil
	}
	return tasks
}

// SetTasks rewrites the entire task list.
func (s *StateStore) SetTasks(tasks []models.Task) error {
	return s.set(KeyTasks, tasks)
}

// History returns the persisted interaction log in chronological order.
func (s *StateStore) History() []models.HistoryItem {
	var items []models.HistoryItem
	if !s.get(KeyHistory, &items) {
		return nil
	}
	return items
}

// SetHistory rewrites the entire history log.
func (s *StateStore) SetHistory(items []models.HistoryItem) error {
	return s.set(KeyHistory, items)
}

// ClearHistory removes the whole log.
func (s *StateStore) ClearHistory() error {
	return s.kv.Remove(KeyHistory)
}

// LastReminder returns the YYYY-MM-DD date the daily reminder was last shown.
func (s *StateStore) LastReminder() string {
	var date string
	if !s.get(KeyLastReminder, &date) {
		return ""
	}
	return date
}

// SetLastReminder stamps the reminder date.
func (s *StateStore) SetLastReminder(date string) error {
	return s.set(KeyLastReminder, date)
}

// Reset wipes every persisted key. Used by the operator CLI.
func (s *StateStore) Reset() error {
	keys := []string{
		KeyLanguage, KeyUserInfo, KeyOnboardingComplete,
		KeyPermissionsChecked, KeyTasks, KeyHistory, KeyLastReminder,
	}
	for _, key := range keys {
		if err := s.kv.Remove(key); err != nil {
			return fmt.Errorf("removing %q: %w", key, err)
		}
	}
	return nil
}
