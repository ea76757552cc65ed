package store

// KV is the durable key-value contract every stateful component is built on.
// Implementations must make a Set visible to any subsequent Get immediately
// (synchronous store). A missing key is not an error; Get reports presence
// through its second return value.
//
// The store is injected into services rather than reached through a
// singleton so tests can substitute the in-memory backend.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Persisted keys. Exact names are an implementation choice but must stay
// stable across restarts; treat these as part of the on-disk format.
const (
	KeyLanguage           = "kisan.language"
	KeyUserInfo           = "kisan.user-info"
	KeyOnboardingComplete = "kisan.onboarding-complete"
	KeyPermissionsChecked = "kisan.permissions-checked"
	KeyTasks              = "kisan.tasks"
	KeyHistory            = "kisan.history"
	KeyLastReminder       = "kisan.last-reminder"
)
