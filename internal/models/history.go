package models

// InteractionType identifies which query mode produced a history entry.
type InteractionType string

const (
	InteractionVoice InteractionType = "voice"
	InteractionText  InteractionType = "text"
	InteractionImage InteractionType = "image"
)

// ValidInteractionType reports whether t is a known interaction type.
func ValidInteractionType(t InteractionType) bool {
	switch t {
	case InteractionVoice, InteractionText, InteractionImage:
		return true
	default:
		return false
	}
}

// HistoryItem is one completed assistant round trip. The log is append-only;
// items are never edited or individually removed.
type HistoryItem struct {
	Type      InteractionType `json:"type"`
	Query     string          `json:"query"`
	Response  string          `json:"response"`
	Timestamp string          `json:"timestamp"` // RFC 3339
	Language  string          `json:"language"`  // language code at time of query
}
