// Package history is the append-only record of assistant interactions, with
// the client-side filtering and recency grouping the review page shows.
package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/models"
)

// Recency bucket labels. Older items use their literal date label instead.
const (
	BucketToday     = "Today"
	BucketYesterday = "Yesterday"
	BucketThisWeek  = "This Week"
)

// HistoryState is the persistence boundary the log needs.
type HistoryState interface {
	History() []models.HistoryItem
	SetHistory(items []models.HistoryItem) error
	ClearHistory() error
}

// Log provides append/query/clear/export over the persisted interaction log.
type Log struct {
	state  HistoryState
	logger *zap.Logger
}

// NewLog wires the log to its persistence boundary.
func NewLog(state HistoryState, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{state: state, logger: logger}
}

// Append pushes one completed interaction onto the end of the log.
func (l *Log) Append(item models.HistoryItem) error {
	items := append(l.state.History(), item)
	if err := l.state.SetHistory(items); err != nil {
		return fmt.Errorf("persisting history: %w", err)
	}
	l.logger.Info("history_appended", zap.String("type", string(item.Type)))
	return nil
}

// Filter narrows a List call. Zero values match everything; both filters
// compose with AND.
type Filter struct {
	Type   models.InteractionType
	Search string
}

// List returns matching items most-recent-first. The search term matches
// case-insensitively against query or response.
func (l *Log) List(f Filter) []models.HistoryItem {
	items := l.state.History()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]models.HistoryItem, 0, len(items))
	// Stored chronologically; walk backwards for most-recent-first.
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if f.Type != "" && item.Type != f.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Query), search) &&
			!strings.Contains(strings.ToLower(item.Response), search) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// Group is one recency bucket with its items.
type Group struct {
	Label string               `json:"label"`
	Items []models.HistoryItem `json:"items"`
}

// GroupByRecency buckets items by calendar-day distance from now: Today,
// Yesterday, This Week (2-7 days back), else the item's literal date label.
// Bucket order is first-encountered while scanning, so with a
// most-recent-first input Today naturally precedes Yesterday precedes the
// older buckets without an explicit sort.
func GroupByRecency(items []models.HistoryItem, now time.Time) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, item := range items {
		label := bucketLabel(item.Timestamp, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// bucketLabel classifies one timestamp by calendar-day distance, not by
// elapsed hours: 24h01s ago is still "Yesterday" when it falls on the
// previous calendar day.
func bucketLabel(timestamp string, now time.Time) string {
	t, err := time.ParseInLocation(time.RFC3339, timestamp, now.Location())
	if err != nil {
		return "Unknown"
	}
	t = t.In(now.Location())

	itemDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysBack := int(today.Sub(itemDay).Hours() / 24)

	switch {
	case daysBack <= 0:
		return BucketToday
	case daysBack == 1:
		return BucketYesterday
	case daysBack <= 7:
		return BucketThisWeek
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Clear empties the whole log. Irreversible; the HTTP and CLI surfaces gate
// it behind an explicit confirmation.
func (l *Log) Clear() error {
	if err := l.state.ClearHistory(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	l.logger.Info("history_cleared")
	return nil
}

// Export serializes the full, unfiltered log as an indented JSON document
// suitable for download.
func (l *Log) Export() ([]byte, error) {
	items := l.state.History()
	if items == nil {
		items = []models.HistoryItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding history export: %w", err)
	}
	return data, nil
}
