package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/store"
)

func newTestLog(t *testing.T) (*Log, *store.StateStore) {
	t.Helper()
	state := store.NewStateStore(store.NewMemoryKV(), nil)
	return NewLog(state, nil), state
}

func seedMixedHistory(t *testing.T, l *Log) []models.HistoryItem {
	t.Helper()
	items := []models.HistoryItem{
		{Type: models.InteractionVoice, Query: "When to sow wheat", Response: "Sow in November", Timestamp: "2025-09-10T08:00:00Z", Language: "hi"},
		{Type: models.InteractionText, Query: "Best fertilizer for rice", Response: "Use urea in split doses", Timestamp: "2025-09-11T09:00:00Z", Language: "hi"},
		{Type: models.InteractionImage, Query: "Image analysis", Response: "Leaf blight detected on wheat", Timestamp: "2025-09-12T10:00:00Z", Language: "en"},
		{Type: models.InteractionText, Query: "Monsoon irrigation", Response: "Reduce watering", Timestamp: "2025-09-13T11:00:00Z", Language: "ta"},
		{Type: models.InteractionVoice, Query: "Pesticide for cotton", Response: "Spray neem extract", Timestamp: "2025-09-14T12:00:00Z", Language: "hi"},
	}
	for _, item := range items {
		if err := l.Append(item); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return items
}

func TestList_MostRecentFirst(t *testing.T) {
	t.Parallel()

	l, _ := newTestLog(t)
	seeded := seedMixedHistory(t, l)

	got := l.List(Filter{})
	if len(got) != len(seeded) {
		t.Fatalf("expected %d items, got %d", len(seeded), len(got))
	}
	if got[0].Query != "Pesticide for cotton" {
		t.Errorf("expected newest item first, got %q", got[0].Query)
	}
	if got[len(got)-1].Query != "When to sow wheat" {
		t.Errorf("expected oldest item last, got %q", got[len(got)-1].Query)
	}
}

func TestList_FilterComposition(t *testing.T) {
	t.Parallel()

	l, _ := newTestLog(t)
	seedMixedHistory(t, l)

	tests := []struct {
		name    string
		filter  Filter
		queries []string
	}{
		{
			name:    "type only",
			filter:  Filter{Type: models.InteractionVoice},
			queries: []string{"Pesticide for cotton", "When to sow wheat"},
		},
		{
			name:    "search matches query case-insensitively",
			filter:  Filter{Search: "MONSOON"},
			queries: []string{"Monsoon irrigation"},
		},
		{
			name:    "search matches response text",
			filter:  Filter{Search: "neem"},
			queries: []string{"Pesticide for cotton"},
		},
		{
			name:    "type and search compose with AND",
			filter:  Filter{Type: models.InteractionText, Search: "wheat"},
			queries: nil,
		},
		{
			name:    "search spanning query and response keeps both matches",
			filter:  Filter{Search: "wheat"},
			queries: []string{"Image analysis", "When to sow wheat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := l.List(tt.filter)
			if len(got) != len(tt.queries) {
				t.Fatalf("expected %d items, got %d: %+v", len(tt.queries), len(got), got)
			}
			for i, q := range tt.queries {
				if got[i].Query != q {
					t.Errorf("position %d: expected %q, got %q", i, q, got[i].Query)
				}
			}
		})
	}
}

func TestGroupByRecency_BucketBoundaries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timestamp string
		label     string
	}{
		{"same day", "2025-09-15T06:00:00Z", BucketToday},
		{"just over a day back", "2025-09-14T11:59:59Z", BucketYesterday},
		{"two days back", "2025-09-13T12:00:00Z", BucketThisWeek},
		{"seven days back", "2025-09-08T12:00:00Z", BucketThisWeek},
		{"eight days back", "2025-09-07T12:00:00Z", "Sep 7, 2025"},
		{"unparseable timestamp", "not-a-time", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			groups := GroupByRecency([]models.HistoryItem{{Timestamp: tt.timestamp}}, now)
			if len(groups) != 1 {
				t.Fatalf("expected 1 group, got %d", len(groups))
			}
			if groups[0].Label != tt.label {
				t.Errorf("expected label %q, got %q", tt.label, groups[0].Label)
			}
		})
	}
}

func TestGroupByRecency_OrderFollowsFirstEncounter(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	items := []models.HistoryItem{
		{Query: "a", Timestamp: "2025-09-15T08:00:00Z"},
		{Query: "b", Timestamp: "2025-09-14T08:00:00Z"},
		{Query: "c", Timestamp: "2025-09-15T07:00:00Z"},
		{Query: "d", Timestamp: "2025-09-12T08:00:00Z"},
	}

	groups := GroupByRecency(items, now)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Label != BucketToday || groups[1].Label != BucketYesterday || groups[2].Label != BucketThisWeek {
		t.Errorf("unexpected group order: %q %q %q", groups[0].Label, groups[1].Label, groups[2].Label)
	}
	if len(groups[0].Items) != 2 {
		t.Errorf("expected both same-day items in Today, got %d", len(groups[0].Items))
	}
}

func TestClearAndExport(t *testing.T) {
	t.Parallel()

	l, _ := newTestLog(t)
	seedMixedHistory(t, l)

	doc, err := l.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var exported []models.HistoryItem
	if err := json.Unmarshal(doc, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exported) != 5 {
		t.Errorf("expected 5 exported items, got %d", len(exported))
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := l.List(Filter{}); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %d items", len(got))
	}
}
