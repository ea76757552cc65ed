package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/suggestions.yaml
var suggestionsYAML []byte

// Suggestion is one recommended action from the per-language, per-date
// advisory table. Suggestions are synthesized into read-time tasks by the
// scheduler and are never persisted.
type Suggestion struct {
	Category string `yaml:"category"`
	Title    string `yaml:"title"`
}

// language code -> YYYY-MM-DD -> suggestions
var suggestionTable map[string]map[string][]Suggestion

func init() {
	if err := yaml.Unmarshal(suggestionsYAML, &suggestionTable); err != nil {
		panic(fmt.Sprintf("i18n: parsing embedded suggestion table: %v", err))
	}
}

// SuggestionsFor returns the suggested actions for an exact YYYY-MM-DD date
// in the given language. Unknown languages and dates yield no suggestions.
func SuggestionsFor(langCode, date string) []Suggestion {
	byDate, ok := suggestionTable[langCode]
	if !ok {
		return nil
	}
	return byDate[date]
}
