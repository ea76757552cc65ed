package i18n

import "github.com/kisansathi/assistant/internal/models"

// DefaultLanguageCode is the designated fallback for translation lookups.
const DefaultLanguageCode = "hi"

// Languages is the onboarding catalog, in display order.
var Languages = []models.Language{
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "ta", Name: "Tamil", NativeName: "தமிழ்"},
	{Code: "te", Name: "Telugu", NativeName: "తెలుగు"},
	{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Code: "ml", Name: "Malayalam", NativeName: "മലയാളം"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
	{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી"},
	{Code: "mr", Name: "Marathi", NativeName: "मराठी"},
	{Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{Code: "ur", Name: "Urdu", NativeName: "اردو"},
	{Code: "or", Name: "Odia", NativeName: "ଓଡ଼ିଆ"},
	{Code: "as", Name: "Assamese", NativeName: "অসমীয়া"},
	{Code: "ne", Name: "Nepali", NativeName: "नेपाली"},
}

// LanguageByCode looks a language up in the catalog.
func LanguageByCode(code string) (models.Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return models.Language{}, false
}

// speechLocales maps language codes to BCP 47 speech locales for the
// platform recognizer and synthesizer.
var speechLocales = map[string]string{
	"en": "en-US",
	"hi": "hi-IN",
	"ta": "ta-IN",
	"te": "te-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"bn": "bn-IN",
	"gu": "gu-IN",
	"mr": "mr-IN",
	"pa": "pa-IN",
	"ur": "ur-PK",
	"or": "or-IN",
	"as": "as-IN",
	"ne": "ne-NP",
}

// SpeechLocale returns the speech locale for a language code, defaulting to
// US English for unknown codes.
func SpeechLocale(code string) string {
	if locale, ok := speechLocales[code]; ok {
		return locale
	}
	return "en-US"
}

// promptNames maps language codes to the English language names used inside
// assistant system instructions ("Always respond in Hindi").
var promptNames = map[string]string{
	"hi": "Hindi",
	"en": "English",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"ml": "Malayalam",
	"bn": "Bengali",
	"gu": "Gujarati",
	"mr": "Marathi",
	"pa": "Punjabi",
	"ur": "Urdu",
	"or": "Odia",
	"as": "Assamese",
	"ne": "Nepali",
}

// PromptLanguageName returns the English name of a language for prompt
// construction, falling back to English for unknown codes.
func PromptLanguageName(code string) string {
	if name, ok := promptNames[code]; ok {
		return name
	}
	return "English"
}
