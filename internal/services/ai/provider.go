package ai

import "context"

// Provider is the interface for generative assistant backends. Every call
// carries the user's language code and optional location so the provider can
// build the system instruction; providers never retry and never persist
// anything. Callers record the (query, response) pair after success.
type Provider interface {
	// AskQuestion answers a free-text farming question.
	AskQuestion(ctx context.Context, question, langCode, location string) (string, error)

	// ProcessVoiceQuery answers a spoken query from its transcript. The
	// system context notes the spoken origin so the model tolerates
	// transcription noise.
	ProcessVoiceQuery(ctx context.Context, transcript, langCode, location string) (string, error)

	// AnalyzeImage analyzes a base64-encoded crop photo and returns advice.
	AnalyzeImage(ctx context.Context, imageBase64, langCode, location string) (string, error)
}

// ProviderFactory creates a provider from a flat string config.
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available assistant providers by name.
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]ProviderFactory)}
}

// Register registers a provider factory under name.
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider builds the named provider.
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "assistant provider not found: " + e.Name
}
