package voice

import (
	"context"
	"errors"

	"github.com/kisansathi/assistant/internal/models"
)

// Typed acquisition failures. The distinction matters to the UI: a denial is
// recoverable through browser settings, no-device and unsupported are not.
var (
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrNoDevice         = errors.New("no microphone device found")
	ErrNotSupported     = errors.New("speech capture not supported")
)

// MediaStream is an acquired capture stream. Stop releases the underlying
// device; it must be called on every exit path.
type MediaStream interface {
	Stop() error
}

// MediaDevices acquires capture streams from the platform.
type MediaDevices interface {
	// Acquire requests a stream for the given capability. Failures are one
	// of the typed errors above, or an arbitrary platform error.
	Acquire(ctx context.Context, kind models.CapabilityKind) (MediaStream, error)
}

// TranscriptKind distinguishes interim from final recognizer output.
type TranscriptKind string

const (
	// TranscriptInterim replaces the scratch transcript.
	TranscriptInterim TranscriptKind = "interim"
	// TranscriptFinal appends to the committed transcript.
	TranscriptFinal TranscriptKind = "final"
)

// TranscriptEvent is one incremental speech-to-text result.
type TranscriptEvent struct {
	Kind TranscriptKind
	Text string
}

// Recognizer is a continuous speech-to-text stream. Start returns a channel
// of transcript events that the recognizer closes when recognition ends,
// whether by silence timeout or an explicit Stop.
type Recognizer interface {
	Start(locale string) (<-chan TranscriptEvent, error)
	Stop() error
}

// Recorder captures raw audio from an acquired stream, in parallel with the
// recognizer.
type Recorder interface {
	Start(stream MediaStream) error
	Stop() error
}

// Synthesizer speaks response text aloud. Fire-and-forget: failures are
// logged, never surfaced into the capture flow.
type Synthesizer interface {
	Speak(text, locale string) error
}
