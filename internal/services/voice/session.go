package voice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
)

// State names one step of the capture lifecycle. While Recording, the
// recognizer and the recorder run concurrently against the same microphone
// stream; every transition out of Recording stops both and releases the
// stream.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateStopped    State = "stopped"
	StateSubmitting State = "submitting"
	StateResponded  State = "responded"
	StateError      State = "error"
)

// ErrorReason classifies why a session entered StateError.
type ErrorReason string

const (
	ReasonNone             ErrorReason = ""
	ReasonPermissionDenied ErrorReason = "permission_denied"
	ReasonNoDevice         ErrorReason = "no_device"
	ReasonNotSupported     ErrorReason = "not_supported"
	ReasonPlatform         ErrorReason = "platform_error"
	ReasonAPIError         ErrorReason = "api_error"
	ReasonEmptyTranscript  ErrorReason = "empty_transcript"
)

// ErrAlreadyRecording is returned when Start is called mid-capture.
var ErrAlreadyRecording = errors.New("capture already in progress")

// Responder answers a voice transcript. Satisfied by the assistant service.
type Responder interface {
	ProcessVoiceQuery(ctx context.Context, transcript, langCode, location string) (string, error)
}

// HistoryAppender records a completed interaction. Satisfied by the history
// service.
type HistoryAppender interface {
	Append(item models.HistoryItem) error
}

// Session coordinates one user's capture flow. All methods are safe for
// concurrent use; the event loop and callers synchronize on the mutex.
type Session struct {
	devices     MediaDevices
	recognizer  Recognizer
	recorder    Recorder
	synthesizer Synthesizer
	responder   Responder
	history     HistoryAppender
	logger      *zap.Logger

	mu        sync.Mutex
	state     State
	reason    ErrorReason
	scratch   string // latest interim segment, replaced on every event
	committed string // frozen final segments
	response  string
	stream    MediaStream
	done      chan struct{} // closed when the event loop has fully cleaned up

	lang     models.Language
	location string
}

// NewSession wires a capture session for one user profile.
func NewSession(devices MediaDevices, recognizer Recognizer, recorder Recorder, synthesizer Synthesizer,
	responder Responder, history HistoryAppender, lang models.Language, location string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		devices:     devices,
		recognizer:  recognizer,
		recorder:    recorder,
		synthesizer: synthesizer,
		responder:   responder,
		history:     history,
		lang:        lang,
		location:    location,
		logger:      logger,
		state:       StateIdle,
	}
}

// Snapshot is the observable session state.
type Snapshot struct {
	State      State       `json:"state"`
	Reason     ErrorReason `json:"reason,omitempty"`
	Transcript string      `json:"transcript"`
	Response   string      `json:"response,omitempty"`
}

// Snapshot returns the current state, combined transcript, and response.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Reason:     s.reason,
		Transcript: s.transcriptLocked(),
		Response:   s.response,
	}
}

// transcriptLocked joins final and interim segments. Callers hold mu.
func (s *Session) transcriptLocked() string {
	return strings.TrimSpace(s.committed + s.scratch)
}

// Start acquires the microphone and runs the recognizer and the recorder
// together. Acquisition or startup failure leaves the session in StateError
// with a specific reason and nothing held open.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateRecording || s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	// Reset per-capture state.
	s.scratch, s.committed, s.response = "", "", ""
	s.reason = ReasonNone
	s.mu.Unlock()

	stream, err := s.devices.Acquire(ctx, models.CapabilityMicrophone)
	if err != nil {
		s.fail(classifyAcquireError(err), err)
		return err
	}

	if err := s.recorder.Start(stream); err != nil {
		_ = stream.Stop()
		s.fail(ReasonPlatform, err)
		return err
	}

	events, err := s.recognizer.Start(i18n.SpeechLocale(s.lang.Code))
	if err != nil {
		_ = s.recorder.Stop()
		_ = stream.Stop()
		s.fail(classifyAcquireError(err), err)
		return err
	}

	s.mu.Lock()
	s.stream = stream
	s.state = StateRecording
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.logger.Info("voice_capture_started", zap.String("language", s.lang.Code))

	go s.run(ctx, events, done)
	return nil
}

// run consumes transcript events until the recognizer ends, then releases
// both streams and auto-submits. The recognizer closing its channel is the
// single exit signal, so silence timeouts and explicit stops take the same
// path and nothing is left holding the microphone.
func (s *Session) run(ctx context.Context, events <-chan TranscriptEvent, done chan struct{}) {
	defer close(done)

	for ev := range events {
		s.mu.Lock()
		switch ev.Kind {
		case TranscriptFinal:
			s.committed += ev.Text + " "
			s.scratch = ""
		default:
			s.scratch = ev.Text
		}
		s.mu.Unlock()
	}

	s.release()

	s.mu.Lock()
	transcript := s.transcriptLocked()
	if transcript == "" {
		// Nothing usable was heard; surface a "please repeat" condition and
		// return to Idle without touching the gateway.
		s.state = StateIdle
		s.reason = ReasonEmptyTranscript
		s.mu.Unlock()
		s.logger.Info("voice_capture_empty_transcript")
		return
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	s.submit(ctx, transcript)
}

// submit sends the transcript to the assistant and records the exchange.
func (s *Session) submit(ctx context.Context, transcript string) {
	response, err := s.responder.ProcessVoiceQuery(ctx, transcript, s.lang.Code, s.location)
	if err != nil {
		s.logger.Warn("voice_query_failed", zap.Error(err))
		s.mu.Lock()
		// Stopped, not Error: the transcript is intact and the user may
		// retry the submission or start a fresh capture.
		s.state = StateStopped
		s.reason = ReasonAPIError
		s.mu.Unlock()
		return
	}

	item := models.HistoryItem{
		Type:      models.InteractionVoice,
		Query:     transcript,
		Response:  response,
		Timestamp: time.Now().Format(time.RFC3339),
		Language:  s.lang.Code,
	}
	if err := s.history.Append(item); err != nil {
		s.logger.Warn("voice_history_append_failed", zap.Error(err))
	}

	s.mu.Lock()
	s.state = StateResponded
	s.response = response
	s.mu.Unlock()
	s.logger.Info("voice_query_responded", zap.Int("response_length", len(response)))
}

// Resubmit retries a failed submission with the captured transcript.
func (s *Session) Resubmit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return errors.New("no failed submission to retry")
	}
	transcript := s.transcriptLocked()
	s.state = StateSubmitting
	s.reason = ReasonNone
	s.mu.Unlock()

	s.submit(ctx, transcript)
	return nil
}

// Stop ends the capture early and waits for cleanup and auto-submission to
// finish. Safe to call when not recording.
func (s *Session) Stop() {
	s.mu.Lock()
	recording := s.state == StateRecording
	done := s.done
	s.mu.Unlock()

	if !recording {
		return
	}
	if err := s.recognizer.Stop(); err != nil {
		s.logger.Warn("recognizer_stop_failed", zap.Error(err))
	}
	if done != nil {
		<-done
	}
}

// Cancel abandons the capture, releasing both streams and discarding any
// transcript. Deterministic regardless of whether anything was heard.
func (s *Session) Cancel() {
	s.mu.Lock()
	recording := s.state == StateRecording
	done := s.done
	s.mu.Unlock()

	if recording {
		if err := s.recognizer.Stop(); err != nil {
			s.logger.Warn("recognizer_stop_failed", zap.Error(err))
		}
		if done != nil {
			<-done
		}
	}

	s.mu.Lock()
	s.scratch, s.committed, s.response = "", "", ""
	s.state = StateIdle
	s.reason = ReasonNone
	s.mu.Unlock()
	s.logger.Info("voice_capture_cancelled")
}

// PlayResponse speaks the assistant's answer in the session language's
// speech locale. No effect on the state machine.
func (s *Session) PlayResponse() {
	s.mu.Lock()
	response := s.response
	s.mu.Unlock()
	if response == "" {
		return
	}
	go func() {
		if err := s.synthesizer.Speak(response, i18n.SpeechLocale(s.lang.Code)); err != nil {
			s.logger.Warn("speech_synthesis_failed", zap.Error(err))
		}
	}()
}

// release stops the recorder and the microphone stream. Idempotent.
func (s *Session) release() {
	if err := s.recorder.Stop(); err != nil {
		s.logger.Warn("recorder_stop_failed", zap.Error(err))
	}
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()
	if stream != nil {
		if err := stream.Stop(); err != nil {
			s.logger.Warn("stream_release_failed", zap.Error(err))
		}
	}
}

func (s *Session) fail(reason ErrorReason, err error) {
	s.mu.Lock()
	s.state = StateError
	s.reason = reason
	s.mu.Unlock()
	s.logger.Warn("voice_capture_failed",
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
}

func classifyAcquireError(err error) ErrorReason {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, ErrNoDevice):
		return ReasonNoDevice
	case errors.Is(err, ErrNotSupported):
		return ReasonNotSupported
	default:
		return ReasonPlatform
	}
}
