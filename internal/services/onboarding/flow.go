// Package onboarding drives the linear first-run sequence
// (permissions → language → profile → welcome → main) and the capability
// probes behind the permissions screen.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/voice"
	"github.com/kisansathi/assistant/internal/store"
)

// Step is one screen of the onboarding sequence.
type Step string

const (
	StepPermissions Step = "permissions"
	StepLanguage    Step = "language"
	StepUserInfo    Step = "userInfo"
	StepWelcome     Step = "welcome"
	StepMain        Step = "main"
)

// ErrUnknownLanguage is returned when a selected code is not in the catalog.
var ErrUnknownLanguage = errors.New("unknown language code")

// Flow tracks onboarding progress against the persisted markers.
type Flow struct {
	state   *store.StateStore
	devices voice.MediaDevices
	logger  *zap.Logger
}

// NewFlow wires the onboarding flow. devices may be nil when no platform
// capture is available; capability probes then report unsupported.
func NewFlow(state *store.StateStore, devices voice.MediaDevices, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{state: state, devices: devices, logger: logger}
}

// Resume determines where to land on startup. When all four persisted
// markers are present and well-formed the app goes straight to the main
// view; any missing or corrupted marker restarts the sequence from its step.
// Re-running Resume never re-shows a finished step (idempotent resume).
func (f *Flow) Resume() Step {
	if !f.state.PermissionsChecked() {
		return StepPermissions
	}
	if _, ok := f.state.Language(); !ok {
		return StepLanguage
	}
	if _, ok := f.state.UserInfo(); !ok {
		return StepUserInfo
	}
	if !f.state.OnboardingComplete() {
		return StepWelcome
	}
	return StepMain
}

// RequestCapability probes one platform capability, releasing the probe
// stream immediately. Shared by the camera and microphone cards.
func (f *Flow) RequestCapability(ctx context.Context, kind models.CapabilityKind) models.CapabilityResult {
	if f.devices == nil {
		return models.CapabilityUnsupported
	}
	stream, err := f.devices.Acquire(ctx, kind)
	if err != nil {
		result := models.CapabilityDenied
		if errors.Is(err, voice.ErrNotSupported) {
			result = models.CapabilityUnsupported
		}
		f.logger.Info("capability_request_failed",
			zap.String("kind", string(kind)),
			zap.String("result", string(result)),
			zap.Error(err),
		)
		return result
	}
	// The probe only establishes the grant; holding the device open would
	// leak it.
	if err := stream.Stop(); err != nil {
		f.logger.Warn("capability_probe_release_failed", zap.Error(err))
	}
	return models.CapabilityGranted
}

// CompletePermissions marks the permissions screen as passed. The grant
// outcomes themselves are transient and not persisted.
func (f *Flow) CompletePermissions() error {
	return f.state.SetPermissionsChecked()
}

// SelectLanguage validates and persists the chosen language.
func (f *Flow) SelectLanguage(code string) (models.Language, error) {
	lang, ok := i18n.LanguageByCode(code)
	if !ok {
		return models.Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	if err := f.state.SetLanguage(lang); err != nil {
		return models.Language{}, err
	}
	f.logger.Info("language_selected", zap.String("code", code))
	return lang, nil
}

// SubmitProfile persists the entered profile.
func (f *Flow) SubmitProfile(info models.UserInfo) error {
	return f.state.SetUserInfo(info)
}

// SkipProfile persists the default profile used when the user declines the
// form.
func (f *Flow) SkipProfile() (models.UserInfo, error) {
	info := models.DefaultUserInfo()
	if err := f.state.SetUserInfo(info); err != nil {
		return models.UserInfo{}, err
	}
	return info, nil
}

// CompleteWelcome finishes onboarding; the next Resume lands on main.
func (f *Flow) CompleteWelcome() error {
	return f.state.SetOnboardingComplete()
}
