package models

// PermissionStatus is the state of a single platform capability grant.
type PermissionStatus string

const (
	PermissionPending PermissionStatus = "pending"
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// CapabilityKind names a platform capability the onboarding flow may probe.
type CapabilityKind string

const (
	CapabilityCamera     CapabilityKind = "camera"
	CapabilityMicrophone CapabilityKind = "microphone"
)

// CapabilityResult is the outcome of a capability request. Unsupported is
// distinct from denied: retrying cannot help on an unsupported platform,
// while a denial can be reversed in browser settings.
type CapabilityResult string

const (
	CapabilityGranted     CapabilityResult = "granted"
	CapabilityDenied      CapabilityResult = "denied"
	CapabilityUnsupported CapabilityResult = "unsupported"
)

// PermissionState is the transient camera/microphone grant state shown on
// the permissions screen. Only a "permissions checked" flag is persisted.
type PermissionState struct {
	Camera     PermissionStatus `json:"camera"`
	Microphone PermissionStatus `json:"microphone"`
}

// NewPermissionState returns a state with both capabilities pending.
func NewPermissionState() PermissionState {
	return PermissionState{Camera: PermissionPending, Microphone: PermissionPending}
}
