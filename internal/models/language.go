package models

// Language identifies one of the supported interface languages.
// Selected once during onboarding and read everywhere else.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// UserInfo is the farmer's profile captured during onboarding. Location is
// used verbatim as the weather query and as assistant context, so it is
// never normalized here.
type UserInfo struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// DefaultUserInfo is persisted when the user skips the profile step.
func DefaultUserInfo() UserInfo {
	return UserInfo{Name: "", Location: "India"}
}
