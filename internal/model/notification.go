package model

// Notification levels.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
	NotifyWarning = "warning"
)

// Notification is the transient single-slot toast shown to the user.
// Only one is visible at a time; a new one replaces it.
type Notification struct {
	Open    bool   `json:"open"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
