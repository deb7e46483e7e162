package domain

import "time"

// CaptureStatus represents the lifecycle state of a detached invocation.
type CaptureStatus string

const (
	CaptureStatusRunning   CaptureStatus = "running"
	CaptureStatusCompleted CaptureStatus = "completed"
	CaptureStatusFailed    CaptureStatus = "failed"
	CaptureStatusKilled    CaptureStatus = "killed"
)

// CaptureSession describes a detached tool invocation tracked by the capture
// manager. The caller owns the session once it is returned: the executor does
// not wait on it or inspect it further.
type CaptureSession struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Args      []string      `json:"args"`
	Status    CaptureStatus `json:"status"`
	ExitCode  *int          `json:"exit_code,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
}

// CaptureListEntry is a summary view of a session for listing.
type CaptureListEntry struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Status    CaptureStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	ExitCode  *int          `json:"exit_code,omitempty"`
}
