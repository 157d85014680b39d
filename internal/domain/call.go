package domain

import "time"

// CallStatus classifies how a call attempt ended.
type CallStatus string

const (
	CallCompleted CallStatus = "completed"
	CallMissed    CallStatus = "missed"
	CallDeclined  CallStatus = "declined"
)

// CallKind distinguishes audio-only from video calls. The current client
// only places video calls; audio stays in the vocabulary for the store.
type CallKind string

const (
	CallVideo CallKind = "video"
	CallAudio CallKind = "audio"
)

// CallRecord is the shape handed to the call-log collaborator when a
// session reaches its end state.
type CallRecord struct {
	Caller   Identity      `json:"caller"`
	Receiver Identity      `json:"receiver"`
	Duration time.Duration `json:"duration"`
	Status   CallStatus    `json:"status"`
	Kind     CallKind      `json:"kind"`
}
