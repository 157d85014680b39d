package call

import (
	"testing"
	"time"

	"github.com/chitchat/realtime/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		role     Role
		accepted bool
		duration time.Duration
		status   domain.CallStatus
		kind     domain.MessageKind
		text     string
	}{
		{
			name:     "accepted call is completed",
			role:     RoleCaller,
			accepted: true,
			duration: 30 * time.Second,
			status:   domain.CallCompleted,
			kind:     domain.MsgCallEnded,
			text:     "Video Call • 0m 30s",
		},
		{
			name:     "accepted call on callee side",
			role:     RoleCallee,
			accepted: true,
			duration: 95 * time.Second,
			status:   domain.CallCompleted,
			kind:     domain.MsgCallEnded,
			text:     "Video Call • 1m 35s",
		},
		{
			name:   "unaccepted caller end is missed",
			role:   RoleCaller,
			status: domain.CallMissed,
			kind:   domain.MsgCallMissed,
			text:   "Missed video call",
		},
		{
			name:   "unaccepted callee end is declined",
			role:   RoleCallee,
			status: domain.CallDeclined,
			kind:   domain.MsgCallDeclined,
			text:   "Call declined",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := Classify(tc.role, tc.accepted, tc.duration)
			if out.Status != tc.status {
				t.Errorf("status: got %v, want %v", out.Status, tc.status)
			}
			if out.MessageKind != tc.kind {
				t.Errorf("kind: got %v, want %v", out.MessageKind, tc.kind)
			}
			if out.Text != tc.text {
				t.Errorf("text: got %q, want %q", out.Text, tc.text)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m 0s"},
		{30 * time.Second, "0m 30s"},
		{60 * time.Second, "1m 0s"},
		{61 * time.Second, "1m 1s"},
		{30*time.Second + 600*time.Millisecond, "0m 31s"},
		{10*time.Minute + 5*time.Second, "10m 5s"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignalErrorKinds(t *testing.T) {
	t.Parallel()
	base := errSentinel("already stable")

	dup := DuplicateSignal(base)
	if !IsDuplicateSignal(dup) {
		t.Error("IsDuplicateSignal(dup): got false, want true")
	}
	failed := FailedSignal(base)
	if IsDuplicateSignal(failed) {
		t.Error("IsDuplicateSignal(failed): got true, want false")
	}
	if IsDuplicateSignal(base) {
		t.Error("IsDuplicateSignal(plain): got true, want false")
	}
}

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
