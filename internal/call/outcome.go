package call

import (
	"fmt"
	"time"

	"github.com/chitchat/realtime/internal/domain"
)

// Outcome is what the session reports once it reaches the end state: the
// call-record status plus the chat-log entry describing it.
type Outcome struct {
	Status      domain.CallStatus
	Duration    time.Duration
	MessageKind domain.MessageKind
	Text        string
}

// Classify derives the outcome from local history alone. Acceptance at
// any point means completed; without it, the side that ended decides:
// the caller walking away (or timing out) is a miss, the callee walking
// away is a decline.
func Classify(role Role, accepted bool, duration time.Duration) Outcome {
	if accepted {
		return Outcome{
			Status:      domain.CallCompleted,
			Duration:    duration,
			MessageKind: domain.MsgCallEnded,
			Text:        fmt.Sprintf("Video Call • %s", FormatDuration(duration)),
		}
	}
	if role == RoleCaller {
		return Outcome{
			Status:      domain.CallMissed,
			MessageKind: domain.MsgCallMissed,
			Text:        "Missed video call",
		}
	}
	return Outcome{
		Status:      domain.CallDeclined,
		MessageKind: domain.MsgCallDeclined,
		Text:        "Call declined",
	}
}

// FormatDuration renders a call duration the way the chat log shows it,
// e.g. "0m 30s". Rounded to whole seconds.
func FormatDuration(d time.Duration) string {
	sec := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}
