package call

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultRingTimeout bounds how long a caller waits for acceptance
// before the attempt is declared a miss.
const DefaultRingTimeout = 20 * time.Second

// Config carries everything a Session needs. Calls and Messages are the
// external persistence collaborators; their writes are fire-and-forget.
type Config struct {
	Local      domain.Identity
	LocalName  string
	Remote     domain.Identity
	RemoteName string
	Role       Role

	Media   Media
	Signals Signaler

	Calls    core.CallLog
	Messages core.MessageLog

	// RingTimeout defaults to DefaultRingTimeout when zero.
	RingTimeout time.Duration
	// OnEnded, when set, is invoked once after the session reached its
	// end state and side effects have fired.
	OnEnded func(Outcome)
	// Now defaults to time.Now. Tests override it.
	Now func() time.Time
}

// Session is one party's local view of one call attempt. Created when a
// party dials or is dialed; done once Ended and the log side effects
// have fired. There is no cross-party session identifier: both ends
// infer "the call" from the most recent exchange with that peer, so a
// late answer after a caller timeout lands on a session that is already
// ended and is ignored.
type Session struct {
	cfg Config

	mu         sync.Mutex
	state      State
	facing     Facing
	dialedAt   time.Time
	acceptedAt time.Time
	endedAt    time.Time
	offer      []byte
	answered   bool
	ringTimer  *time.Timer
	outcome    Outcome
}

func NewSession(cfg Config) *Session {
	if cfg.RingTimeout <= 0 {
		cfg.RingTimeout = DefaultRingTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{cfg: cfg, state: StateIdle, facing: FacingUser}
	cfg.Media.OnConnected(s.onConnected)
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome is valid once State is StateEnded.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Mirrored reports whether the self-preview should be mirrored: only
// while the user-facing camera is active.
func (s *Session) Mirrored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facing == FacingUser
}

// Dial runs the caller side up to the ringing state: notify the callee,
// start the ring timer, acquire media, produce and forward the offer.
// A media-acquisition failure aborts the attempt with no logged outcome;
// the caller may retry manually with a fresh session.
func (s *Session) Dial(ctx context.Context) error {
	s.mu.Lock()
	if s.cfg.Role != RoleCaller || s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("dial in state %s as %s", s.state, s.cfg.Role)
	}
	s.state = StateDialing
	s.dialedAt = s.cfg.Now()
	s.ringTimer = time.AfterFunc(s.cfg.RingTimeout, s.onRingExpired)
	s.mu.Unlock()

	if err := s.cfg.Signals.SendDial(s.cfg.Remote, s.cfg.Local, s.cfg.LocalName); err != nil {
		log.Error().Err(err).Str("module", "call").Str("remote", string(s.cfg.Remote)).Msg("send dial")
	}

	if err := s.cfg.Media.Acquire(ctx, FacingUser); err != nil {
		s.abort()
		return fmt.Errorf("acquire media: %w", err)
	}

	offer, err := s.cfg.Media.CreateOffer(ctx)
	if err != nil {
		s.abort()
		return fmt.Errorf("create offer: %w", err)
	}

	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	s.state = StateOfferSent
	s.mu.Unlock()

	if err := s.cfg.Signals.SendOffer(s.cfg.Remote, offer); err != nil {
		log.Error().Err(err).Str("module", "call").Str("remote", string(s.cfg.Remote)).Msg("send offer")
	}

	s.mu.Lock()
	if s.state == StateOfferSent {
		s.state = StateRinging
	}
	s.mu.Unlock()
	return nil
}

// Ring moves a fresh callee session into the incoming-ring state.
func (s *Session) Ring() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Role == RoleCallee && s.state == StateIdle {
		s.state = StateIncomingRing
	}
}

// HandleOffer stores the caller's offer payload. If the user already
// answered, the session proceeds to media and answer immediately.
func (s *Session) HandleOffer(ctx context.Context, signal []byte) error {
	s.mu.Lock()
	if s.cfg.Role != RoleCallee || s.state == StateEnded {
		s.mu.Unlock()
		return nil
	}
	s.offer = signal
	proceed := s.answered && s.state == StateAwaitingOffer
	s.mu.Unlock()

	if proceed {
		return s.answerNow(ctx)
	}
	return nil
}

// Answer is the callee's user action. If the offer payload has not
// arrived yet the session waits in AwaitingOffer and the arrival of the
// offer completes the answer.
func (s *Session) Answer(ctx context.Context) error {
	s.mu.Lock()
	if s.cfg.Role != RoleCallee || s.state == StateEnded {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	s.answered = true
	if s.offer == nil {
		s.state = StateAwaitingOffer
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.answerNow(ctx)
}

func (s *Session) answerNow(ctx context.Context) error {
	if err := s.cfg.Media.Acquire(ctx, FacingUser); err != nil {
		s.abort()
		return fmt.Errorf("acquire media: %w", err)
	}

	s.mu.Lock()
	offer := s.offer
	s.mu.Unlock()

	answer, err := s.cfg.Media.CreateAnswer(ctx, offer)
	if err != nil {
		s.abort()
		return fmt.Errorf("create answer: %w", err)
	}

	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	s.acceptedAt = s.cfg.Now()
	s.state = StateAnswering
	s.mu.Unlock()

	if err := s.cfg.Signals.SendAnswer(s.cfg.Remote, answer); err != nil {
		log.Error().Err(err).Str("module", "call").Str("remote", string(s.cfg.Remote)).Msg("send answer")
	}
	return nil
}

// HandleAccepted applies the callee's answer payload on the caller side.
// The first acceptance stops the ring timer and marks the accept time; a
// payload landing on an already-stable session is a harmless duplicate.
func (s *Session) HandleAccepted(signal []byte) {
	s.mu.Lock()
	if s.cfg.Role != RoleCaller || s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	if s.acceptedAt.IsZero() {
		s.acceptedAt = s.cfg.Now()
	}
	if s.state != StateActive {
		s.state = StateConnecting
	}
	s.stopRingTimerLocked()
	s.mu.Unlock()

	if err := s.cfg.Media.ApplyRemote(signal); err != nil {
		if IsDuplicateSignal(err) {
			log.Debug().Err(err).Str("module", "call").Msg("duplicate signal ignored")
			return
		}
		log.Error().Err(err).Str("module", "call").Msg("apply remote signal")
	}
}

// onConnected fires when the transport reports a live connection after
// applying the peer's payload.
func (s *Session) onConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded {
		return
	}
	if s.acceptedAt.IsZero() {
		s.acceptedAt = s.cfg.Now()
	}
	s.state = StateActive
	s.stopRingTimerLocked()
	log.Info().Str("module", "call").Str("remote", string(s.cfg.Remote)).Msg("call active")
}

// FlipCamera switches between the user-facing and environment capture
// devices. The old device is released before the new one is opened.
func (s *Session) FlipCamera(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	target := FacingEnvironment
	if s.facing == FacingEnvironment {
		target = FacingUser
	}
	s.mu.Unlock()

	if err := s.cfg.Media.SwitchCamera(ctx, target); err != nil {
		return fmt.Errorf("switch camera: %w", err)
	}

	s.mu.Lock()
	s.facing = target
	s.mu.Unlock()
	return nil
}

// Hangup is the local user ending the attempt, whatever its state.
func (s *Session) Hangup() {
	s.end(true)
}

// HandleRemoteEnd reacts to the peer's end signal.
func (s *Session) HandleRemoteEnd() {
	s.end(false)
}

// OnTransportDrop forces the session to its end state when our own
// signaling channel is gone. The peer cannot be notified.
func (s *Session) OnTransportDrop() {
	s.end(false)
}

func (s *Session) onRingExpired() {
	s.mu.Lock()
	expired := s.cfg.Role == RoleCaller && s.acceptedAt.IsZero() &&
		(s.state == StateDialing || s.state == StateOfferSent || s.state == StateRinging)
	s.mu.Unlock()
	if !expired {
		return
	}
	log.Info().Str("module", "call").Str("remote", string(s.cfg.Remote)).Dur("after", s.cfg.RingTimeout).Msg("ring timed out")
	s.end(true)
}

// end drives the one-way transition into StateEnded: stop the timer,
// release media, classify, fire the log side effects, then notify the
// peer unless the end came from them. Idempotent.
func (s *Session) end(notifyPeer bool) {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.stopRingTimerLocked()
	s.state = StateEnded
	s.endedAt = s.cfg.Now()
	accepted := !s.acceptedAt.IsZero()
	var duration time.Duration
	if accepted {
		duration = s.endedAt.Sub(s.acceptedAt)
	}
	out := Classify(s.cfg.Role, accepted, duration)
	s.outcome = out
	s.mu.Unlock()

	s.cfg.Media.Release()
	s.logOutcome(out)

	if notifyPeer {
		if err := s.cfg.Signals.SendEnd(s.cfg.Remote); err != nil {
			log.Error().Err(err).Str("module", "call").Str("remote", string(s.cfg.Remote)).Msg("send end")
		}
	}
	if s.cfg.OnEnded != nil {
		s.cfg.OnEnded(out)
	}
}

// abort tears the session down after a media failure: no outcome is
// logged because the call never started. The error is surfaced to the
// user by the caller of Dial/Answer.
func (s *Session) abort() {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.stopRingTimerLocked()
	s.state = StateEnded
	s.endedAt = s.cfg.Now()
	s.mu.Unlock()
	s.cfg.Media.Release()
}

func (s *Session) logOutcome(out Outcome) {
	caller, receiver := s.cfg.Local, s.cfg.Remote
	if s.cfg.Role == RoleCallee {
		caller, receiver = s.cfg.Remote, s.cfg.Local
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cfg.Calls.CreateCallRecord(ctx, domain.CallRecord{
		Caller:   caller,
		Receiver: receiver,
		Duration: out.Duration,
		Status:   out.Status,
		Kind:     domain.CallVideo,
	}); err != nil {
		log.Error().Err(err).Str("module", "call").Msg("log call record")
	}

	if err := s.cfg.Messages.CreateMessage(ctx, domain.Message{
		ConversationID: domain.ConversationID(s.cfg.Local, s.cfg.Remote),
		Sender:         s.cfg.Local,
		Receiver:       s.cfg.Remote,
		Text:           out.Text,
		Kind:           out.MessageKind,
	}); err != nil {
		log.Error().Err(err).Str("module", "call").Msg("log call message")
	}
}

func (s *Session) stopRingTimerLocked() {
	if s.ringTimer != nil {
		s.ringTimer.Stop()
		s.ringTimer = nil
	}
}
