// Package rtc is the pion-backed media side of a call session: one
// peer connection, the local capture tracks feeding it, and the
// offer/answer payloads the coordinator forwards between the parties.
package rtc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/call"
)

var errAlreadyStable = errors.New("remote description already applied, signaling state stable")

// Track is one live capture device feeding a local track. Stop must
// release the hardware; capture devices are exclusive.
type Track interface {
	Local() webrtc.TrackLocal
	Stop() error
}

// CaptureSource opens the local camera and microphone. Implementations
// are platform-specific and injected; this package never touches
// hardware directly.
type CaptureSource interface {
	OpenVideo(ctx context.Context, facing call.Facing) (Track, error)
	OpenAudio(ctx context.Context) (Track, error)
}

func DefaultConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun1.l.google.com:19302"}},
			{URLs: []string{"stun:stun2.l.google.com:19302"}},
		},
	}
}

// PeerCall implements call.Media on top of a single PeerConnection.
type PeerCall struct {
	pc     *webrtc.PeerConnection
	source CaptureSource

	mu          sync.Mutex
	audio       Track
	video       Track
	videoSender *webrtc.RTPSender
	closed      bool

	onConnected func()
}

func NewPeerCall(cfg webrtc.Configuration, source CaptureSource) (*PeerCall, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	p := &PeerCall{pc: pc, source: source}

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "rtc").Str("peer_connection_state", s.String()).Msg("peer state")
		if s == webrtc.PeerConnectionStateConnected && p.onConnected != nil {
			p.onConnected()
		}
	})
	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Debug().Str("module", "rtc").Str("ice_state", s.String()).Msg("ICE state")
	})

	return p, nil
}

func (p *PeerCall) OnConnected(fn func()) { p.onConnected = fn }

// Acquire opens microphone and camera and attaches both to the peer
// connection.
func (p *PeerCall) Acquire(ctx context.Context, facing call.Facing) error {
	audio, err := p.source.OpenAudio(ctx)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	video, err := p.source.OpenVideo(ctx, facing)
	if err != nil {
		_ = audio.Stop()
		return fmt.Errorf("open camera: %w", err)
	}

	if _, err := p.pc.AddTrack(audio.Local()); err != nil {
		_ = audio.Stop()
		_ = video.Stop()
		return fmt.Errorf("add audio track: %w", err)
	}
	sender, err := p.pc.AddTrack(video.Local())
	if err != nil {
		_ = audio.Stop()
		_ = video.Stop()
		return fmt.Errorf("add video track: %w", err)
	}

	p.mu.Lock()
	p.audio, p.video, p.videoSender = audio, video, sender
	p.mu.Unlock()
	return nil
}

// SwitchCamera stops the active capture device before opening the new
// one, then swaps the outgoing track in place. No renegotiation.
func (p *PeerCall) SwitchCamera(ctx context.Context, facing call.Facing) error {
	p.mu.Lock()
	old, sender := p.video, p.videoSender
	p.mu.Unlock()
	if sender == nil {
		return errors.New("no active video track")
	}

	if old != nil {
		if err := old.Stop(); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("stop old camera")
		}
	}

	video, err := p.source.OpenVideo(ctx, facing)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	if err := sender.ReplaceTrack(video.Local()); err != nil {
		_ = video.Stop()
		return fmt.Errorf("replace video track: %w", err)
	}

	p.mu.Lock()
	p.video = video
	p.mu.Unlock()
	return nil
}

// CreateOffer produces the complete local offer, ICE candidates
// included, as the signal payload for the coordinator.
func (p *PeerCall) CreateOffer(ctx context.Context) ([]byte, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return p.setLocalAndGather(ctx, offer)
}

// CreateAnswer applies the peer's offer and produces the answer payload.
func (p *PeerCall) CreateAnswer(ctx context.Context, offerPayload []byte) ([]byte, error) {
	var offer webrtc.SessionDescription
	if err := json.Unmarshal(offerPayload, &offer); err != nil {
		return nil, fmt.Errorf("decode offer: %w", err)
	}
	if err := p.pc.SetRemoteDescription(offer); err != nil {
		return nil, fmt.Errorf("apply offer: %w", err)
	}
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}
	return p.setLocalAndGather(ctx, answer)
}

func (p *PeerCall) setLocalAndGather(ctx context.Context, desc webrtc.SessionDescription) ([]byte, error) {
	gatherComplete := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(desc); err != nil {
		return nil, fmt.Errorf("set local description: %w", err)
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return json.Marshal(p.pc.LocalDescription())
}

// ApplyRemote applies the peer's payload to this session. Applying it to
// an already-stable connection yields the tagged duplicate class so the
// session can swallow it.
func (p *PeerCall) ApplyRemote(signal []byte) error {
	var desc webrtc.SessionDescription
	if err := json.Unmarshal(signal, &desc); err != nil {
		return call.FailedSignal(fmt.Errorf("decode signal: %w", err))
	}
	if p.pc.SignalingState() == webrtc.SignalingStateStable {
		return call.DuplicateSignal(errAlreadyStable)
	}
	if err := p.pc.SetRemoteDescription(desc); err != nil {
		return call.FailedSignal(err)
	}
	return nil
}

// Release stops every capture device and closes the peer connection.
// Safe to call more than once.
func (p *PeerCall) Release() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	audio, video := p.audio, p.video
	p.audio, p.video, p.videoSender = nil, nil, nil
	p.mu.Unlock()

	if audio != nil {
		if err := audio.Stop(); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("stop microphone")
		}
	}
	if video != nil {
		if err := video.Stop(); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("stop camera")
		}
	}
	if err := p.pc.Close(); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Msg("close peer connection")
	}
}
