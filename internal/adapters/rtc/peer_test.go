package rtc

import (
	"context"
	"errors"
	"testing"

	"github.com/pion/webrtc/v4"

	"github.com/chitchat/realtime/internal/call"
)

type nullSource struct{}

func (nullSource) OpenVideo(context.Context, call.Facing) (Track, error) {
	return nil, errors.New("no capture hardware")
}

func (nullSource) OpenAudio(context.Context) (Track, error) {
	return nil, errors.New("no capture hardware")
}

func TestApplyRemoteOnStableConnectionIsDuplicate(t *testing.T) {
	t.Parallel()
	p, err := NewPeerCall(webrtc.Configuration{}, nullSource{})
	if err != nil {
		t.Fatalf("NewPeerCall: %v", err)
	}
	defer p.Release()

	// A fresh connection sits in the stable state; an answer landing here
	// is a re-send, not a failure.
	err = p.ApplyRemote([]byte(`{"type":"answer","sdp":"v=0\r\n"}`))
	if !call.IsDuplicateSignal(err) {
		t.Errorf("ApplyRemote on stable connection: got %v, want duplicate class", err)
	}
}

func TestApplyRemoteRejectsGarbage(t *testing.T) {
	t.Parallel()
	p, err := NewPeerCall(webrtc.Configuration{}, nullSource{})
	if err != nil {
		t.Fatalf("NewPeerCall: %v", err)
	}
	defer p.Release()

	err = p.ApplyRemote([]byte(`not json`))
	if err == nil {
		t.Fatal("ApplyRemote(garbage): got nil error")
	}
	if call.IsDuplicateSignal(err) {
		t.Error("ApplyRemote(garbage): classified as duplicate, want failure")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()
	p, err := NewPeerCall(webrtc.Configuration{}, nullSource{})
	if err != nil {
		t.Fatalf("NewPeerCall: %v", err)
	}
	p.Release()
	p.Release()
}

func TestAcquireSurfacesHardwareFailure(t *testing.T) {
	t.Parallel()
	p, err := NewPeerCall(webrtc.Configuration{}, nullSource{})
	if err != nil {
		t.Fatalf("NewPeerCall: %v", err)
	}
	defer p.Release()

	if err := p.Acquire(context.Background(), call.FacingUser); err == nil {
		t.Fatal("Acquire with no capture hardware: got nil error")
	}
}
