package signal

import (
	"testing"
	"time"
)

func TestDialLimiterBlocksOverLimit(t *testing.T) {
	t.Parallel()
	rl := NewDialLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("attempt %d: blocked, want allowed", i+1)
		}
	}
	if rl.Allow("alice") {
		t.Error("attempt 4: allowed, want blocked")
	}
}

func TestDialLimiterPerIdentity(t *testing.T) {
	t.Parallel()
	rl := NewDialLimiter(1, time.Minute)

	if !rl.Allow("alice") {
		t.Fatal("alice first attempt blocked")
	}
	if rl.Allow("alice") {
		t.Error("alice second attempt allowed")
	}
	if !rl.Allow("bob") {
		t.Error("bob blocked by alice's history")
	}
}

func TestDialLimiterWindowSlides(t *testing.T) {
	t.Parallel()
	rl := NewDialLimiter(2, 30*time.Millisecond)

	rl.Allow("alice")
	rl.Allow("alice")
	if rl.Allow("alice") {
		t.Fatal("third attempt inside window allowed")
	}

	time.Sleep(50 * time.Millisecond)
	if !rl.Allow("alice") {
		t.Error("attempt after window expiry blocked")
	}
}
