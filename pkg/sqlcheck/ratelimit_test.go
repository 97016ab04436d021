package sqlcheck

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_WindowReset(t *testing.T) {
	l := NewRateLimiter(time.Minute, 3)
	base := time.Now()
	now := base
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("call %d denied", i+1)
		}
	}
	if l.Allow("client") {
		t.Fatal("4th call within window should be denied")
	}

	// Denial does not consume anything; still denied.
	if l.Allow("client") {
		t.Fatal("still within window, should remain denied")
	}

	now = base.Add(61 * time.Second)
	if !l.Allow("client") {
		t.Fatal("new window should reset the count")
	}
}

func TestRateLimiter_SweepsExpiredRecords(t *testing.T) {
	l := NewRateLimiter(time.Minute, 30)
	base := time.Now()
	now := base
	l.now = func() time.Time { return now }

	l.Allow("one-off-a")
	l.Allow("one-off-b")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	// Records older than twice the window are garbage collected on the
	// next check call.
	now = base.Add(3 * time.Minute)
	l.Allow("fresh")
	if l.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", l.Len())
	}
}

func TestRateLimiter_ConcurrentSingleKey(t *testing.T) {
	const limit = 30
	l := NewRateLimiter(time.Minute, limit)

	var wg sync.WaitGroup
	allowed := make(chan bool, limit*2)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Allow("shared")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != limit {
		t.Errorf("allowed %d concurrent calls, want exactly %d", count, limit)
	}
}
