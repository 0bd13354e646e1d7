package messaging

import (
	"sync"
	"time"
)

const (
	// TimelineRequest is the only message the host answers
	TimelineRequest = "timeline"

	// TimelineResponse is sent back after the delay
	TimelineResponse = "toast"
)

// TimelineListener answers "timeline" with "toast" after Delay.
// Every other message is ignored.
type TimelineListener struct {
	Delay time.Duration

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

// NewTimelineListener creates a listener with the given response delay
func NewTimelineListener(delay time.Duration) *TimelineListener {
	return &TimelineListener{
		Delay:   delay,
		pending: make(map[*time.Timer]struct{}),
	}
}

// OnMessage implements Listener. It always keeps the response channel open.
func (l *TimelineListener) OnMessage(request any, sender Sender, sendResponse ResponseFunc) bool {
	switch request {
	case TimelineRequest:
		l.schedule(func() { sendResponse(TimelineResponse) })
	}
	return true
}

func (l *TimelineListener) schedule(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(l.Delay, func() {
		l.mu.Lock()
		_, live := l.pending[t]
		delete(l.pending, t)
		l.mu.Unlock()
		if live {
			fn()
		}
	})
	l.pending[t] = struct{}{}
}

// Pending returns the number of scheduled responses not yet sent
func (l *TimelineListener) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Stop cancels scheduled responses and ignores later messages
func (l *TimelineListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	for t := range l.pending {
		t.Stop()
		delete(l.pending, t)
	}
}
