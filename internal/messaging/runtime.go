// Package messaging implements the extension side channel: a runtime that
// delivers messages to listeners and a native messaging host that carries
// them over stdio.
package messaging

import (
	"io"
	"log/slog"
	"sync"
)

// Sender identifies where a message came from
type Sender struct {
	ID     string `json:"id"`
	Origin string `json:"origin,omitempty"`
}

// ResponseFunc replies to the sender of a message. Only the first call is delivered.
type ResponseFunc func(response any)

// Listener handles a runtime message. Returning true means sendResponse may
// be called after OnMessage returns.
type Listener interface {
	OnMessage(request any, sender Sender, sendResponse ResponseFunc) bool
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(request any, sender Sender, sendResponse ResponseFunc) bool

// OnMessage calls f
func (f ListenerFunc) OnMessage(request any, sender Sender, sendResponse ResponseFunc) bool {
	return f(request, sender, sendResponse)
}

// Runtime routes messages to listeners registered during install
type Runtime struct {
	mu        sync.RWMutex
	onInstall []func(*Runtime)
	listeners []Listener
	installed bool
	logger    *slog.Logger
}

// NewRuntime creates a runtime. A nil logger discards output.
func NewRuntime(logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runtime{logger: logger}
}

// OnInstalled registers a hook run once by Install
func (r *Runtime) OnInstalled(fn func(*Runtime)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInstall = append(r.onInstall, fn)
}

// AddListener registers a message listener
func (r *Runtime) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Install fires the install hooks. Calling it again is a no-op.
func (r *Runtime) Install() {
	r.mu.Lock()
	if r.installed {
		r.mu.Unlock()
		return
	}
	r.installed = true
	hooks := r.onInstall
	r.mu.Unlock()

	r.logger.Info("installed")
	for _, fn := range hooks {
		fn(r)
	}
}

// Dispatch delivers request to every listener and reports whether any of
// them will respond asynchronously. respond is called at most once.
func (r *Runtime) Dispatch(request any, sender Sender, respond ResponseFunc) bool {
	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.RUnlock()

	r.logger.Debug("message received", "sender", sender.ID, "origin", sender.Origin)

	var once sync.Once
	sendResponse := func(response any) {
		once.Do(func() { respond(response) })
	}

	async := false
	for _, l := range listeners {
		if l.OnMessage(request, sender, sendResponse) {
			async = true
		}
	}
	return async
}
