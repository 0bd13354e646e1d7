package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Host serves a Runtime over the native messaging stdio protocol
type Host struct {
	runtime *Runtime
	in      io.Reader
	out     io.Writer
	origin  string
	logger  *slog.Logger

	writeMu sync.Mutex
}

// NewHost creates a host reading frames from in and writing responses to out.
// origin is the calling extension as passed by the browser.
func NewHost(rt *Runtime, in io.Reader, out io.Writer, origin string, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Host{
		runtime: rt,
		in:      in,
		out:     out,
		origin:  origin,
		logger:  logger,
	}
}

type frame struct {
	body []byte
	err  error
}

// Serve installs the runtime and dispatches messages until the input ends or
// ctx is canceled. A clean end of input returns nil.
func (h *Host) Serve(ctx context.Context) error {
	h.runtime.Install()

	frames := make(chan frame)
	go func() {
		defer close(frames)
		for {
			body, err := ReadMessage(h.in)
			select {
			case frames <- frame{body: body, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return ctx.Err()
			}
			if errors.Is(f.err, io.EOF) {
				h.logger.Info("input closed")
				return nil
			}
			if f.err != nil {
				return fmt.Errorf("reading message: %w", f.err)
			}
			h.handle(f.body)
		}
	}
}

func (h *Host) handle(body []byte) {
	var request any
	if err := json.Unmarshal(body, &request); err != nil {
		h.logger.Debug("ignoring malformed message", "error", err)
		return
	}

	sender := Sender{ID: uuid.NewString(), Origin: h.origin}
	h.logger.Info("message", "sender", sender.ID, "request", request)

	h.runtime.Dispatch(request, sender, func(response any) {
		if err := h.send(response); err != nil {
			h.logger.Error("sending response", "sender", sender.ID, "error", err)
		}
	})
}

func (h *Host) send(v any) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return WriteMessage(h.out, v)
}
