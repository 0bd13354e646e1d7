package messaging

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxInboundSize is the largest message the browser may send to a host
	MaxInboundSize = 64 << 20

	// MaxOutboundSize is the largest message a host may send to the browser
	MaxOutboundSize = 1 << 20
)

// ErrMessageTooLarge is returned when a frame exceeds the size limit
var ErrMessageTooLarge = errors.New("message too large")

// ReadMessage reads one length-prefixed frame. It returns io.EOF only when
// the stream ends cleanly between frames.
func ReadMessage(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("reading frame header: %w", err)
		}
		return nil, err
	}

	size := binary.NativeEndian.Uint32(header[:])
	if size > MaxInboundSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading frame body: %w", err)
	}
	return body, nil
}

// WriteMessage encodes v as JSON and writes it as one frame
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if len(body) > MaxOutboundSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(body))
	}

	frame := make([]byte, 4+len(body))
	binary.NativeEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
