package messaging

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMessageFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, "toast"))

	raw := buf.Bytes()
	require.Len(t, raw, 4+len(`"toast"`))
	assert.Equal(t, uint32(len(`"toast"`)), binary.NativeEndian.Uint32(raw[:4]))
	assert.Equal(t, `"toast"`, string(raw[4:]))
}

func TestReadMessageSequence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, "timeline"))
	require.NoError(t, WriteMessage(&buf, map[string]int{"n": 1}))

	first, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, `"timeline"`, string(first))

	second, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(second))

	_, err = ReadMessage(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessageTruncated(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"partial header", []byte{0x05, 0x00}},
		{"partial body", func() []byte {
			b := make([]byte, 4, 7)
			binary.NativeEndian.PutUint32(b, 10)
			return append(b, 'a', 'b', 'c')
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMessage(bytes.NewReader(tt.input))
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestReadMessageTooLarge(t *testing.T) {
	header := make([]byte, 4)
	binary.NativeEndian.PutUint32(header, MaxInboundSize+1)

	_, err := ReadMessage(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestWriteMessageTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMessage(&buf, strings.Repeat("x", MaxOutboundSize))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	assert.Zero(t, buf.Len())
}
