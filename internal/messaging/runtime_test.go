package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeInstallRegistersListeners(t *testing.T) {
	rt := NewRuntime(nil)

	var installs int
	rt.OnInstalled(func(r *Runtime) {
		installs++
		r.AddListener(ListenerFunc(func(request any, sender Sender, sendResponse ResponseFunc) bool {
			sendResponse(request)
			return false
		}))
	})

	var got []any
	respond := func(v any) { got = append(got, v) }

	// Nothing is listening before install
	assert.False(t, rt.Dispatch("ping", Sender{}, respond))
	assert.Empty(t, got)

	rt.Install()
	rt.Install()
	assert.Equal(t, 1, installs)

	assert.False(t, rt.Dispatch("ping", Sender{}, respond))
	assert.Equal(t, []any{"ping"}, got)
}

func TestRuntimeDispatchRespondsOnce(t *testing.T) {
	rt := NewRuntime(nil)
	for i := 0; i < 2; i++ {
		rt.AddListener(ListenerFunc(func(request any, sender Sender, sendResponse ResponseFunc) bool {
			sendResponse("first")
			sendResponse("second")
			return true
		}))
	}

	var got []any
	async := rt.Dispatch("x", Sender{ID: "a"}, func(v any) { got = append(got, v) })

	assert.True(t, async)
	assert.Equal(t, []any{"first"}, got)
}
