package messaging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "NativeMessagingHosts")
	m := NewManifest("com.jgoulah.timelinescraper", "/usr/local/bin/timelinescraper", []string{"chrome-extension://abcdefghijklmnop/"})

	path, err := WriteManifest(dir, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "com.jgoulah.timelinescraper.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "stdio", decoded["type"])
	assert.Equal(t, "/usr/local/bin/timelinescraper", decoded["path"])
	assert.Equal(t, []any{"chrome-extension://abcdefghijklmnop/"}, decoded["allowed_origins"])
}

func TestManifestValidate(t *testing.T) {
	valid := NewManifest("com.example.host", "/opt/host", []string{"chrome-extension://abc/"})
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"uppercase name", func(m *Manifest) { m.Name = "Com.Example" }},
		{"leading dot", func(m *Manifest) { m.Name = ".example" }},
		{"double dot", func(m *Manifest) { m.Name = "com..example" }},
		{"relative path", func(m *Manifest) { m.Path = "bin/host" }},
		{"no origins", func(m *Manifest) { m.AllowedOrigins = nil }},
		{"bad origin", func(m *Manifest) { m.AllowedOrigins = []string{"https://example.com"} }},
		{"bad type", func(m *Manifest) { m.Type = "socket" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			m.AllowedOrigins = append([]string(nil), valid.AllowedOrigins...)
			tt.mutate(&m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestWriteManifestRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteManifest(dir, NewManifest("BAD", "/opt/host", []string{"chrome-extension://abc/"}))
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDefaultManifestDirUnknownBrowser(t *testing.T) {
	_, err := DefaultManifestDir("netscape")
	assert.Error(t, err)
}
