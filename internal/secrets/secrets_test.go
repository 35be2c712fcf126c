// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// secretsDir writes files into a fresh directory and returns its path.
func secretsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadPaprlyKeys(t *testing.T) {
	dir := secretsDir(t, map[string]string{
		BackendAPIKey:     "  sk-backend-1  \n",
		ArxivContactEmail: "reader@example.com\n",
	})

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-backend-1", got[BackendAPIKey])
	assert.Equal(t, "reader@example.com", got[ArxivContactEmail])
}

func TestLoadIgnoresNoise(t *testing.T) {
	dir := secretsDir(t, map[string]string{
		BackendAPIKey: "sk-backend-1",
		".gitkeep":    "",
		".env":        "BACKEND=1",
		"blank":       " \n\t",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, ArxivContactEmail), 0o755))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{BackendAPIKey: "sk-backend-1"}, got)
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), ".secrets"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSkipsUnreadableKey(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := secretsDir(t, map[string]string{ArxivContactEmail: "reader@example.com"})
	locked := filepath.Join(dir, BackendAPIKey)
	require.NoError(t, os.WriteFile(locked, []byte("sk-hidden"), 0o000))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.NotContains(t, got, BackendAPIKey)
	assert.Equal(t, "reader@example.com", got[ArxivContactEmail])
}

func TestGetPrecedence(t *testing.T) {
	loaded := map[string]string{BackendAPIKey: "sk-from-file"}

	tests := []struct {
		name     string
		secrets  map[string]string
		key      string
		fallback string
		want     string
	}{
		{"configured value wins", loaded, BackendAPIKey, "sk-from-config", "sk-from-config"},
		{"file used when unconfigured", loaded, BackendAPIKey, "", "sk-from-file"},
		{"absent key", loaded, ArxivContactEmail, "", ""},
		{"configured value without files", nil, ArxivContactEmail, "ops@example.com", "ops@example.com"},
		{"nothing loaded", nil, BackendAPIKey, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Get(tt.secrets, tt.key, tt.fallback))
		})
	}
}
