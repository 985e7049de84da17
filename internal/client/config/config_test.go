package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"connectlink"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5001/api", c.ServerURL)
	assert.Equal(t, "connectlink.db", c.SessionFile)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_DefaultsWithoutSources(t *testing.T) {
	withArgs(t, "me")
	t.Setenv("CONNECTLINK_SERVER_URL", "")
	t.Setenv("CONNECTLINK_SESSION_FILE", "")

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:5001/api", cfg.ServerURL)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://file:1/api\nsession_file: file.db\nrequest_timeout: 3s\n"), 0o600))

	withArgs(t, "login", "-c", path)
	t.Setenv("CONNECTLINK_SERVER_URL", "http://env:2/api")
	t.Setenv("CONNECTLINK_SESSION_FILE", "")

	cfg := LoadConfig()
	assert.Equal(t, "http://env:2/api", cfg.ServerURL)
	assert.Equal(t, "file.db", cfg.SessionFile)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestParseFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://json:3/api","request_timeout":1000000000}`), 0o600))
	withArgs(t, "-config", path)

	var c Config
	c.LoadDefaults()
	parseFile(&c)

	assert.Equal(t, "http://json:3/api", c.ServerURL)
	assert.Equal(t, "connectlink.db", c.SessionFile)
	assert.Equal(t, time.Second, c.RequestTimeout)
}

func TestParseFile_MissingFilePanics(t *testing.T) {
	withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))

	var c Config
	assert.Panics(t, func() { parseFile(&c) })
}
