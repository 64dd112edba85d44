package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonTOML = `
[common]
version = 1

[common.debug]
log_level = "debug"
max_logs_to_keep = 5
max_log_lines = 1000

[common.audit]
max_prompt_length = 2048

[common.batch]
concurrency = 4

[common.redis]
enabled = true
host = "localhost"
port = 6379

[common.cache]
ttl = 600
`

const workerTOML = `
[worker]
version = 1
request_timeout = 5000

[worker.nats]
url = "nats://localhost:4222"
subject = "promptaudit.audit"
queue = "promptaudit"

[worker.metrics]
enabled = true
address = ":9090"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	t.Run("loads both files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", commonTOML)
		writeFile(t, dir, "worker.toml", workerTOML)

		cfg, usedPath, err := config.LoadConfigFrom([]string{filepath.Join(dir, "missing"), dir})
		require.NoError(t, err)

		assert.Equal(t, dir, usedPath)
		assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
		assert.Equal(t, 2048, cfg.Common.Audit.MaxPromptLength)
		assert.Equal(t, 4, cfg.Common.Batch.Concurrency)
		assert.True(t, cfg.Common.Redis.Enabled)
		assert.Equal(t, 600, cfg.Common.Cache.TTL)
		assert.Equal(t, "promptaudit.audit", cfg.Worker.NATS.Subject)
		assert.Equal(t, ":9090", cfg.Worker.Metrics.Address)
	})

	t.Run("missing worker file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", commonTOML)

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigFileNotFound)
	})

	t.Run("missing version", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", "[common.debug]\nlog_level = \"info\"\n")
		writeFile(t, dir, "worker.toml", workerTOML)

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigVersionMissing)
	})

	t.Run("version mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "common.toml", commonTOML)
		writeFile(t, dir, "worker.toml", "[worker]\nversion = 99\n")

		_, _, err := config.LoadConfigFrom([]string{dir})
		require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
	})
}

func TestLoadWordlistFile(t *testing.T) {
	t.Parallel()

	t.Run("jsonc with comments", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), config.WordlistFile, `{
	// adult-content words
	"nsfw": ["nude", "naked"],
	"blocked": ["gore"],
	"blockedNsfw": ["gore"],
	"youngNoun": ["kid"],
	"youngAdjective": ["young"],
	"youngPartialNoun": ["girl"],
	"poi": ["jane doe"],
	"tags": {"animal": ["cat"],},
}`)

		lists, err := config.LoadWordlistFile(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"nude", "naked"}, lists.NSFW)
		assert.Equal(t, []string{"jane doe"}, lists.POI)
		assert.Equal(t, []string{"cat"}, lists.Tags["animal"])
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadWordlistFile(filepath.Join(t.TempDir(), "absent.jsonc"))
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), config.WordlistFile, `{"nsfw": [`)

		_, err := config.LoadWordlistFile(path)
		require.Error(t, err)
	})
}

func TestLoadWordlist_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "custom.jsonc", `{"nsfw": ["nude"]}`)

	lists, err := config.LoadWordlist(&config.Wordlist{Path: path}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nude"}, lists.NSFW)
}

func TestDebug_PprofAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		debug config.Debug
		want  string
	}{
		{name: "defaults to localhost", debug: config.Debug{PprofPort: 6060}, want: "localhost:6060"},
		{name: "configured host", debug: config.Debug{PprofHost: "0.0.0.0", PprofPort: 7070}, want: "0.0.0.0:7070"},
		{name: "ipv6 host", debug: config.Debug{PprofHost: "::1", PprofPort: 6060}, want: "[::1]:6060"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.debug.PprofAddress())
		})
	}
}
