package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestTemplateRoundTripsThroughLoader(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteTemplate(path, false))
	require.Error(t, WriteTemplate(path, false), "second write without overwrite must fail")
	require.NoError(t, WriteTemplate(path, true))

	cfg, err := LoadInspectorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultInspectorConfig(), cfg)
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	path := writeConfig(t, `
addr = "127.0.0.1:9400"
versions = ["1.3"]
vendors = []
lenient = true
`)
	cfg, err := LoadInspectorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, cfg.Name)
	assert.Equal(t, "127.0.0.1:9400", cfg.Addr)
	assert.Equal(t, []protocol.Version{protocol.OF13}, cfg.Versions)
	assert.Empty(t, cfg.Vendors)
	assert.True(t, cfg.Lenient)
	assert.Len(t, cfg.CodecOptions(), 2)
	assert.Equal(t, uint64(DefaultMaxMessageBytes-8), cfg.MessageOptions().Limits.MaxPayloadBytes)
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":     `colour = "blue"`,
		"bad version":     `versions = ["1.1"]`,
		"no versions":     `versions = []`,
		"repeat version":  `versions = ["1.0", "of10"]`,
		"unknown vendor":  `vendors = ["juniper"]`,
		"tiny limit":      `max_message_bytes = 4`,
		"blank addr":      `addr = "  "`,
		"not toml at all": `addr = `,
	}
	for name, body := range cases {
		_, err := LoadInspectorConfig(writeConfig(t, body))
		require.Error(t, err, name)
	}
}
