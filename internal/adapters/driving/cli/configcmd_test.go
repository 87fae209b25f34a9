package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnop-wxyz"))
}

func TestConfigShowCmd_MasksAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	prev := cfgPath
	cfgPath = path
	defer func() { cfgPath = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "embedding.api_key", "sk-verysecretapikey-0001"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "show"})
	defer rootCmd.SetArgs(nil)
	err = rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "sk-verysecretapikey-0001")
	assert.Contains(t, out, "sk-v...0001")
}

func TestConfigSetCmd_WritesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	prev := cfgPath
	cfgPath = path
	defer func() { cfgPath = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "retrieval.top_k", "8"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Set retrieval.top_k")

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "show"})
	err = rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "top_k = 8")
}

func TestConfigSetCmd_WarnsWhenProviderUnreachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	prev := cfgPath
	cfgPath = path
	defer func() { cfgPath = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	// No provider configured yet: nothing to ping, no warning.
	rootCmd.SetArgs([]string{"config", "set", "embedding.base_url", "http://127.0.0.1:1"})
	require.NoError(t, rootCmd.Execute())
	assert.NotContains(t, buf.String(), "warning")

	// Configuring a provider behind an unreachable URL still succeeds
	// but reports the connectivity problem.
	buf.Reset()
	rootCmd.SetArgs([]string{"config", "set", "embedding.provider", "ollama"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Set embedding.provider")
	assert.Contains(t, buf.String(), "warning: embedding provider not reachable")
}

func TestConfigSetCmd_RequiresValueForPlainKeys(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "set", "retrieval.top_k"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value given")
}

func TestConfigSetCmd_RejectsUnknownSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	prev := cfgPath
	cfgPath = path
	defer func() { cfgPath = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "set", "nonsense.key", "1"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
}
