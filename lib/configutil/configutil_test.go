package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Url     string            `json:"url"`
	Timeout int               `json:"timeout"`
	Answers map[string]string `json:"answers"`
}

func TestLocalName(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "app.local.json5"), LocalName(filepath.Join("conf", "app.json5")))
	require.Equal(t, "app.local", LocalName("app"))
}

func TestReadConfigMissingFiles(t *testing.T) {
	dir := t.TempDir()
	defaults := testConfig{Url: "https://example.com", Timeout: 20}

	cfg, found, err := ReadConfig(filepath.Join(dir, "missing.json5"), defaults)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, defaults, cfg)
}

func TestReadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.json5")

	err := os.WriteFile(base, []byte(`{
		// comments are allowed
		url: "https://base.example",
		answers: {input_32: "Yes"},
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "app.local.json5"), []byte(`{timeout: 5}`), 0600)
	require.NoError(t, err)

	cfg, found, err := ReadConfig(base, testConfig{Url: "https://default.example", Timeout: 20})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "https://base.example", cfg.Url)
	require.Equal(t, 5, cfg.Timeout)
	require.Equal(t, "Yes", cfg.Answers["input_32"])
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.json5")
	require.NoError(t, os.WriteFile(base, []byte(`{url: `), 0600))

	_, _, err := ReadConfig(base, testConfig{})
	require.Error(t, err)
}
