package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/docchat/internal/docchat"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	SetDefaults(NewDefaultConfig("/usr/share/docchat/templates", ""))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, "Erro ao obter resposta.", cfg.ErrorText)
	assert.True(t, cfg.RenderMarkdown)
	assert.Equal(t, []string{"/usr/share/docchat/templates"}, cfg.TemplateDirs)

	mode, err := cfg.GetDefaultMode()
	require.NoError(t, err)
	assert.Equal(t, docchat.ModePPTChat, mode)

	timeout, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), timeout)

	endpoints := map[docchat.Mode]string{
		docchat.ModeTextToMongo: "http://127.0.0.1:8000/text-to-mongo",
		docchat.ModePDFChat:     "http://127.0.0.1:8000/query",
		docchat.ModePPTChat:     "http://127.0.0.1:8000/ppt-search",
	}
	for mode, want := range endpoints {
		got, err := cfg.GetEndpoint(mode)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	resetViper(t)
	SetDefaults(NewDefaultConfig("/unused", ""))

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
base_url = "${DOCCHAT_TEST_BACKEND}"
ppt_chat_path = "/slides"
default_mode = "pdf"
request_timeout = "30s"
template_dirs = ["templates"]
log_file = "logs/docchat.log"
`), 0644))
	t.Setenv("DOCCHAT_TEST_BACKEND", "https://rag.example.com")

	viper.SetConfigFile(configFile)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	endpoint, err := cfg.GetEndpoint(docchat.ModePPTChat)
	require.NoError(t, err)
	assert.Equal(t, "https://rag.example.com/slides", endpoint)

	mode, err := cfg.GetDefaultMode()
	require.NoError(t, err)
	assert.Equal(t, docchat.ModePDFChat, mode)

	timeout, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	assert.Equal(t, []string{filepath.Join(dir, "templates")}, cfg.TemplateDirs)
	assert.Equal(t, filepath.Join(dir, "logs", "docchat.log"), cfg.LogFile)
}

func TestConfig_Errors(t *testing.T) {
	cfg := NewDefaultConfig("/t", "")

	cfg.RequestTimeout = "soon"
	_, err := cfg.GetTimeout()
	assert.Error(t, err)

	cfg.RequestTimeout = "-1s"
	_, err = cfg.GetTimeout()
	assert.Error(t, err)

	cfg.PDFChatPath = ""
	_, err = cfg.GetEndpoint(docchat.ModePDFChat)
	assert.Error(t, err)

	_, err = cfg.GetPath(docchat.Mode("xls"))
	assert.Error(t, err)

	cfg.BaseURL = ""
	_, err = cfg.GetEndpoint(docchat.ModePPTChat)
	assert.Error(t, err)

	cfg.DefaultMode = "nope"
	_, err = cfg.GetDefaultMode()
	assert.Error(t, err)
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_VALUE", "value")

	assert.Equal(t, "plain", expandEnvVar("plain"))
	assert.Equal(t, "value", expandEnvVar("$DOCCHAT_TEST_VALUE"))
	assert.Equal(t, "value", expandEnvVar("${DOCCHAT_TEST_VALUE}"))
	assert.Equal(t, "", expandEnvVar("$DOCCHAT_TEST_UNSET"))
}
