package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8120, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, []string{"."}, cfg.Scan.Paths)
	assert.Contains(t, cfg.Scan.Extensions, ".html")
	assert.Contains(t, cfg.Scan.Extensions, ".xml")
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("server.port", 9001)
	viper.Set("server.host", "0.0.0.0")
	viper.Set("scan.paths", []string{"./templates"})
	viper.Set("scan.extensions", []string{".xhtml"})
	viper.Set("watch.debounce", "1s")
	viper.Set("log.level", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"./templates"}, cfg.Scan.Paths)
	assert.Equal(t, []string{".xhtml"}, cfg.Scan.Extensions)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"port out of range", "server.port", 70000},
		{"extension without dot", "scan.extensions", []string{"html"}},
		{"path traversal", "scan.paths", []string{"../outside"}},
		{"unknown log level", "log.level", "verbose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			viper.Set(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateScanPath(t *testing.T) {
	assert.NoError(t, validateScanPath("."))
	assert.NoError(t, validateScanPath("./templates"))
	assert.NoError(t, validateScanPath("a/../b"))
	assert.Error(t, validateScanPath(""))
	assert.Error(t, validateScanPath(".."))
	assert.Error(t, validateScanPath("../outside"))
}
