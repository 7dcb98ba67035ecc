package logging

import (
	"os"
	"path/filepath"
	"testing"

	"agendavel/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testApp = config.AppConfig{Name: "agendavel-test", Environment: "test", Version: "1.0.0"}

func TestNewStreamOutputs(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"DefaultStdout", config.LoggingConfig{Level: "info"}},
		{"Stderr", config.LoggingConfig{Level: "debug", Output: "stderr"}},
		{"Console", config.LoggingConfig{Level: "warn", Output: "stdout", Format: "console"}},
		{"UnknownOutputFallsBack", config.LoggingConfig{Output: "syslog"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, closer, err := New(tc.cfg, testApp)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Nil(t, closer)
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "agendavel.log")
	logger, closer, err := New(config.LoggingConfig{Level: "info", Output: "file", FilePath: logPath}, testApp)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info().Str("check", "written").Msg("file sink smoke test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink smoke test")
	assert.Contains(t, string(data), `"app":"agendavel-test"`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, testApp)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" ERROR "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}
