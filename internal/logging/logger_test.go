package logging

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("anything else"))
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Info(context.Background(), "parsed document", "tags", 7)

	output := buf.String()
	assert.Contains(t, output, "parsed document")
	assert.Contains(t, output, "tags=7")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug(context.Background(), "debug message")
	logger.Info(context.Background(), "info message")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), nil, "warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLoggerAttachesErrorAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf}).WithComponent("parser")

	logger.Error(context.Background(), stderrors.New("boom"), "scan failed")

	output := buf.String()
	assert.Contains(t, output, "component=parser")
	assert.Contains(t, output, "error=boom")
	assert.Contains(t, output, "scan failed")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf}).With("path", "page.html")

	logger.Info(context.Background(), "checked")

	assert.Contains(t, buf.String(), "path=page.html")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "json", Output: &buf})

	logger.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNilConfigUsesDefaults(t *testing.T) {
	logger := NewLogger(nil)
	assert.NotNil(t, logger)
}
