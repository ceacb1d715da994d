// ABOUTME: Tests for logger setup.
// ABOUTME: Checks level parsing and that file logging appends the .log suffix.
package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(" info "))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.WarnLevel, GetLevel(""))
	assert.Equal(t, logrus.WarnLevel, GetLevel("nonsense"))
}

func TestSetupWritesToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	base := filepath.Join(t.TempDir(), "routines")
	Setup(LoggerSetupParams{LogFileName: base, LogLevel: "info", LogFormatJSON: true})

	logrus.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(base + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestSetupDefaultsToStderr(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	out := Setup(LoggerSetupParams{LogLevel: "error"})
	assert.Equal(t, os.Stderr, out)
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
}
