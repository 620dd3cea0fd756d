// internal/logging/logging_test.go
package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	log, closer, err := New(Config{})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNew_JSONDebug(t *testing.T) {
	log, closer, err := New(Config{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.log")

	log, closer, err := New(Config{Output: "file", FilePath: path})
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closer())
	assert.FileExists(t, path)
}

func TestNew_Errors(t *testing.T) {
	_, _, err := New(Config{Format: "xml"})
	assert.Error(t, err)

	_, _, err = New(Config{Output: "file"})
	assert.Error(t, err)

	_, _, err = New(Config{Output: "syslog"})
	assert.Error(t, err)
}
