package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { SetOutput(os.Stderr); Logger.SetLevel(log.InfoLevel) })

	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("EGGSHELL_LOG_LEVEL", "error")
		require.NoError(t, Configure("debug", "", false))
		assert.Equal(t, log.DebugLevel, Logger.GetLevel())
	})

	t.Run("environment used without flag", func(t *testing.T) {
		t.Setenv("EGGSHELL_LOG_LEVEL", "warn")
		require.NoError(t, Configure("", "", false))
		assert.Equal(t, log.WarnLevel, Logger.GetLevel())
	})

	t.Run("test mode pins info level", func(t *testing.T) {
		require.NoError(t, Configure("debug", "", true))
		assert.Equal(t, log.InfoLevel, Logger.GetLevel())
	})

	t.Run("log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "eggshell.log")
		require.NoError(t, Configure("info", path, false))
		Info("written to file", "key", "value")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written to file")
	})

	t.Run("unwritable log file", func(t *testing.T) {
		err := Configure("info", filepath.Join(t.TempDir(), "missing", "x.log"), false)
		assert.Error(t, err)
	})
}

func TestNewStyledLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	Logger.SetLevel(log.DebugLevel)
	t.Cleanup(func() { Logger.SetLevel(log.InfoLevel) })

	component := NewStyledLogger("FSM")
	require.NotNil(t, component)
	assert.Equal(t, log.DebugLevel, component.GetLevel())

	component.Debug("transition", "state", "login")
	assert.Contains(t, buf.String(), "FSM")
	assert.Contains(t, buf.String(), "transition")
}
