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
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestConfigureWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esqml.log")
	require.NoError(t, Configure("debug", path))
	t.Cleanup(func() { _ = Configure("info", "") })

	Debug("hello", "platform", "snes")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "snes")
}

func TestStyledLoggerFollowsOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure("warn", ""))
	SetOutput(&buf)
	t.Cleanup(func() { _ = Configure("info", "") })

	l := NewStyledLogger("loader")
	l.Info("not shown")
	l.Warn("shown", "path", "theme.xml")

	assert.NotContains(t, buf.String(), "not shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "loader")
}
