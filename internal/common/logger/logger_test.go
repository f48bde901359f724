package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"worker": "introduction.compose"})

	log.Debug("dropped below level", nil)
	log.Info("introduction composed", map[string]interface{}{"introId": "abc"})
	log.WithError(errors.New("smtp down")).Error("send failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "introduction composed", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "introduction.compose", ctx["worker"])
	assert.Equal(t, "abc", ctx["introId"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "smtp down", entries[1].ContextMap()["error"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			require.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_OutputAndService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")
	l := New("info", "json", WithOutput(path), WithService("connector-os"))
	l.Info("batch complete")
	require.NoError(t, l.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"service":"connector-os"`)
	assert.Contains(t, string(content), "batch complete")
}

func TestZapAdapter_ErrorFieldsAndNilError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	assert.Same(t, log, log.WithError(nil))
	assert.Same(t, log, log.WithFields(nil))

	log.Warn("cache read failed", map[string]interface{}{"cause": errors.New("timeout"), "key": "intro:supply:wealth"})
	require.Len(t, logs.All(), 1)
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "timeout", ctx["cause"])
	assert.Equal(t, "intro:supply:wealth", ctx["key"])
}
