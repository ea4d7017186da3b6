package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/slot-sim/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestBuild_FileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{
		Level:  "debug",
		Format: "json",
		Output: "file",
		File: config.LogFileConfig{
			Path:     dir,
			Filename: "test.log",
			MaxSize:  1,
		},
		Modules: map[string]string{"game": "info"},
	}

	l, modules, err := build(cfg)
	require.NoError(t, err)
	require.Contains(t, modules, "game")

	l.Info("spin", zap.Int64("winnings", 12))
	modules["game"].Debug("filtered by module level")
	modules["game"].Info("module line")
	require.NoError(t, l.Sync())
	_ = modules["game"].Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, `"winnings":12`))
	assert.Contains(t, content, "module line")
	assert.NotContains(t, content, "filtered by module level")
}

func TestGetLogger_Uninitialized(t *testing.T) {
	// 未初始化时返回可用的空日志器
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, GetModuleLogger("game"))
	assert.NotPanics(t, func() {
		LogGameEvent("spin", "session", map[string]interface{}{"lines": 3})
		LogError(os.ErrClosed, "write failed", zap.String("module", "test"))
	})
}
