package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggerWritesJSONFile(t *testing.T) {
	previous := Logger
	t.Cleanup(func() {
		Logger = previous
		zap.ReplaceGlobals(previous)
	})

	filename := filepath.Join(t.TempDir(), "logs.log")
	InitLogger(Options{Filename: filename, MaxSize: 1, Type: "single", Level: "info"})

	Info("Queue", zap.String("task_id", "t-1"))
	Debug("Database", zap.String("sql", "SELECT 1"))
	require.NoError(t, Logger.Sync())

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"task_id":"t-1"`)
	assert.Contains(t, string(content), `"level":"INFO"`)
	// 低于配置级别的日志不写入
	assert.NotContains(t, string(content), "SELECT 1")
}

func TestMicrosecondsStr(t *testing.T) {
	assert.Equal(t, "1.5ms", microsecondsStr(1500*time.Microsecond))
	assert.Equal(t, "2s", microsecondsStr(2*time.Second))
}
