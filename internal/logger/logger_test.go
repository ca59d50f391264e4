package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 日志输出是全局状态，以下测试不并行

func TestInit_EmptyPath(t *testing.T) {
	require.NoError(t, Init(""))
	assert.Nil(t, logFile)
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.log")
	require.NoError(t, Init(path))
	t.Cleanup(Close)

	LogInfo("hello %d", 1)
	LogError("boom: %s", "x")
	LogPanic("panic value")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[INFO] hello 1")
	assert.Contains(t, content, "[ERROR] boom: x")
	assert.Contains(t, content, "[PANIC] panic value")
}

func TestInit_RotatesLargeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")
	require.NoError(t, os.WriteFile(path, make([]byte, maxLogSize+1), 0o644))

	require.NoError(t, Init(path))
	Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var backup bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "server.log.") {
			backup = true
		}
	}
	assert.True(t, backup, "大文件应改名备份")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestClose_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Close()
		Close()
	})
}
