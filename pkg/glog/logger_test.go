package glog

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"dpanic":  zapcore.DPanicLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInitWithWriter(t *testing.T) {
	defer Init(DefaultConfig())

	buf := &syncBuffer{}
	Init(&Config{Level: "warn"}, WithWriter(buf))

	Info("dropped")
	Warn("kept", zap.Int("n", 1))
	Error("failed", zap.Int("n", 2))

	lines := buf.lines()
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["M"])
	assert.Equal(t, "warn", entry["L"])
	assert.EqualValues(t, 1, entry["n"])
	assert.Contains(t, lines[1], "failed")
}

func TestSetLogLevel(t *testing.T) {
	defer Init(DefaultConfig())

	buf := &syncBuffer{}
	Init(&Config{Level: "error"}, WithWriter(buf))
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())

	Debug("before lowering")
	SetLogLevel(zapcore.DebugLevel)
	Debug("after lowering")

	lines := buf.lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "after lowering")
}

func TestInitWithFile(t *testing.T) {
	defer Init(DefaultConfig())

	path := filepath.Join(t.TempDir(), "app.log")
	Init(&Config{Path: path, Level: "info"})
	Info("to file")
	Stop()

	assert.FileExists(t, path)
}

func TestInitNilKeepsLogger(t *testing.T) {
	defer Init(DefaultConfig())

	buf := &syncBuffer{}
	Init(&Config{Level: "info"}, WithWriter(buf))
	Init(nil)
	Info("still here")

	lines := buf.lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "still here")
}
