package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/config"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr string
	}{
		{name: "stdout json", cfg: config.LogConfig{Level: "info", Format: "json", Output: "stdout"}},
		{name: "warning alias", cfg: config.LogConfig{Level: "WARNING", Format: "text", Output: "stderr"}},
		{name: "bad level", cfg: config.LogConfig{Level: "loud", Format: "json", Output: "stdout"}, wantErr: "invalid log level"},
		{name: "bad format", cfg: config.LogConfig{Level: "info", Format: "xml", Output: "stdout"}, wantErr: "invalid log format"},
		{name: "bad output", cfg: config.LogConfig{Level: "info", Format: "json", Output: "syslog"}, wantErr: "invalid log output"},
		{name: "file without path", cfg: config.LogConfig{Level: "info", Format: "json", Output: "file"}, wantErr: "file_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, closer, err := New(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
			assert.NoError(t, closer.Close())
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	l, closer, err := New(config.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	l.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "v", rec["k"])
	// 2006-01-02T15:04:05.000Z07:00
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}`, rec["time"])
}

func TestNewHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, "text", slog.LevelWarn, false)
	require.NoError(t, err)
	l := slog.New(h)

	l.Info("quiet")
	l.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	h, err := NewHandler(&buf, "text", slog.LevelInfo, false)
	require.NoError(t, err)
	l := WithRequestID(slog.New(h), "req-1")

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "request_id=req-1")
}

func TestAttributeHelpers(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, "text", slog.LevelInfo, false)
	require.NoError(t, err)
	l := slog.New(h)

	assert.Same(t, l, WithError(l, nil))

	WithFlow(WithError(l, errors.New("boom")), "detectEmotionalDistress", "gemini:flash").
		Info("done", TextAttrs("user_input", "I feel unsafe at home"))

	out := buf.String()
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "flow=detectEmotionalDistress")
	assert.Contains(t, out, "user_input.bytes=21")
	assert.Contains(t, out, "user_input.blank=false")
	assert.False(t, strings.Contains(out, "unsafe"), "user text must not be logged")
}
