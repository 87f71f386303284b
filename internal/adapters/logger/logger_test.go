package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	tags     []string
	messages []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, map[string]interface{}(message.(port.Fields)))
	return nil
}

func (r *recordingPoster) Close() error { return nil }

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelDebug})

	l.WithFields(port.Fields{"component": "test"}).Error("failed", errors.New("boom"), port.Fields{"job_id": "42"})

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "failed", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "42", rec["job_id"])
	assert.Equal(t, "boom", rec["err"])
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})
	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	assert.Empty(t, buf.String())
	l.Warn("shown", port.Fields{"b": 2, "a": 1})
	assert.Contains(t, buf.String(), "a=1 b=2")
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &recordingPoster{}
	l, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	child := l.WithFields(port.Fields{"use_case": "SearchJobs"})
	child.Debug("skipped", nil)
	child.Error("storage failed", errors.New("timeout"), port.Fields{"attempt": 2})

	require.Len(t, poster.tags, 1)
	assert.Equal(t, "error", poster.tags[0])
	msg := poster.messages[0]
	assert.Equal(t, "SearchJobs", msg["use_case"])
	assert.Equal(t, "timeout", msg["error"])
	assert.Equal(t, "storage failed", msg["message"])
	assert.Equal(t, "2024-01-02T03:04:05Z", msg["timestamp"])

	_, err = NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLogger(t *testing.T) {
	a, b := &recordingPoster{}, &recordingPoster{}
	la, _ := NewFluentLoggerAdapter(a, nil)
	lb, _ := NewFluentLoggerAdapter(b, nil)

	m, err := NewMultiloggerAdapter(la, nil, lb)
	require.NoError(t, err)
	m.WithFields(port.Fields{"k": "v"}).Info("hello", nil)
	assert.Len(t, a.tags, 1)
	assert.Len(t, b.tags, 1)

	single, err := NewMultiloggerAdapter(nil, la)
	require.NoError(t, err)
	assert.Same(t, la, single)

	_, err = NewMultiloggerAdapter()
	assert.Error(t, err)
}
