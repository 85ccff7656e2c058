package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   LogLevel
		wantOK bool
	}{
		{name: "error", want: LevelError, wantOK: true},
		{name: "WARN", want: LevelWarn, wantOK: true},
		{name: " info ", want: LevelInfo, wantOK: true},
		{name: "Debug", want: LevelDebug, wantOK: true},
		{name: "trace", want: LevelTrace, wantOK: true},
		{name: "verbose", want: LevelWarn, wantOK: false},
		{name: "", want: LevelWarn, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	assert.Equal(t, LevelWarn, l.Level())

	l.Error("boom %d", 1)
	l.Warn("careful")
	l.Info("hidden info")
	l.Debug("hidden debug")

	out := buf.String()
	assert.Contains(t, out, "[ERROR] boom 1")
	assert.Contains(t, out, "[WARN] careful")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[", "non-terminal output is not coloured")

	buf.Reset()
	l.SetLevel(LevelTrace)
	l.Debug("wrote %s", "blob")
	l.Trace("read %s", "tree")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "caf: "))
	assert.Contains(t, lines[0], "[DEBUG] wrote blob")
	assert.Contains(t, lines[1], "[TRACE] read tree")

	buf.Reset()
	l.SetLevel(LevelError)
	l.Warn("quiet")
	assert.Empty(t, buf.String())
}

func TestGetLoggerIsShared(t *testing.T) {
	assert.Same(t, GetLogger(), GetLogger())
}
