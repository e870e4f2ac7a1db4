package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" INFO ":  LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"":        LogLevelInfo,
		"loud":    LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestConsoleLogger_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, "", 0, LogLevelWarn)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN ] shown 2")
}

func TestNamed_TagsMessages(t *testing.T) {
	var buf bytes.Buffer
	l := Named(NewConsoleLogger(&buf, "", 0, LogLevelDebug), "jobs")

	l.Info("migrated %d rows", 3)

	assert.Contains(t, buf.String(), "[jobs] migrated 3 rows")
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO ", LogLevelInfo.String())
	assert.Equal(t, "FATAL", LogLevelFatal.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
	assert.Equal(t, "UNKNOWN", LogLevel(-1).String())
}

func TestConsoleLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, "", 0, LogLevelInfo)
	l.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("cannot open %s", "unified.db")

	assert.Equal(t, 1, code)
	assert.Equal(t, "2024-06-01 09:30:00 [FATAL] cannot open unified.db\n", buf.String())
}

func TestConsoleLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := NewConsoleLogger(&first, "", 0, LogLevelDebug)

	l.Info("one")
	l.SetOutput(&second)
	l.SetPrefix("[cli] ")
	l.Info("two")

	assert.Contains(t, first.String(), "one")
	assert.NotContains(t, first.String(), "two")
	assert.Contains(t, second.String(), "[cli] ")
	assert.Contains(t, second.String(), "[INFO ] two")
}
