package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Notify(Notification{Severity: Success, Title: "WETH Burned!"})
	c.Notify(Notification{Severity: Error, Title: "Token is Locked!", Description: "Nothing can be done."})
	assert.Equal(t, "[success] WETH Burned!\n[error] Token is Locked! - Nothing can be done.\n", buf.String())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLogger(zap.New(core).Sugar())
	l.Notify(Notification{Severity: Warning, Title: "careful", Description: "fee token"})
	l.Notify(Notification{Severity: Error, Title: "failed"})
	l.Notify(Notification{Severity: Success, Title: "done"})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "fee token", entries[0].ContextMap()["description"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	_, ok := a.Last()
	assert.False(t, ok)

	Multi{a, b}.Notify(Notification{Title: "x"})
	assert.Len(t, a.All(), 1)
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "x", last.Title)
	assert.Equal(t, "info", last.Severity.String())
}
