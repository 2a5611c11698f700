package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer with colour disabled and restores
// defaults when the test ends.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColor(false)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("test message")
	Info("info")
	Section("ignored")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Query")

	assert.Equal(t, "\n=== Query ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	buf := capture(t, true)

	Info("info message %d", 42)

	assert.Equal(t, "[INFO] info message 42\n", buf.String())
}

func TestWarn_AlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Warn("llm timed out after %ds", 60)

	assert.Equal(t, "[WARN] llm timed out after 60s\n", buf.String())
}

func TestError_AlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Error("rollback failed: %v", "boom")

	assert.Equal(t, "[ERROR] rollback failed: boom\n", buf.String())
}

func TestSetColor_WrapsPrefix(t *testing.T) {
	buf := capture(t, false)
	SetColor(true)
	t.Cleanup(func() { SetColor(false) })

	Warn("coloured")

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "coloured\n")
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
