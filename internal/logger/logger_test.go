package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCapturedOutput(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestDebug_SuppressedWhenNotVerbose(t *testing.T) {
	buf := withCapturedOutput(t, false)

	Debug("chunk %d dispatched", 1)
	assert.Empty(t, buf.String())
}

func TestDebug_PrintedWhenVerbose(t *testing.T) {
	buf := withCapturedOutput(t, true)

	Debug("chunk %d dispatched", 1)
	assert.Contains(t, buf.String(), "[DEBUG] chunk 1 dispatched")
}

func TestInfoAndWarn_GatedByVerbose(t *testing.T) {
	buf := withCapturedOutput(t, true)

	Info("sync started")
	Warn("slow response")

	out := buf.String()
	assert.Contains(t, out, "[INFO] sync started")
	assert.Contains(t, out, "[WARN] slow response")
}

func TestError_PrintedRegardlessOfVerbosity(t *testing.T) {
	buf := withCapturedOutput(t, false)

	Error("refresh rejected: %d", 401)
	assert.Contains(t, buf.String(), "[ERROR] refresh rejected: 401")
}

func TestIsVerbose(t *testing.T) {
	withCapturedOutput(t, true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}
