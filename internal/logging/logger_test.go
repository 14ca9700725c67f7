package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggingLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Init(false)
	Debug("hidden debug message")
	Info("visible info message", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden debug message") {
		t.Error("Expected debug message to be suppressed at info level")
	}
	if !strings.Contains(out, "visible info message") {
		t.Errorf("Expected info message in output, got %q", out)
	}

	buf.Reset()
	Init(true)
	Debug("now visible debug message")
	if !strings.Contains(buf.String(), "now visible debug message") {
		t.Errorf("Expected debug message at verbose level, got %q", buf.String())
	}
	Init(false)
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithPrefix("fetch").Info("prefixed message")
	if !strings.Contains(buf.String(), "fetch") {
		t.Errorf("Expected prefix in output, got %q", buf.String())
	}
}
