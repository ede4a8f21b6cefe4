package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("log output missing message: %q", buf.String())
		}
	})

	t.Run("nil writer is allowed", func(t *testing.T) {
		if NewLogger(nil) == nil {
			t.Error("expected a logger")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "mmt.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "started") {
		t.Errorf("log file missing message: %q", string(data))
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("consecutive ids must differ")
	}
	if len(a) != 36 {
		t.Errorf("id length = %d, want 36", len(a))
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"pages": 3}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"pages":3}` {
		t.Errorf("compact = %s", compact)
	}

	indented, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(indented), "\n  \"pages\": 3") {
		t.Errorf("indented = %s", indented)
	}
}

func TestTrimSlash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://example.com/", want: "http://example.com"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := TrimSlash(tt.in); got != tt.want {
			t.Errorf("TrimSlash(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
