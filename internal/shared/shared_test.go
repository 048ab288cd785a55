package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "negative", ms: -5, want: "0:00"},
		{name: "seconds only", ms: 9_000, want: "0:09"},
		{name: "minutes", ms: 185_500, want: "3:05"},
		{name: "hours", ms: 3_723_000, want: "1:02:03"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tc := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "", want: log.InfoLevel},
		{in: "debug", want: log.DebugLevel},
		{in: "INFO", want: log.InfoLevel},
		{in: "warning", want: log.WarnLevel},
		{in: " error ", want: log.ErrorLevel},
		{in: "loud", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Run("compact without html escaping", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"q": "a&b"}, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != `{"q":"a&b"}` {
			t.Errorf("unexpected output %s", data)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"n": 1}, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "\n  \"n\": 1") {
			t.Errorf("expected indented output, got %s", data)
		}
	})
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected key/value in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "scx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written")

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "written") {
			t.Errorf("expected message in log file, got %q", content)
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct ids")
		}
	})
}
