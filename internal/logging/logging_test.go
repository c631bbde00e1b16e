package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HenriqueAssisDev/TCC-II/internal/logging"
)

func TestOpen_appends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	for _, msg := range []string{"first run", "second run"} {
		sink, err := logging.Open(dir, "info", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sink.Info(msg)
		sink.Close()
	}

	data, err := os.ReadFile(filepath.Join(dir, logging.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Errorf("expected both runs in the log, got:\n%s", data)
	}
}

func TestNewLogger_levelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger("test", "warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestNewLogger_json(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger("test", "json:debug", &buf)
	logger.Debug("resolved", "program", "IRPF2025")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a JSON record, got %q: %v", buf.String(), err)
	}
	if rec["program"] != "IRPF2025" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestResolveLevel(t *testing.T) {
	t.Setenv(logging.EnvLevel, "")
	if got := logging.ResolveLevel("", ""); got != "info" {
		t.Errorf("expected default info, got %s", got)
	}
	if got := logging.ResolveLevel("", "warn"); got != "warn" {
		t.Errorf("expected configured level, got %s", got)
	}
	t.Setenv(logging.EnvLevel, "debug")
	if got := logging.ResolveLevel("", "warn"); got != "debug" {
		t.Errorf("expected env to win over config, got %s", got)
	}
	if got := logging.ResolveLevel("trace", "warn"); got != "trace" {
		t.Errorf("expected flag to win, got %s", got)
	}
}
