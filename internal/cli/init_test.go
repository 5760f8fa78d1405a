package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budget/internal/config"
)

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AMQP_URL", "")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}

	t.Setenv("LOG_FORMAT", "xml")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Error("expected an invalid log format to fail validation")
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"component":"app"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestInitPublisherDisabled(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "info", LogFormat: "text"}, io.Discard)
	client, err := InitPublisher(&config.Config{}, logger)
	if err != nil {
		t.Fatalf("InitPublisher() error = %v", err)
	}
	if client != nil {
		t.Error("expected no client when AMQP_URL is empty")
	}
}

func TestOpenScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "month.budget")
	if err := os.WriteFile(path, []byte("create Food\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, name, err := OpenScript([]string{path})
	if err != nil {
		t.Fatalf("OpenScript() error = %v", err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if name != path || string(body) != "create Food\n" {
		t.Errorf("OpenScript() = %q, %q", name, body)
	}

	if _, name, err := OpenScript(nil); err != nil || name != "stdin" {
		t.Errorf("OpenScript(nil) = %q, %v", name, err)
	}
	if _, _, err := OpenScript([]string{"a", "b"}); err == nil {
		t.Error("expected an error for two script files")
	}
	if _, _, err := OpenScript([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
