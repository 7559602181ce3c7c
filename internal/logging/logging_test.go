package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Info("hidden")
	log.Warn("shown", zap.Int("plans", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry written at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"plans": 3`) {
		t.Fatalf("warn entry missing:\n%s", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Output: &buf})
	log.Debug("parsed plan file", zap.String("path", "plans.toml"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "parsed plan file" || entry["path"] != "plans.toml" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNew_UnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "chatty", Output: &buf})
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestInit_ReplacesGlobals(t *testing.T) {
	prev, prevSugar := Logger, Sugar
	defer func() { Logger, Sugar = prev, prevSugar }()

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	Sugar.Infof("loaded %d plans", 2)

	if !strings.Contains(buf.String(), "loaded 2 plans") {
		t.Fatalf("global logger did not write: %q", buf.String())
	}
}
