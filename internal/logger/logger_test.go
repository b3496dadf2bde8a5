package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/inlink-go/internal/config"
)

func TestInitWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWithWriter(&config.Config{AppName: "inlink", Env: "test", LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}

	log.DebugObj("hidden", "k", 1)
	log.InfoObj("query done", "meta", map[string]any{"status": 200})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["msg"] != "query done" || entry["app"] != "inlink" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %#v", entry)
	}
	meta, ok := entry["meta"].(map[string]any)
	if !ok || meta["status"] != float64(200) {
		t.Fatalf("unexpected meta %#v", entry["meta"])
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("verbose").String() != "info" {
		t.Fatalf("unknown level should map to info")
	}
	if parseLevel("warning").String() != "warn" {
		t.Fatalf("warning should map to warn")
	}
}

func TestPackageHelpersBeforeInit(t *testing.T) {
	prev := S
	S = nil
	defer func() { S = prev }()

	InfoObj("ignored", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close without init: %v", err)
	}
}
