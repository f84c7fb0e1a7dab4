package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if got := Level(""); got != "info" {
		t.Errorf("Level() = %q, want info", got)
	}
	t.Setenv(LevelEnv, "debug")
	if got := Level(""); got != "debug" {
		t.Errorf("Level() = %q, want debug from env", got)
	}
	if got := Level("error"); got != "error" {
		t.Errorf("Level(error) = %q", got)
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"trace", "debug", "info", "warn", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false", s)
		}
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel(loud) = true")
	}
}

func TestNewLoggerText(t *testing.T) {
	t.Setenv(JSONEnv, "")
	var buf bytes.Buffer
	log := NewLogger("skbuild", "warn", &buf)
	log.Info("hidden")
	log.Warn("library not found", "lib", "libskia.a")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line printed at warn level: %s", out)
	}
	if !strings.Contains(out, "library not found") || !strings.Contains(out, "lib=libskia.a") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	t.Setenv(JSONEnv, "1")
	var buf bytes.Buffer
	NewLogger("skbuild", "info", &buf).Info("synced", "ref", "main")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, buf.String())
	}
	if entry["@message"] != "synced" || entry["ref"] != "main" {
		t.Errorf("entry = %v", entry)
	}
}

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("| ", &buf)
	pw.Write([]byte("one\ntw"))
	pw.Write([]byte("o\nthree"))
	if got := buf.String(); got != "| one\n| two\n" {
		t.Errorf("before flush = %q", got)
	}
	if err := pw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "| one\n| two\n| three\n" {
		t.Errorf("after flush = %q", got)
	}
}
