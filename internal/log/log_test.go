package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)
	t.Cleanup(func() {
		SetLevel(LevelInfo)
	})

	Debug("hidden debug")
	Info("hidden info")
	Warn("shown warn", "date", "2024-06-10")
	Error("shown error", errors.New("boom"), "user", "u1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected lower levels to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown warn date=2024-06-10") {
		t.Errorf("missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown error err=boom user=u1") {
		t.Errorf("missing error line in %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestOddKVIgnored(t *testing.T) {
	var b strings.Builder
	writeKVs(&b, "a", 1, "dangling")
	if got := b.String(); got != " a=1" {
		t.Errorf("writeKVs = %q", got)
	}
}
