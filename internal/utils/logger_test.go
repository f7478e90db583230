package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"verbose": LevelWarn,
		"":        LevelWarn,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := ParseLevel(in); got != want {
				t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func captureLog(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevLevel, prevColors := log.Writer(), CurrentLevel, Colors
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		CurrentLevel = prevLevel
		Colors = prevColors
	})
	log.SetOutput(&buf)
	CurrentLevel = level
	Colors = false
	return &buf
}

func TestLogFiltersBelowCurrentLevel(t *testing.T) {
	buf := captureLog(t, LevelWarn)

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestTaggedLogger(t *testing.T) {
	buf := captureLog(t, LevelDebug)

	Tagged("media").Debug("fetched %d", 3)
	if out := buf.String(); !strings.Contains(out, "[DEBUG] [media] fetched 3") {
		t.Fatalf("unexpected line %q", out)
	}
}

func TestRaylibLogCallback(t *testing.T) {
	buf := captureLog(t, LevelWarn)

	RaylibLogCallback(3, "TEXTURE: loaded")
	if buf.Len() != 0 {
		t.Fatalf("raylib info should be filtered at warn, got %q", buf.String())
	}

	ShowRaylibInfo = true
	t.Cleanup(func() { ShowRaylibInfo = false })
	RaylibLogCallback(3, "TEXTURE: loaded")
	RaylibLogCallback(5, "GL: failed")

	out := buf.String()
	if !strings.Contains(out, "[INFO] [RAYLIB] TEXTURE: loaded") || !strings.Contains(out, "[ERROR] [RAYLIB] GL: failed") {
		t.Fatalf("unexpected output %q", out)
	}
}
