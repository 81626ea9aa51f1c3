package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("criterion", "genre").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("期望输出包含 message，实际=%q", out)
	}
	if !strings.Contains(out, `"criterion":"genre"`) {
		t.Fatalf("期望输出包含字段 criterion，实际=%q", out)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("quiet")
	Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("warn 级别下不应输出 info：%q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("期望输出 warn：%q", out)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "console", Output: &buf, NoColor: true})
	defer Init(DefaultConfig())

	l := With().Str("session", "s1").Logger()
	l.Warn().Msg("discover failed")

	out := buf.String()
	if !strings.Contains(out, "discover failed") || !strings.Contains(out, "session=s1") {
		t.Fatalf("console 输出不符合预期：%q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.ErrorLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) 期望 %v，实际 %v", in, want, got)
		}
	}
}
