package config

import (
	"testing"
	"time"

	kit "linkmap/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	api := New().Prefix("CORE_").Prefix("API_")
	if got := api.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key() = %q, want %q", got, "CORE_API_PORT")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  linkmap ")
	if got := c.MustString("NAME"); got != "linkmap" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	t.Setenv("APP_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("LM_")
	t.Setenv("LM_ROWS", " 250 ")
	t.Setenv("LM_BAD_INT", "many")
	t.Setenv("LM_ON", "true")
	t.Setenv("LM_BAD_BOOL", "sometimes")
	t.Setenv("LM_WAIT", "2s")
	t.Setenv("LM_BAD_WAIT", "soon")

	if got := c.MayInt("ROWS", 1); got != 250 {
		t.Errorf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD_INT", 7); got != 7 {
		t.Errorf("MayInt invalid = %d, want default", got)
	}
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Errorf("MayInt missing = %d", got)
	}
	if !c.MayBool("ON", false) || !c.MayBool("BAD_BOOL", true) || c.MayBool("MISSING", false) {
		t.Errorf("MayBool mismatch")
	}
	if got := c.MayDuration("WAIT", time.Second); got != 2*time.Second {
		t.Errorf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD_WAIT", time.Second); got != time.Second {
		t.Errorf("MayDuration invalid = %v", got)
	}
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Errorf("MayString = %q", got)
	}
}

func TestParseBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1024", 1024},
		{"10MiB", 10 << 20},
		{"10 mib", 10 << 20},
		{"512KB", 512000},
		{"2k", 2048},
		{"1g", 1 << 30},
		{"64b", 64},
	}
	for _, tc := range cases {
		got, err := ParseBytes(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseBytes(%q) = %d,%v want %d", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseBytes("lots"); err == nil {
		t.Errorf("expected error for junk")
	}
}

func TestMayBytes(t *testing.T) {
	c := New().Prefix("LM_")
	t.Setenv("LM_MAX", "5MiB")
	t.Setenv("LM_NEG", "-5")
	if got := c.MayBytes("MAX", 1); got != 5<<20 {
		t.Fatalf("MayBytes = %d", got)
	}
	if got := c.MayBytes("NEG", 99); got != 99 {
		t.Fatalf("negative size should fall back, got %d", got)
	}
	if got := c.MayBytes("MISSING", 42); got != 42 {
		t.Fatalf("missing = %d", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("LM_")
	t.Setenv("LM_ORIGINS", " https://a.example , ,https://b.example ")
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("LM_EMPTY", " , , ")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("all empty should fall back, got %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("LM_")
	t.Setenv("LM_FORMAT", "JSON")
	if got := c.MayEnum("FORMAT", "console", "console", "json"); got != "json" {
		t.Fatalf("MayEnum = %q, want canonical allowed spelling", got)
	}
	if got := c.MayEnum("MISSING", "", "a"); got != "" {
		t.Fatalf("empty default = %q", got)
	}
	t.Setenv("LM_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "json", "json") })
}

func TestMayPort(t *testing.T) {
	c := New().Prefix("LM_")
	if got := c.MayPort("PORT", "4000"); got != ":4000" {
		t.Fatalf("default port = %q", got)
	}
	t.Setenv("LM_PORT", "127.0.0.1:8080")
	if got := c.MayPort("PORT", "4000"); got != "127.0.0.1:8080" {
		t.Fatalf("host:port = %q", got)
	}
	t.Setenv("LM_BAD", "70000")
	kit.MustPanic(t, func() { _ = c.MayPort("BAD", "4000") })
}
