package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "bottlescan/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.key("API_PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key() = %q", got)
	}
	if got := core.Prefix("MAP_").key("MIN_CLUSTER"); got != "CORE_MAP_MIN_CLUSTER" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMustStringAndPort(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  bottlescan ")
	if got := c.MustString("NAME"); got != "bottlescan" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })

	t.Setenv("APP_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q", got)
	}
	t.Setenv("APP_BAD", "abc")
	kit.MustPanic(t, func() { _ = c.MustPort("BAD") })
	t.Setenv("APP_OOB", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("OOB") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_INT", " 7 ")
	t.Setenv("M_I64", "10485760")
	t.Setenv("M_F", "-1.2864")
	t.Setenv("M_B", "true")
	t.Setenv("M_D", "150ms")
	t.Setenv("M_BAD", "nope")

	if got := c.MayInt("INT", 0); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad = %d", got)
	}
	if got := c.MayInt64("I64", 0); got != 10<<20 {
		t.Fatalf("MayInt64 = %d", got)
	}
	if got := c.MayFloat64("F", 0); got != -1.2864 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if got := c.MayFloat64("BAD", 36.8172); got != 36.8172 {
		t.Fatalf("MayFloat64 bad = %v", got)
	}
	if !c.MayBool("B", false) || c.MayBool("BAD", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("D", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("MISSING", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default = %v", got)
	}
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
}

func TestMayURL(t *testing.T) {
	c := New().Prefix("U_")
	t.Setenv("U_OK", "http://localhost:8000/")
	t.Setenv("U_REL", "/predict")
	if got := c.MayURL("OK", ""); got != "http://localhost:8000" {
		t.Fatalf("MayURL = %q", got)
	}
	if got := c.MayURL("REL", "http://fallback"); got != "http://fallback" {
		t.Fatalf("MayURL relative should fall back, got %q", got)
	}
	if got := c.MayURL("MISSING", ""); got != "" {
		t.Fatalf("MayURL missing = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_VALS", " one, two , ,three ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "local", "local", "remote"); got != "local" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_SRC", "Remote")
	if got := c.MayEnum("SRC", "local", "local", "remote"); got != "remote" {
		t.Fatalf("MayEnum = %q", got)
	}
	t.Setenv("E_BAD", "sqlite")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "local", "local", "remote") })
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("DOTENV_FRESH=from-file\nDOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_SET", "from-env")
	t.Setenv("DOTENV_FRESH", "")
	_ = os.Unsetenv("DOTENV_FRESH")

	if err := LoadDotenv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv("DOTENV_FRESH"); got != "from-file" {
		t.Fatalf("DOTENV_FRESH = %q", got)
	}
	if got := os.Getenv("DOTENV_SET"); got != "from-env" {
		t.Fatalf("existing env overwritten: %q", got)
	}
}
