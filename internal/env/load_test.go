package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ReadsFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "MAPFIELD_ENV_TEST_A=from-file\nMAPFIELD_ENV_TEST_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("MAPFIELD_ENV_TEST_B", "from-process")
	os.Unsetenv("MAPFIELD_ENV_TEST_A")
	t.Cleanup(func() { os.Unsetenv("MAPFIELD_ENV_TEST_A") })

	loaded, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Fatalf("unexpected loaded files: %v", loaded)
	}
	if got := os.Getenv("MAPFIELD_ENV_TEST_A"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("MAPFIELD_ENV_TEST_B"); got != "from-process" {
		t.Fatalf("process value should win, got %q", got)
	}
}

func TestLookup_BlankIsUnset(t *testing.T) {
	t.Setenv("MAPFIELD_ENV_TEST_BLANK", "  ")
	if _, ok := Lookup("MAPFIELD_ENV_TEST_BLANK"); ok {
		t.Fatalf("blank value should be reported as unset")
	}
	if got := Get("MAPFIELD_ENV_TEST_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("unexpected fallback: %q", got)
	}

	t.Setenv("MAPFIELD_ENV_TEST_SET", "value")
	if got, ok := Lookup("MAPFIELD_ENV_TEST_SET"); !ok || got != "value" {
		t.Fatalf("unexpected lookup: %q %v", got, ok)
	}
}
