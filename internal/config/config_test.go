package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSetsVariables(t *testing.T) {
	const key = "MONARCH_LOAD_TEST"
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q after Load, want from-file", key, got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), ".env"))
	if err == nil {
		t.Fatal("Load of a missing file should fail")
	}
	// Callers treat an absent default file as fine, so the error must
	// still look like a not-exist error.
	if !os.IsNotExist(err) {
		t.Errorf("missing-file error %v is not recognized by os.IsNotExist", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("this line has no separator\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := Load(path)
	if err == nil {
		t.Fatal("Load of a malformed file should fail")
	}
	if os.IsNotExist(err) {
		t.Error("malformed-file error must not look like a missing file")
	}
}
