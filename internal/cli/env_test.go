package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLoaderLoadsRequestedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gate.env")
	if err := os.WriteFile(path, []byte("TRANSLATEGATE_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvFileOverrideVar, "")
	t.Setenv("TRANSLATEGATE_TEST_VALUE", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, ".env", "")
	if err := fs.Parse([]string{"--env", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: got %q want %q", loaded, path)
	}
	if got := os.Getenv("TRANSLATEGATE_TEST_VALUE"); got != "from-file" {
		t.Fatalf("unexpected env value: got %q", got)
	}
}

func TestEnvLoaderOverrideVarWins(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override.env")
	if err := os.WriteFile(override, []byte("TRANSLATEGATE_TEST_VALUE=override\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvFileOverrideVar, override)
	t.Setenv("TRANSLATEGATE_TEST_VALUE", "")

	loader := AddEnvFlag(flag.NewFlagSet("test", flag.ContinueOnError), filepath.Join(dir, "missing.env"), "")
	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != override {
		t.Fatalf("unexpected loaded path: got %q want %q", loaded, override)
	}
}

func TestEnvLoaderMissingFile(t *testing.T) {
	t.Setenv(EnvFileOverrideVar, "")

	dir := t.TempDir()
	loader := AddEnvFlag(flag.NewFlagSet("test", flag.ContinueOnError), filepath.Join(dir, "nope.env"), "")
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
