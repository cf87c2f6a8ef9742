package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadHashedTokenFileMatchesStoredHash(t *testing.T) {
	hash, err := HashToken("super-secret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "keys.txt")
	content := "# comment line\n\n" + hash + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write keys file: %v", err)
	}

	set, err := LoadHashedTokenFile(path)
	if err != nil {
		t.Fatalf("LoadHashedTokenFile: %v", err)
	}
	if set.DevMode() {
		t.Fatal("expected non-empty set, not dev mode")
	}
	if !set.Contains("super-secret") {
		t.Error("expected stored token to match its own hash")
	}
	if set.Contains("wrong-secret") {
		t.Error("expected mismatched token to be rejected")
	}
}

func TestLoadHashedTokenFileEmptyIsDevMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("\n# only comments\n"), 0o600); err != nil {
		t.Fatalf("write keys file: %v", err)
	}

	set, err := LoadHashedTokenFile(path)
	if err != nil {
		t.Fatalf("LoadHashedTokenFile: %v", err)
	}
	if !set.DevMode() {
		t.Error("expected dev mode for a file with no hash lines")
	}
}

func TestLoadHashedTokenFileMissingReturnsError(t *testing.T) {
	if _, err := LoadHashedTokenFile("/nonexistent/path/keys.txt"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
