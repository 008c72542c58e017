// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteNotifyConfig writes a notification config into a fresh temp directory
// and returns its path.
func WriteNotifyConfig(t testing.TB, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "herald.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write notification config: %v", err)
	}
	return path
}

// WriteConfigFile writes arbitrary config content to name inside a fresh
// temp directory and returns the full path.
func WriteConfigFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
