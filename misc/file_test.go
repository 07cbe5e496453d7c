package misc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contents.bin")
	contents := []byte("mandelbrot")

	written, err := WriteFile(path, contents)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if written != len(contents) {
		t.Errorf("WriteFile wrote %d bytes, want %d", written, len(contents))
	}

	read, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(read, contents) {
		t.Errorf("ReadFile = %q, want %q", read, contents)
	}
}

func TestReadFileErrors(t *testing.T) {
	if _, err := ReadFile(""); err == nil {
		t.Error("Expected error for empty filename")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCopyFile(t *testing.T) {
	source := filepath.Join(t.TempDir(), "settings.toml")
	if _, err := WriteFile(source, []byte("run_name = \"copy\"\n")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	directory := filepath.Join(t.TempDir(), "nested", "run")
	if err := EnsureDirectory(directory); err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}
	if err := CopyFile(source, directory); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(directory, "settings.toml")); err != nil {
		t.Errorf("Copied file missing: %v", err)
	}
}
