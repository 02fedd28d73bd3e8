package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenInput(t *testing.T) {
	tmpDir := t.TempDir()

	srcPath := filepath.Join(tmpDir, "frames.jsonl")
	content := "{\"type\":\"touchstart\"}\n"
	if err := os.WriteFile(srcPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rc, err := OpenInput(srcPath)
	if err != nil {
		t.Fatalf("OpenInput() error: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", string(got), content)
	}
}

func TestOpenInput_Missing(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenInput_Stdin(t *testing.T) {
	rc, err := OpenInput("-")
	if err != nil {
		t.Fatalf("OpenInput(-) error: %v", err)
	}
	if err := rc.Close(); err != nil {
		t.Errorf("closing stdin wrapper: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/.fingers.ini")
	if err != nil {
		t.Fatalf("ExpandHome() error: %v", err)
	}
	if want := filepath.Join(home, ".fingers.ini"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}

	got, err = ExpandHome("/etc/fingers.ini")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/etc/fingers.ini" {
		t.Errorf("ExpandHome() changed absolute path to %q", got)
	}
}
