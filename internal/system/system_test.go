package system

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOSFileSystem_WriteTemp(t *testing.T) {
	fsys := &osFileSystem{}
	dir := t.TempDir()

	path, err := fsys.WriteTemp(dir, "stampwall-minisig-", []byte("untrusted comment: test\n"))
	if err != nil {
		t.Fatalf("WriteTemp error: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("WriteTemp wrote to %s, want a file in %s", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), "stampwall-minisig-") {
		t.Errorf("WriteTemp name %s lacks pattern prefix", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "untrusted comment: test\n" {
		t.Errorf("content = %q", data)
	}

	if err := fsys.Remove(path); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be removed")
	}
}

func TestOSExecutor_ExitCode(t *testing.T) {
	exec := &osExecutor{}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := exec.Execute(context.Background(), "sh", "-c", "exit 3")

	var coder ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("error %v does not carry an exit code", err)
	}
	if coder.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", coder.ExitCode())
	}
}
