package system

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	content := []byte("sdns://gQ01MS4xNTguMTY2Ljk3")
	if err := mockFS.WriteFile("/rules/relays.rules", content, 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := mockFS.ReadFile("/rules/relays.rules")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if string(data) != string(content) {
		t.Errorf("ReadFile = %q, want %q", string(data), string(content))
	}
}

func TestMockFS_ReadFile_NotExists(t *testing.T) {
	mockFS := NewMockFS()

	_, err := mockFS.ReadFile("/nonexistent")
	if err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_WriteTemp(t *testing.T) {
	mockFS := NewMockFS()

	first, err := mockFS.WriteTemp("", "stampwall-source-", []byte("a"))
	if err != nil {
		t.Fatalf("WriteTemp error: %v", err)
	}
	second, err := mockFS.WriteTemp("", "stampwall-source-", []byte("b"))
	if err != nil {
		t.Fatalf("WriteTemp error: %v", err)
	}

	if first == second {
		t.Errorf("WriteTemp returned the same path twice: %s", first)
	}
	if data, ok := mockFS.GetFile(second); !ok || string(data) != "b" {
		t.Errorf("GetFile(%s) = %q, %v", second, data, ok)
	}
}

func TestMockFS_Remove(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/tmp/source", []byte("x"))

	if err := mockFS.Remove("/tmp/source"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	if _, ok := mockFS.GetFile("/tmp/source"); ok {
		t.Error("File should be removed")
	}
	if len(mockFS.Removed) != 1 || mockFS.Removed[0] != "/tmp/source" {
		t.Errorf("Removed = %v", mockFS.Removed)
	}
	if err := mockFS.Remove("/tmp/source"); err != fs.ErrNotExist {
		t.Errorf("second Remove error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_MkdirAll(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}

	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mockFS.dirs[dir] {
			t.Errorf("%s should exist", dir)
		}
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.ReadFileErr = fs.ErrPermission
	mockFS.WriteTempErr = fs.ErrPermission

	if _, err := mockFS.ReadFile("/anything"); err != fs.ErrPermission {
		t.Errorf("ReadFile error = %v, want ErrPermission", err)
	}
	if _, err := mockFS.WriteTemp("", "x", nil); err != fs.ErrPermission {
		t.Errorf("WriteTemp error = %v, want ErrPermission", err)
	}
}

func TestMockExecutor_Execute(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("minisign", []byte("Signature and comment signature verified\n"), nil)

	output, err := exec.Execute(context.Background(), "minisign", "-V", "-m", "file")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "Signature and comment signature verified\n" {
		t.Errorf("Output = %q", string(output))
	}

	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("No command recorded")
	}
	if cmd.Name != "minisign" || len(cmd.Args) != 3 {
		t.Errorf("Command = %+v", cmd)
	}
}

func TestMockExecutor_ExitCode(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddExitCode("minisign", 1)

	_, err := exec.Execute(context.Background(), "minisign")

	var coder ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("error %v does not carry an exit code", err)
	}
	if coder.ExitCode() != 1 {
		t.Errorf("ExitCode = %d, want 1", coder.ExitCode())
	}
}

func TestMockExecutor_DefaultResponse(t *testing.T) {
	exec := NewMockExecutor()
	exec.DefaultResponse = MockResponse{Output: []byte("default"), Err: nil}

	output, err := exec.Execute(context.Background(), "unknown", "command")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "default" {
		t.Errorf("Output = %q, want %q", string(output), "default")
	}
}

func TestMockExecutor_OnExecute(t *testing.T) {
	exec := NewMockExecutor()

	var seen []string
	exec.OnExecute = func(cmd MockCommand) {
		seen = append(seen, cmd.Args...)
	}

	_, _ = exec.Execute(context.Background(), "minisign", "-x", "sig")
	if len(seen) != 2 || seen[1] != "sig" {
		t.Errorf("OnExecute saw %v", seen)
	}
}

func TestMockExecutor_CanceledContext(t *testing.T) {
	exec := NewMockExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exec.Execute(ctx, "minisign"); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
}

func TestMockExecutor_LookPath(t *testing.T) {
	exec := NewMockExecutor()
	exec.Paths["minisign"] = "/usr/local/bin/minisign"

	if p, err := exec.LookPath("minisign"); err != nil || p != "/usr/local/bin/minisign" {
		t.Errorf("LookPath = %q, %v", p, err)
	}

	exec.MissingOK = false
	if _, err := exec.LookPath("gpg"); err == nil {
		t.Error("Expected error for unknown executable, got nil")
	}
}

func TestMockExecutor_Reset(t *testing.T) {
	exec := NewMockExecutor()
	_, _ = exec.Execute(context.Background(), "cmd1")
	_, _ = exec.Execute(context.Background(), "cmd2")

	if len(exec.Commands) != 2 {
		t.Errorf("Commands length = %d, want 2", len(exec.Commands))
	}

	exec.Reset()

	if len(exec.Commands) != 0 {
		t.Errorf("Commands length after reset = %d, want 0", len(exec.Commands))
	}
}
