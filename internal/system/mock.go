package system

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu      sync.RWMutex
	files   map[string][]byte
	dirs    map[string]bool
	tempSeq int

	// Removed records every path passed to a successful Remove, in order.
	Removed []string

	// Error injection
	ReadFileErr  error
	WriteFileErr error
	WriteTempErr error
	RemoveErr    error
	MkdirAllErr  error
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	m.addParents(path)
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// Files returns the number of files currently held.
func (m *MockFS) Files() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

func (m *MockFS) addParents(path string) {
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileErr != nil {
		return m.WriteFileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *MockFS) WriteTemp(dir, pattern string, data []byte) (string, error) {
	if m.WriteTempErr != nil {
		return "", m.WriteTempErr
	}
	if dir == "" {
		dir = "/tmp"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempSeq++
	path := filepath.Join(dir, fmt.Sprintf("%s%d", pattern, m.tempSeq))
	m.files[path] = data
	return path, nil
}

func (m *MockFS) Remove(path string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		m.Removed = append(m.Removed, path)
		return nil
	}
	if _, ok := m.dirs[path]; ok {
		delete(m.dirs, path)
		m.Removed = append(m.Removed, path)
		return nil
	}
	return fs.ErrNotExist
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirAllErr != nil {
		return m.MkdirAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := path
	for current != "." && current != "/" {
		m.dirs[current] = true
		current = filepath.Dir(current)
	}
	return nil
}

// ExitError is returned by MockExecutor to simulate a command that ran and
// exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode implements ExitCoder.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command names to responses.
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Paths maps names to LookPath results. Unknown names are not found
	// unless MissingOK is set.
	Paths     map[string]string
	MissingOK bool

	// OnExecute, when set, runs before the response is returned. Tests use
	// it to inspect files a command would read.
	OnExecute func(cmd MockCommand)
}

// MockCommand records an executed command.
type MockCommand struct {
	Name string
	Args []string
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
		Paths:     make(map[string]string),
		MissingOK: true,
	}
}

// AddResponse sets the response for a command name.
func (m *MockExecutor) AddResponse(name string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[name] = MockResponse{Output: output, Err: err}
}

// AddExitCode makes name exit with code. Zero means success.
func (m *MockExecutor) AddExitCode(name string, code int) {
	var err error
	if code != 0 {
		err = &ExitError{Code: code}
	}
	m.AddResponse(name, nil, err)
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	cmd := MockCommand{Name: name, Args: args}
	m.Commands = append(m.Commands, cmd)
	resp, ok := m.Responses[name]
	if !ok {
		resp = m.DefaultResponse
	}
	hook := m.OnExecute
	m.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resp.Output, resp.Err
}

func (m *MockExecutor) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Paths[name]; ok {
		return p, nil
	}
	if m.MissingOK {
		return name, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
