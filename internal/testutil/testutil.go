package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnv holds a source server, a signer and a dnscrypt-proxy.toml
// referencing the published sources.
type TestEnv struct {
	T      *testing.T
	TmpDir string
	Server *SourceServer
	Signer *Signer

	sources []string
}

// NewTestEnv creates a new test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	env := &TestEnv{
		T:      t,
		TmpDir: t.TempDir(),
		Server: NewSourceServer(t),
		Signer: NewSigner(1),
	}
	env.writeConfig()
	return env
}

// ConfigPath returns the path of the generated dnscrypt-proxy.toml.
func (e *TestEnv) ConfigPath() string {
	return filepath.Join(e.TmpDir, "dnscrypt-proxy.toml")
}

// AddSource publishes a fixture signed by the environment's signer and
// declares it as a source.
func (e *TestEnv) AddSource(name, fixture string) string {
	e.T.Helper()

	data, err := LoadFixture(fixture)
	if err != nil {
		e.T.Fatalf("Failed to load fixture %s: %v", fixture, err)
	}
	url := e.Server.Publish("/"+name+"/"+fixture, data, e.Signer)
	e.addSourceTable(name, []string{url}, e.Signer.PublicKey())
	return url
}

// AddForgedSource publishes a fixture signed by a different key than the
// one declared in the configuration.
func (e *TestEnv) AddForgedSource(name, fixture string) string {
	e.T.Helper()

	data, err := LoadFixture(fixture)
	if err != nil {
		e.T.Fatalf("Failed to load fixture %s: %v", fixture, err)
	}
	url := e.Server.Publish("/"+name+"/"+fixture, data, NewSigner(99))
	e.addSourceTable(name, []string{url}, e.Signer.PublicKey())
	return url
}

// AddMissingSource declares a source whose URL is not served.
func (e *TestEnv) AddMissingSource(name string) string {
	url := e.Server.URL + "/" + name + "/missing.md"
	e.addSourceTable(name, []string{url}, e.Signer.PublicKey())
	return url
}

// AddRawSource appends a verbatim [sources.<name>] table.
func (e *TestEnv) AddRawSource(name, body string) {
	e.sources = append(e.sources, fmt.Sprintf("[sources.%s]\n%s\n", name, body))
	e.writeConfig()
}

func (e *TestEnv) addSourceTable(name string, urls []string, key string) {
	quoted := make([]string, len(urls))
	for i, u := range urls {
		quoted[i] = fmt.Sprintf("'%s'", u)
	}
	e.AddRawSource(name, fmt.Sprintf("urls = [%s]\nminisign_key = '%s'\ncache_file = '%s.md'",
		strings.Join(quoted, ", "), key, name))
}

func (e *TestEnv) writeConfig() {
	e.T.Helper()

	content := "listen_addresses = ['127.0.0.1:53']\n\n[sources]\n\n" + strings.Join(e.sources, "\n")
	if err := os.WriteFile(e.ConfigPath(), []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}
}
