package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dnscryptConfig = `
listen_addresses = ['127.0.0.1:53']
server_names = ['scaleway-fr']

[sources]

  [sources.public-resolvers]
    urls = ['https://raw.githubusercontent.com/DNSCrypt/dnscrypt-resolvers/master/v3/public-resolvers.md', 'https://download.dnscrypt.info/resolvers-list/v3/public-resolvers.md']
    cache_file = 'public-resolvers.md'
    minisign_key = 'RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3'
    refresh_delay = 72
    prefix = ''

  [sources.relays]
    urls = ['https://download.dnscrypt.info/resolvers-list/v3/relays.md']
    cache_file = 'relays.md'
    minisign_key = 'RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3'

  [sources.unsigned]
    urls = ['https://example.com/unsigned.md']

  [sources.odoh-servers]
    urls = ['https://download.dnscrypt.info/resolvers-list/v3/odoh-servers.md']
    minisign_key = 'RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3'
`

func TestEnumerate_EmptyDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(""))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if triples := Enumerate(doc); len(triples) != 0 {
		t.Errorf("Enumerate = %v, want empty", triples)
	}

	if triples := Enumerate(nil); len(triples) != 0 {
		t.Errorf("Enumerate(nil) = %v, want empty", triples)
	}
}

func TestEnumerate_NoSourcesKey(t *testing.T) {
	doc, err := ParseDocument([]byte("listen_addresses = ['127.0.0.1:53']\n"))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if triples := Enumerate(doc); len(triples) != 0 {
		t.Errorf("Enumerate = %v, want empty", triples)
	}
}

func TestEnumerate_MissingKey(t *testing.T) {
	doc, err := ParseDocument([]byte("[sources.a]\nurls = ['https://example.com/a.md']\n"))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if triples := Enumerate(doc); len(triples) != 0 {
		t.Errorf("Enumerate = %v, want empty", triples)
	}
	if len(doc.Sources) != 1 || doc.Sources[0].Complete() {
		t.Errorf("expected one incomplete source, got %+v", doc.Sources)
	}
}

func TestEnumerate_MissingURLs(t *testing.T) {
	doc, err := ParseDocument([]byte("[sources.a]\nminisign_key = 'RWQ'\n"))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if triples := Enumerate(doc); len(triples) != 0 {
		t.Errorf("Enumerate = %v, want empty", triples)
	}
}

func TestEnumerate_DocumentOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(dnscryptConfig))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	triples := Enumerate(doc)

	want := []SourceTriple{
		{"public-resolvers", "https://raw.githubusercontent.com/DNSCrypt/dnscrypt-resolvers/master/v3/public-resolvers.md", "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"},
		{"public-resolvers", "https://download.dnscrypt.info/resolvers-list/v3/public-resolvers.md", "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"},
		{"relays", "https://download.dnscrypt.info/resolvers-list/v3/relays.md", "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"},
		{"odoh-servers", "https://download.dnscrypt.info/resolvers-list/v3/odoh-servers.md", "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"},
	}

	if len(triples) != len(want) {
		t.Fatalf("Enumerate returned %d triples, want %d: %+v", len(triples), len(want), triples)
	}
	for i := range want {
		if triples[i] != want[i] {
			t.Errorf("triple[%d] = %+v, want %+v", i, triples[i], want[i])
		}
	}
}

func TestEnumerate_EmptyURLs(t *testing.T) {
	doc, err := ParseDocument([]byte("[sources.a]\nurls = []\nminisign_key = 'RWQ'\n"))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if !doc.Sources[0].Complete() {
		t.Error("source with empty urls should still be complete")
	}
	if triples := Enumerate(doc); len(triples) != 0 {
		t.Errorf("Enumerate = %v, want empty", triples)
	}
}

func TestParseDocument_MalformedSource(t *testing.T) {
	data := "[sources.a]\nurls = 'not-a-list'\nminisign_key = 'RWQ'\n" +
		"[sources.b]\nurls = ['https://example.com/b.md']\nminisign_key = 'RWQ'\n"

	doc, err := ParseDocument([]byte(data))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if doc.Sources[0].Err == nil {
		t.Error("expected decode error on source a")
	}

	triples := Enumerate(doc)
	if len(triples) != 1 || triples[0].Name != "b" {
		t.Errorf("Enumerate = %+v, want only source b", triples)
	}
}

func TestParseDocument_InvalidTOML(t *testing.T) {
	if _, err := ParseDocument([]byte("[sources\n")); err == nil {
		t.Error("Expected error for invalid TOML, got nil")
	}
}

func TestLoadDocument(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dnscrypt-proxy.toml")
	if err := os.WriteFile(path, []byte(dnscryptConfig), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}

	if got := strings.Join(doc.Names(), ","); got != "public-resolvers,relays,odoh-servers" {
		t.Errorf("Names = %q", got)
	}
}

func TestLoadDocument_NotFound(t *testing.T) {
	if _, err := LoadDocument("/nonexistent/dnscrypt-proxy.toml"); err == nil {
		t.Error("Expected error for nonexistent config, got nil")
	}
}

func TestDocument_Filter(t *testing.T) {
	doc, err := ParseDocument([]byte(dnscryptConfig))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	filtered := doc.Filter([]string{"odoh-servers", "relays"})
	if got := strings.Join(filtered.Names(), ","); got != "relays,odoh-servers" {
		t.Errorf("Filter kept %q, want document order relays,odoh-servers", got)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		source  string
		want    string
		wantErr bool
	}{
		{"public-resolvers", filepath.Join(dir, "public-resolvers.rules"), false},
		{"../../etc/passwd", filepath.Join(dir, "etc", "passwd.rules"), false},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := OutputPath(dir, tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputPath(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.source, got, tt.want)
			}
			if !tt.wantErr && !strings.HasPrefix(got, dir+string(filepath.Separator)) {
				t.Errorf("OutputPath(%q) escaped %s", tt.source, dir)
			}
		})
	}
}
