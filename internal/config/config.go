package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
)

// Source is one [sources.<name>] table of a dnscrypt-proxy configuration.
type Source struct {
	Name        string
	URLs        []string
	MinisignKey string

	// HasURLs and HasKey record whether the keys were present at all,
	// so an explicitly empty value is distinguishable from a missing one.
	HasURLs bool
	HasKey  bool

	// Err is set when the table could not be decoded. Such sources are
	// skipped like incomplete ones.
	Err error
}

// Complete reports whether the source defines both urls and minisign_key.
func (s Source) Complete() bool {
	return s.Err == nil && s.HasURLs && s.HasKey
}

// Document holds the sources of a dnscrypt-proxy configuration in the order
// they are declared.
type Document struct {
	Sources []Source
}

// SourceTriple is one fetchable unit: a URL together with the name and key
// of the source declaring it.
type SourceTriple struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Key  string `json:"minisign_key" yaml:"minisign_key"`
}

type rawDocument struct {
	Sources map[string]toml.Primitive `toml:"sources"`
}

type rawSource struct {
	URLs        []string `toml:"urls"`
	MinisignKey string   `toml:"minisign_key"`
}

// LoadDocument reads and parses a dnscrypt-proxy configuration file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses dnscrypt-proxy configuration data. Keys other than
// the source urls and minisign_key are ignored.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, name := range sourceNames(md) {
		prim, ok := raw.Sources[name]
		if !ok {
			continue
		}

		src := Source{
			Name:    name,
			HasURLs: md.IsDefined("sources", name, "urls"),
			HasKey:  md.IsDefined("sources", name, "minisign_key"),
		}

		var fields rawSource
		if err := md.PrimitiveDecode(prim, &fields); err != nil {
			src.Err = fmt.Errorf("source %s: %w", name, err)
		} else {
			src.URLs = fields.URLs
			src.MinisignKey = fields.MinisignKey
		}

		doc.Sources = append(doc.Sources, src)
	}

	return doc, nil
}

// sourceNames returns the names of the [sources.*] tables in declaration
// order. A map alone would lose it.
func sourceNames(md toml.MetaData) []string {
	var names []string
	seen := make(map[string]bool)

	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "sources" {
			continue
		}
		if !seen[key[1]] {
			seen[key[1]] = true
			names = append(names, key[1])
		}
	}

	return names
}

// Enumerate yields one SourceTriple per URL of every complete source, in
// document order. Incomplete sources are skipped silently.
func Enumerate(doc *Document) []SourceTriple {
	if doc == nil {
		return nil
	}

	var triples []SourceTriple
	for _, src := range doc.Sources {
		if !src.Complete() {
			continue
		}
		for _, url := range src.URLs {
			triples = append(triples, SourceTriple{
				Name: src.Name,
				URL:  url,
				Key:  src.MinisignKey,
			})
		}
	}

	return triples
}

// Filter returns the sources whose name is in names, keeping document order.
func (d *Document) Filter(names []string) *Document {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := &Document{}
	for _, src := range d.Sources {
		if keep[src.Name] {
			out.Sources = append(out.Sources, src)
		}
	}
	return out
}

// Names returns the names of the complete sources.
func (d *Document) Names() []string {
	var names []string
	for _, src := range d.Sources {
		if src.Complete() {
			names = append(names, src.Name)
		}
	}
	return names
}

// OutputPath returns the rules file for a source inside dir. Source names
// come from the configuration, so the result is confined to dir.
func OutputPath(dir, source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("source name cannot be empty")
	}

	path, err := securejoin.SecureJoin(dir, source+".rules")
	if err != nil {
		return "", fmt.Errorf("invalid output path for source %q: %w", source, err)
	}
	return path, nil
}
