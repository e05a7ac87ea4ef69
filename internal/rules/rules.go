package rules

import (
	"fmt"
	"strings"

	"github.com/firefly-engineering/stampwall/internal/stamp"
)

// Entry is a decoded endpoint together with the source it came from.
type Entry struct {
	stamp.Endpoint
	Source string `json:"source" yaml:"source"`
	URL    string `json:"url" yaml:"url"`
	Key    string `json:"minisign_key" yaml:"minisign_key"`
}

// Renderer turns an entry into one line of output. An empty line means the
// entry cannot be expressed in the renderer's format.
type Renderer interface {
	Render(e Entry) string
}

// documentRenderer is implemented by formats that need a surrounding
// document rather than a flat list of lines.
type documentRenderer interface {
	Document(entries []Entry) (string, error)
}

// Options configures a renderer.
type Options struct {
	Format    string
	Action    string
	Interface string
	Quick     bool
	Log       bool
	Label     bool
	Proto     string
}

// New returns the renderer for opts.Format.
func New(opts Options) (Renderer, error) {
	if opts.Action == "" {
		opts.Action = "pass"
	}
	if opts.Proto == "" {
		opts.Proto = "tcp"
	}

	switch opts.Format {
	case "pf", "":
		return &PF{
			Action:    opts.Action,
			Interface: opts.Interface,
			Quick:     opts.Quick,
			Log:       opts.Log,
			AddLabel:  opts.Label,
			Proto:     opts.Proto,
		}, nil
	case "nftables":
		return &Nftables{
			Action:    opts.Action,
			Interface: opts.Interface,
			Log:       opts.Log,
			Comment:   opts.Label,
			Proto:     opts.Proto,
		}, nil
	case "console":
		return Console{}, nil
	default:
		return nil, fmt.Errorf("unknown rule format: %s (must be pf, nftables, or console)", opts.Format)
	}
}

// Document renders all entries. Line based formats emit one line per
// entry; other formats wrap them in their own document.
func Document(r Renderer, entries []Entry) (string, error) {
	if d, ok := r.(documentRenderer); ok {
		return d.Document(entries)
	}

	var buf strings.Builder
	for _, e := range entries {
		line := r.Render(e)
		if line == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

// BySource splits entries per source, keeping the order in which sources
// first appear.
func BySource(entries []Entry) ([]string, map[string][]Entry) {
	var order []string
	groups := make(map[string][]Entry)

	for _, e := range entries {
		if _, ok := groups[e.Source]; !ok {
			order = append(order, e.Source)
		}
		groups[e.Source] = append(groups[e.Source], e)
	}
	return order, groups
}
