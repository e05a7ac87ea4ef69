package rules

import (
	"fmt"
	"net/netip"
	"strings"
	"text/template"
)

// Nftables renders rules for an nft script.
type Nftables struct {
	Action    string
	Interface string
	Log       bool
	Comment   bool
	Proto     string
}

// nftablesData holds data for the nftables template.
type nftablesData struct {
	Sources []nftablesSource
}

type nftablesSource struct {
	Name  string
	Rules []string
}

var nftablesTmpl = template.Must(template.New("nftables").Parse(`#!/usr/sbin/nft -f

# Generated by stampwall. Loading this file replaces the stampwall table only.
table inet stampwall
flush table inet stampwall

table inet stampwall {
  chain output {
    type filter hook output priority 0; policy accept;
{{- range .Sources}}

    # {{.Name}}
{{- range .Rules}}
    {{.}}
{{- end}}
{{- end}}
  }
}
`))

func (n *Nftables) verdict() string {
	if n.Action == "block" {
		return "drop"
	}
	return "accept"
}

// Render returns one rule, or an empty string when the entry has no IP
// address.
func (n *Nftables) Render(e Entry) string {
	addr, err := netip.ParseAddr(e.Address)
	if err != nil {
		return ""
	}

	var parts []string
	if n.Interface != "" {
		parts = append(parts, fmt.Sprintf("oifname %q", n.Interface))
	}

	family := "ip"
	if addr.Is6() && !addr.Is4In6() {
		family = "ip6"
	}
	parts = append(parts, family, "daddr", addr.String())

	if e.Port != "" {
		parts = append(parts, n.Proto, "dport", e.Port)
	} else {
		parts = append(parts, "meta", "l4proto", n.Proto)
	}

	if n.Log {
		parts = append(parts, "log")
	}
	parts = append(parts, n.verdict())

	if n.Comment && e.Source != "" {
		parts = append(parts, "comment", fmt.Sprintf("%q", e.Source))
	}

	return strings.Join(parts, " ")
}

// Document renders a complete script with the rules grouped per source.
func (n *Nftables) Document(entries []Entry) (string, error) {
	order, groups := BySource(entries)

	data := nftablesData{}
	for _, name := range order {
		src := nftablesSource{Name: name}
		for _, e := range groups[name] {
			if rule := n.Render(e); rule != "" {
				src.Rules = append(src.Rules, rule)
			}
		}
		if len(src.Rules) > 0 {
			data.Sources = append(data.Sources, src)
		}
	}

	var buf strings.Builder
	if err := nftablesTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render nftables script: %w", err)
	}
	return buf.String(), nil
}
