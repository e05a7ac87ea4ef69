// Package rules renders decoded stamps as firewall rules.
//
// # Formats
//
// Three renderers are available:
//
//   - PF: one pf.conf rule per endpoint
//   - Nftables: a complete nft script with one rule per endpoint
//   - Console: a diagnostic line per endpoint
//
// Usage:
//
//	r, err := rules.New(rules.Options{Format: "pf", Interface: "en0", Quick: true, Label: true})
//	out, err := rules.Document(r, entries)
//
// A PF rule for a relay of the "relays" source looks like:
//
//	pass out quick on en0 proto tcp to 51.158.166.97 port 443 label relays
package rules
