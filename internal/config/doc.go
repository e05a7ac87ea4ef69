// Package config reads the dnscrypt-proxy configuration that names the
// signed source lists, and stampwall's own settings file.
//
// # Source Document
//
// A dnscrypt-proxy.toml declares sources as tables under [sources]:
//
//	[sources.public-resolvers]
//	urls = ['https://download.dnscrypt.info/resolvers-list/v3/public-resolvers.md']
//	minisign_key = 'RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3'
//	cache_file = 'public-resolvers.md'
//
// Only urls and minisign_key are read. Entries missing either key are kept
// in the Document but never enumerated. Enumerate yields one SourceTriple per
// URL, in document order.
//
// # Settings
//
// Settings are loaded from /etc/stampwall/stampwall.toml when present:
//
//	[verifier]
//	mode = "command"              # or "builtin"
//	command = "/usr/local/bin/minisign"
//
//	[fetch]
//	timeout = "30s"
//	user_agent = "stampwall"
//	proxy = "socks5://127.0.0.1:9050"
//
//	[rules]
//	format = "pf"                 # pf, nftables or console
//	action = "pass"
//	interface = "en0"
//	quick = true
//	log = false
//	label = true
//	proto = "tcp"
//
// Command line flags override settings.
package config
