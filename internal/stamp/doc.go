// Package stamp extracts and decodes DNS stamps (sdns:// URIs).
//
// Scan finds every stamp-shaped token in arbitrary text, keeping order and
// duplicates. Decode turns a single stamp into an Endpoint. Decoding never
// fails: a stamp that cannot be decoded yields an Endpoint whose Address and
// Port are empty, with the original stamp preserved, so a single bad entry
// cannot stop the processing of a list.
//
// The address field is reported as encoded in the stamp. IPv6 literals are
// unbracketed and an explicit port is split off:
//
//	[2001:db8::1]:443 -> Address "2001:db8::1", Port "443"
//	[2001:db8::1]     -> Address "2001:db8::1", Port ""
//	192.0.2.1:8443    -> Address "192.0.2.1",   Port "8443"
//	192.0.2.1         -> Address "192.0.2.1",   Port ""
//
// Implied ports are not filled in by Decode; use Endpoint.WithDefaultPort.
package stamp
