package stamp

import (
	"net"
	"strconv"

	"github.com/jedisct1/go-dnsstamps"
)

// Scheme is the URI prefix of every stamp.
const Scheme = "sdns://"

const plainDNSPort = 53

// Proto identifies the server protocol a stamp describes.
type Proto uint8

const (
	ProtoPlain         = Proto(dnsstamps.StampProtoTypePlain)
	ProtoDNSCrypt      = Proto(dnsstamps.StampProtoTypeDNSCrypt)
	ProtoDoH           = Proto(dnsstamps.StampProtoTypeDoH)
	ProtoDoT           = Proto(dnsstamps.StampProtoTypeTLS)
	ProtoDoQ           = Proto(0x04)
	ProtoODoHTarget    = Proto(0x05)
	ProtoDNSCryptRelay = Proto(dnsstamps.StampProtoTypeDNSCryptRelay)
	ProtoODoHRelay     = Proto(0x85)

	// ProtoUnknown marks an endpoint whose stamp could not be decoded.
	ProtoUnknown = Proto(0xff)
)

func (p Proto) String() string {
	switch p {
	case ProtoPlain:
		return "plain"
	case ProtoDNSCrypt:
		return "dnscrypt"
	case ProtoDoH:
		return "doh"
	case ProtoDoT:
		return "dot"
	case ProtoDoQ:
		return "doq"
	case ProtoODoHTarget:
		return "odoh-target"
	case ProtoDNSCryptRelay:
		return "dnscrypt-relay"
	case ProtoODoHRelay:
		return "odoh-relay"
	default:
		return "unknown"
	}
}

// MarshalText renders the protocol name in JSON and YAML output.
func (p Proto) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// IsRelay reports whether the stamp describes an anonymization relay.
func (p Proto) IsRelay() bool {
	return p == ProtoDNSCryptRelay || p == ProtoODoHRelay
}

// Props holds the informal server properties carried by most stamp types.
type Props = dnsstamps.ServerInformalProperties

// Endpoint is the decoded form of a stamp.
//
// Address and Port are empty when absent. Port is never set without Address.
// Stamp always holds the input, whether or not it could be decoded.
// HostnamePort is the port named in the provider host field, if any.
type Endpoint struct {
	Address      string `json:"address,omitempty" yaml:"address,omitempty"`
	Port         string `json:"port,omitempty" yaml:"port,omitempty"`
	Stamp        string `json:"stamp" yaml:"stamp"`
	Proto        Proto  `json:"proto" yaml:"proto"`
	Hostname     string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	HostnamePort string `json:"hostname_port,omitempty" yaml:"hostname_port,omitempty"`
	Props        Props  `json:"-" yaml:"-"`
}

// HasAddress reports whether the stamp carried a usable address.
func (e Endpoint) HasAddress() bool {
	return e.Address != ""
}

// HostPort joins address and port the way net.Dial expects them.
// Without a port it returns the bare address.
func (e Endpoint) HostPort() string {
	if e.Port == "" {
		return e.Address
	}
	return net.JoinHostPort(e.Address, e.Port)
}

// DNSSEC reports whether the server claims DNSSEC validation.
func (e Endpoint) DNSSEC() bool {
	return e.Props&dnsstamps.ServerInformalPropertyDNSSEC != 0
}

// NoLog reports whether the server claims not to log queries.
func (e Endpoint) NoLog() bool {
	return e.Props&dnsstamps.ServerInformalPropertyNoLog != 0
}

// NoFilter reports whether the server claims not to filter responses.
func (e Endpoint) NoFilter() bool {
	return e.Props&dnsstamps.ServerInformalPropertyNoFilter != 0
}

// DefaultPort returns the port a client would use when the stamp address
// does not name one: the port of the provider host field when present,
// otherwise the protocol default. It is empty for endpoints that were not
// decoded.
func (e Endpoint) DefaultPort() string {
	switch e.Proto {
	case ProtoUnknown:
		return ""
	case ProtoPlain:
		return strconv.Itoa(plainDNSPort)
	}
	if e.HostnamePort != "" {
		return e.HostnamePort
	}

	// go-dnsstamps normalizes the server address with the implied port.
	// It does not know every stamp type, so fall back to the common default.
	if s, err := dnsstamps.NewServerStampFromString(e.Stamp); err == nil && s.ServerAddrStr != "" {
		if _, port, err := net.SplitHostPort(s.ServerAddrStr); err == nil {
			return port
		}
	}
	return strconv.Itoa(dnsstamps.DefaultPort)
}

// WithDefaultPort returns a copy of e whose Port is filled with the protocol
// default when the stamp had an address but no explicit port.
func (e Endpoint) WithDefaultPort() Endpoint {
	if e.HasAddress() && e.Port == "" {
		e.Port = e.DefaultPort()
	}
	return e
}
