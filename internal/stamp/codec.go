package stamp

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"regexp"
	"strings"

	"github.com/miekg/dns"
)

var (
	errTruncated = errors.New("truncated stamp")
	errTrailing  = errors.New("garbage after end of stamp")
)

// Address forms, checked in order. Bracketed forms win over a bare trailing
// port because IPv6 literals contain colons of their own.
var (
	bracketedWithPort = regexp.MustCompile(`\]:\d{1,5}$`)
	bracketed         = regexp.MustCompile(`\]$`)
	bareWithPort      = regexp.MustCompile(`(^|[^\]]):\d{1,5}$`)

	bracketStripper = strings.NewReplacer("[", "", "]", "")
)

// record holds the stamp fields stampwall cares about.
type record struct {
	proto Proto
	props uint64
	addr  string
	host  string
}

// Decode decodes a stamp into an Endpoint. It never fails: when the stamp
// cannot be decoded the returned Endpoint only carries the input stamp.
func Decode(raw string) Endpoint {
	ep := Endpoint{Stamp: raw, Proto: ProtoUnknown}

	rec, err := parse(raw)
	if err != nil {
		return ep
	}

	ep.Proto = rec.proto
	ep.Props = Props(rec.props)
	ep.Hostname, ep.HostnamePort = hostnameOf(rec.host)

	ep.Address, ep.Port = splitAddress(rec.addr)
	return ep
}

// splitAddress separates an encoded server address from its port. An
// address that is empty once brackets and port are removed yields neither.
func splitAddress(addr string) (string, string) {
	var host, port string
	switch {
	case bracketedWithPort.MatchString(addr):
		host, port = rsplit(bracketStripper.Replace(addr))
	case bracketed.MatchString(addr):
		host = bracketStripper.Replace(addr)
	case bareWithPort.MatchString(addr):
		// An unbracketed IPv6 literal also ends in ":<digits>".
		if ip, err := netip.ParseAddr(addr); err == nil && ip.Is6() {
			host = addr
		} else {
			host, port = rsplit(addr)
		}
	default:
		host = addr
	}
	if host == "" {
		return "", ""
	}
	return host, port
}

func rsplit(s string) (string, string) {
	i := strings.LastIndexByte(s, ':')
	return s[:i], s[i+1:]
}

// hostnameOf splits the provider host field of a stamp into a host name and
// an optional port. Both are empty when the host is not a valid domain name.
func hostnameOf(field string) (string, string) {
	if field == "" {
		return "", ""
	}
	host, port := field, ""
	if h, p, err := net.SplitHostPort(field); err == nil {
		host, port = h, p
	}
	if _, ok := dns.IsDomainName(host); !ok || host == "" {
		return "", ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return "", ""
	}
	return strings.TrimSuffix(host, "."), port
}

func parse(raw string) (record, error) {
	if !strings.HasPrefix(raw, Scheme) {
		return record{}, fmt.Errorf("missing %s prefix", Scheme)
	}

	payload := strings.TrimRight(raw[len(Scheme):], "=")
	bin, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return record{}, fmt.Errorf("decode payload: %w", err)
	}

	r := &reader{bin: bin}
	b, err := r.byte()
	if err != nil {
		return record{}, err
	}

	rec := record{proto: Proto(b)}
	switch rec.proto {
	case ProtoPlain:
		err = r.fields(&rec, withProps, withAddr)
	case ProtoDNSCrypt:
		err = r.fields(&rec, withProps, withAddr, skipLP, skipLP)
	case ProtoDoH, ProtoODoHRelay:
		err = r.fields(&rec, withProps, withAddr, skipVLP, withHost, skipLP, optionalVLP)
	case ProtoDoT, ProtoDoQ:
		err = r.fields(&rec, withProps, withAddr, skipVLP, withHost, optionalVLP)
	case ProtoODoHTarget:
		err = r.fields(&rec, withProps, withHost, skipLP)
	case ProtoDNSCryptRelay:
		err = r.fields(&rec, withAddr)
	default:
		return record{}, fmt.Errorf("unsupported stamp type 0x%02x", b)
	}
	if err != nil {
		return record{}, err
	}

	if !r.done() {
		return record{}, errTrailing
	}
	return rec, nil
}

// field reads one stamp field, optionally storing it in rec.
type field func(r *reader, rec *record) error

func withProps(r *reader, rec *record) (err error) {
	rec.props, err = r.uint64()
	return err
}

func withAddr(r *reader, rec *record) error {
	b, err := r.lp()
	rec.addr = string(b)
	return err
}

func withHost(r *reader, rec *record) error {
	b, err := r.lp()
	rec.host = string(b)
	return err
}

func skipLP(r *reader, _ *record) error {
	_, err := r.lp()
	return err
}

func skipVLP(r *reader, _ *record) error {
	return r.vlp()
}

// optionalVLP reads the trailing bootstrap list when present.
func optionalVLP(r *reader, _ *record) error {
	if r.done() {
		return nil
	}
	return r.vlp()
}

type reader struct {
	bin []byte
	pos int
}

func (r *reader) fields(rec *record, fs ...field) error {
	for _, f := range fs {
		if err := f(r, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) done() bool {
	return r.pos >= len(r.bin)
}

func (r *reader) byte() (byte, error) {
	if r.done() {
		return 0, errTruncated
	}
	b := r.bin[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n > len(r.bin)-r.pos {
		return nil, errTruncated
	}
	b := r.bin[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// lp reads a length-prefixed string.
func (r *reader) lp() ([]byte, error) {
	n, err := r.byte()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

// vlp reads a set of length-prefixed strings. The high bit of each length
// byte is set when another entry follows.
func (r *reader) vlp() error {
	for {
		n, err := r.byte()
		if err != nil {
			return err
		}
		if _, err := r.take(int(n &^ 0x80)); err != nil {
			return err
		}
		if n&0x80 == 0 {
			return nil
		}
	}
}
