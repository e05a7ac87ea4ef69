// Package resolve looks up the addresses of stamps that only name a host,
// such as DoH servers published without a bootstrap address.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/firefly-engineering/stampwall/internal/logging"
	"github.com/firefly-engineering/stampwall/internal/stamp"
)

// Resolver queries a single bootstrap DNS server.
type Resolver struct {
	server string
	client *mdns.Client
}

// New creates a Resolver sending queries to server (host:port).
func New(server string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		server: server,
		client: &mdns.Client{Net: "udp", Timeout: timeout},
	}
}

// Lookup returns the IPv4 and IPv6 addresses of host.
func (r *Resolver) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	var addrs []netip.Addr
	var errs []error

	for _, qtype := range []uint16{mdns.TypeA, mdns.TypeAAAA} {
		found, err := r.query(ctx, host, qtype)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		addrs = append(addrs, found...)
	}

	if len(addrs) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return addrs, nil
}

func (r *Resolver) query(ctx context.Context, host string, qtype uint16) ([]netip.Addr, error) {
	req := new(mdns.Msg)
	req.SetQuestion(mdns.Fqdn(host), qtype)
	req.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, req, r.server)
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", mdns.TypeToString[qtype], host, err)
	}
	if resp.Rcode != mdns.RcodeSuccess {
		return nil, fmt.Errorf("query %s %s: %s", mdns.TypeToString[qtype], host, mdns.RcodeToString[resp.Rcode])
	}

	var addrs []netip.Addr
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *mdns.A:
			if a, ok := netip.AddrFromSlice(v.A.To4()); ok {
				addrs = append(addrs, a)
			}
		case *mdns.AAAA:
			if a, ok := netip.AddrFromSlice(v.AAAA.To16()); ok {
				addrs = append(addrs, a)
			}
		}
	}
	return addrs, nil
}

// Expand returns ep unchanged when it already has an address or names no
// host. Otherwise it returns one endpoint per resolved address, on the port
// of the host field or else the protocol default.
func (r *Resolver) Expand(ctx context.Context, ep stamp.Endpoint) []stamp.Endpoint {
	if ep.HasAddress() || ep.Hostname == "" {
		return []stamp.Endpoint{ep}
	}

	addrs, err := r.Lookup(ctx, ep.Hostname)
	if err != nil || len(addrs) == 0 {
		logging.Debug("hostname not resolved", "host", ep.Hostname, "error", err)
		return []stamp.Endpoint{ep}
	}

	port := ep.DefaultPort()
	out := make([]stamp.Endpoint, 0, len(addrs))
	for _, a := range addrs {
		resolved := ep
		resolved.Address = a.String()
		resolved.Port = port
		out = append(out, resolved)
	}
	return out
}
