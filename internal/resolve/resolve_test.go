package resolve

import (
	"context"
	"net"
	"testing"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/firefly-engineering/stampwall/internal/stamp"
)

const (
	dohNoAddress = "sdns://AgcAAAAAAAAAAKDMEGDTnIMptitvvH0NbfkwmGm5gefmOS1c2PpAj02A5iBETr1nu4P4gHs5Iek4rJF4uIK9UKrbESMfBEz18I33zhZkb2guYXBwbGllZHByaXZhY3kubmV0Bi9xdWVyeQ"

	// Host field "doh.appliedprivacy.net:8443", no address.
	dohHostPort = "sdns://AgcAAAAAAAAAAAAbZG9oLmFwcGxpZWRwcml2YWN5Lm5ldDo4NDQzCi9kbnMtcXVlcnk"
)

// startServer runs a DNS server answering for doh.appliedprivacy.net only.
func startServer(t *testing.T) string {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket failed: %v", err)
	}

	handler := mdns.HandlerFunc(func(w mdns.ResponseWriter, r *mdns.Msg) {
		m := new(mdns.Msg)
		m.SetReply(r)

		q := r.Question[0]
		if q.Name != "doh.appliedprivacy.net." {
			m.Rcode = mdns.RcodeNameError
			_ = w.WriteMsg(m)
			return
		}

		hdr := mdns.RR_Header{Name: q.Name, Rrtype: q.Qtype, Class: mdns.ClassINET, Ttl: 60}
		switch q.Qtype {
		case mdns.TypeA:
			m.Answer = append(m.Answer, &mdns.A{Hdr: hdr, A: net.ParseIP("146.255.56.98")})
		case mdns.TypeAAAA:
			m.Answer = append(m.Answer, &mdns.AAAA{Hdr: hdr, AAAA: net.ParseIP("2a02:1b8:10:234::2")})
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &mdns.Server{PacketConn: conn, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("DNS server did not start")
	}

	return conn.LocalAddr().String()
}

func TestLookup(t *testing.T) {
	r := New(startServer(t), time.Second)

	addrs, err := r.Lookup(context.Background(), "doh.appliedprivacy.net")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if len(addrs) != 2 {
		t.Fatalf("Lookup returned %v, want one A and one AAAA", addrs)
	}
	if addrs[0].String() != "146.255.56.98" || addrs[1].String() != "2a02:1b8:10:234::2" {
		t.Errorf("Lookup = %v", addrs)
	}
}

func TestLookup_NXDomain(t *testing.T) {
	r := New(startServer(t), time.Second)

	if _, err := r.Lookup(context.Background(), "unknown.example"); err == nil {
		t.Error("Expected error for NXDOMAIN, got nil")
	}
}

func TestExpand(t *testing.T) {
	r := New(startServer(t), time.Second)

	ep := stamp.Decode(dohNoAddress)
	if ep.HasAddress() {
		t.Fatalf("fixture stamp unexpectedly has address %q", ep.Address)
	}

	expanded := r.Expand(context.Background(), ep)
	if len(expanded) != 2 {
		t.Fatalf("Expand returned %d endpoints, want 2", len(expanded))
	}
	for _, e := range expanded {
		if e.Port != "443" {
			t.Errorf("Port = %q, want 443", e.Port)
		}
		if e.Stamp != dohNoAddress {
			t.Errorf("Stamp not preserved: %q", e.Stamp)
		}
	}
}

func TestExpand_HostFieldPort(t *testing.T) {
	r := New(startServer(t), time.Second)

	expanded := r.Expand(context.Background(), stamp.Decode(dohHostPort))
	if len(expanded) != 2 {
		t.Fatalf("Expand returned %d endpoints, want 2", len(expanded))
	}
	for _, e := range expanded {
		if e.Port != "8443" {
			t.Errorf("Port = %q, want 8443 from the host field", e.Port)
		}
		if e.Hostname != "doh.appliedprivacy.net" {
			t.Errorf("Hostname = %q", e.Hostname)
		}
	}
}

func TestExpand_Unchanged(t *testing.T) {
	r := New("127.0.0.1:1", 100*time.Millisecond)

	withAddress := stamp.Decode("sdns://gQ01MS4xNTguMTY2Ljk3")
	if got := r.Expand(context.Background(), withAddress); len(got) != 1 || got[0] != withAddress {
		t.Errorf("Expand changed an endpoint with address: %+v", got)
	}

	broken := stamp.Decode("sdns://THISISABADSDNS")
	if got := r.Expand(context.Background(), broken); len(got) != 1 || got[0].HasAddress() {
		t.Errorf("Expand(broken) = %+v", got)
	}
}

func TestExpand_Unresolvable(t *testing.T) {
	r := New("127.0.0.1:1", 100*time.Millisecond)

	ep := stamp.Decode(dohNoAddress)
	got := r.Expand(context.Background(), ep)
	if len(got) != 1 || got[0].HasAddress() || got[0].Port != "" {
		t.Errorf("Expand without answer = %+v, want endpoint unchanged", got)
	}
}
