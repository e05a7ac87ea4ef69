package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.Fetched("relays", true, 120*time.Millisecond)
	r.Fetched("public-resolvers", false, time.Second)
	r.Fetched("relays", true, 80*time.Millisecond)

	if got := testutil.ToFloat64(r.fetches.WithLabelValues("relays", ResultVerified)); got != 2 {
		t.Errorf("verified relays fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.fetches.WithLabelValues("public-resolvers", ResultFailed)); got != 1 {
		t.Errorf("failed public-resolvers fetches = %v, want 1", got)
	}

	r.Endpoint("relays", "dnscrypt-relay", true)
	r.Endpoint("relays", "dnscrypt-relay", true)
	r.Endpoint("relays", "unknown", false)

	if got := testutil.ToFloat64(r.endpoints.WithLabelValues("relays", "dnscrypt-relay")); got != 2 {
		t.Errorf("endpoints = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.undecodable.WithLabelValues("relays")); got != 1 {
		t.Errorf("undecodable = %v, want 1", got)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder

	r.Fetched("relays", true, time.Second)
	r.Endpoint("relays", "doh", true)
	r.Finish(time.Now())
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Fetched("relays", true, 10*time.Millisecond)
	r.Endpoint("relays", "dnscrypt-relay", true)
	r.Finish(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "stampwall.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	for _, want := range []string{
		`stampwall_source_fetches_total{result="verified",source="relays"} 1`,
		`stampwall_endpoints_total{proto="dnscrypt-relay",source="relays"} 1`,
		`stampwall_last_run_timestamp_seconds 1.7e+09`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestRecorder_Gather(t *testing.T) {
	r := NewRecorder()
	r.Fetched("relays", false, time.Millisecond)

	count, err := testutil.GatherAndCount(r.Registry(), "stampwall_source_fetches_total")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("series = %d, want 1", count)
	}
}
