package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/firefly-engineering/stampwall/internal/audit"
	"github.com/firefly-engineering/stampwall/internal/config"
	"github.com/firefly-engineering/stampwall/internal/fetch"
	"github.com/firefly-engineering/stampwall/internal/logging"
	"github.com/firefly-engineering/stampwall/internal/metrics"
	"github.com/firefly-engineering/stampwall/internal/rules"
	"github.com/firefly-engineering/stampwall/internal/stamp"
)

// Fetcher returns the verified contents of a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url, key, sigURL string) (fetch.Payload, error)
}

// Resolver expands an endpoint without address into resolved endpoints.
type Resolver interface {
	Expand(ctx context.Context, ep stamp.Endpoint) []stamp.Endpoint
}

// App holds the pipeline dependencies
type App struct {
	fetcher        Fetcher
	resolver       Resolver
	metrics        *metrics.Recorder
	audit          *audit.Logger
	parallel       int
	defaultPorts   bool
	skipUnresolved bool
	signatureURL   string
	now            func() time.Time
}

// Option is a function that configures the App
type Option func(*App)

// WithResolver resolves hostname-only stamps through r
func WithResolver(r Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithDefaultPorts fills absent ports with the protocol default port
func WithDefaultPorts(enabled bool) Option {
	return func(a *App) {
		a.defaultPorts = enabled
	}
}

// WithSkipUnresolved drops entries that still have no address
func WithSkipUnresolved(enabled bool) Option {
	return func(a *App) {
		a.skipUnresolved = enabled
	}
}

// WithParallel sets how many URLs are processed at once
func WithParallel(n int) Option {
	return func(a *App) {
		a.parallel = n
	}
}

// WithMetrics records run metrics in r
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *App) {
		a.metrics = r
	}
}

// WithAudit appends run events to l
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.audit = l
	}
}

// WithSignatureURL overrides the signature location of every URL
func WithSignatureURL(url string) Option {
	return func(a *App) {
		a.signatureURL = url
	}
}

// New creates an App fetching through f.
func New(f Fetcher, opts ...Option) *App {
	a := &App{
		fetcher:  f,
		parallel: 1,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.parallel < 1 {
		a.parallel = 1
	}
	return a
}

// Report is the outcome of a run.
type Report struct {
	// Triples is the number of URLs attempted.
	Triples int

	// Entries holds the decoded endpoints in configuration order.
	Entries []rules.Entry

	// Failed lists the names of sources with at least one failed URL,
	// in configuration order and without duplicates.
	Failed []string

	// FailedURLs lists every URL that could not be fetched or verified.
	FailedURLs []string
}

// AllFailed reports whether there was something to fetch and nothing
// could be fetched.
func (r *Report) AllFailed() bool {
	return r.Triples > 0 && len(r.FailedURLs) == r.Triples
}

// Render renders the entries of the report.
func (r *Report) Render(renderer rules.Renderer) (string, error) {
	return rules.Document(renderer, r.Entries)
}

type outcome struct {
	triple  config.SourceTriple
	entries []rules.Entry
	err     error
}

// Run processes every source of doc. Fetch failures are recorded in the
// report and do not stop the run; only cancellation of ctx is returned as
// an error.
func (a *App) Run(ctx context.Context, doc *config.Document) (*Report, error) {
	triples := config.Enumerate(doc)
	a.record(audit.EventRunStart, "", "", "", len(triples))

	outcomes := make([]outcome, len(triples))

	// A failed source is part of the report, so workers never return an
	// error and the group only bounds concurrency.
	var g errgroup.Group
	g.SetLimit(a.parallel)
	for i, t := range triples {
		if ctx.Err() != nil {
			break
		}
		i, t := i, t
		g.Go(func() error {
			outcomes[i] = a.process(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Triples: len(triples)}
	failed := make(map[string]bool)
	for _, o := range outcomes {
		if o.err != nil {
			report.FailedURLs = append(report.FailedURLs, o.triple.URL)
			if !failed[o.triple.Name] {
				failed[o.triple.Name] = true
				report.Failed = append(report.Failed, o.triple.Name)
			}
			continue
		}
		report.Entries = append(report.Entries, o.entries...)
	}

	a.metrics.Finish(a.now())
	a.record(audit.EventRunEnd, "", "", failedDetails(report.FailedURLs), len(report.Entries))

	return report, nil
}

// process fetches one triple and turns its stamps into entries.
func (a *App) process(ctx context.Context, t config.SourceTriple) outcome {
	log := logging.With("source", t.Name, "url", t.URL)

	start := a.now()
	payload, err := a.fetcher.Fetch(ctx, t.URL, t.Key, a.signatureURL)
	a.metrics.Fetched(t.Name, err == nil, a.now().Sub(start))
	if err != nil {
		if errors.Is(err, fetch.ErrNoDataFromSource) {
			log.Warn("source skipped", "error", err)
		} else {
			log.Error("source failed", "error", err)
		}
		a.record(audit.EventFailed, t.Name, t.URL, err.Error(), 0)
		return outcome{triple: t, err: err}
	}

	endpoints := stamp.Info(string(payload))
	a.record(audit.EventVerified, t.Name, t.URL, "", len(endpoints))
	log.Debug("source verified", "stamps", len(endpoints))

	var entries []rules.Entry
	for _, ep := range endpoints {
		for _, resolved := range a.expand(ctx, ep) {
			a.metrics.Endpoint(t.Name, resolved.Proto.String(), resolved.HasAddress())

			if a.skipUnresolved && !resolved.HasAddress() {
				log.Debug("skipping endpoint without address", "stamp", resolved.Stamp)
				continue
			}
			entries = append(entries, rules.Entry{
				Endpoint: resolved,
				Source:   t.Name,
				URL:      t.URL,
				Key:      t.Key,
			})
		}
	}

	a.record(audit.EventRendered, t.Name, t.URL, "", len(entries))
	return outcome{triple: t, entries: entries}
}

func (a *App) expand(ctx context.Context, ep stamp.Endpoint) []stamp.Endpoint {
	eps := []stamp.Endpoint{ep}
	if a.resolver != nil {
		eps = a.resolver.Expand(ctx, ep)
	}

	if a.defaultPorts {
		for i := range eps {
			eps[i] = eps[i].WithDefaultPort()
		}
	}
	return eps
}

func (a *App) record(eventType audit.EventType, source, url, details string, count int) {
	if a.audit == nil {
		return
	}
	if err := a.audit.LogEvent(eventType, source, url, details, count); err != nil {
		logging.Warn("failed to write audit event", "path", a.audit.Path(), "error", err)
	}
}

func failedDetails(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return "failed: " + strings.Join(urls, " ")
}
