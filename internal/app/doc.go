// Package app wires the stampwall pipeline together.
//
// An App enumerates the sources of a dnscrypt-proxy configuration, fetches
// and verifies every source URL, extracts the stamps of each verified
// document and decodes them into rule entries:
//
//	a := app.New(fetcher,
//	    app.WithResolver(resolve.New("9.9.9.9:53", 5*time.Second)),
//	    app.WithDefaultPorts(true),
//	    app.WithParallel(4),
//	)
//	report, err := a.Run(ctx, doc)
//	out, err := report.Render(renderer)
//
// Sources that fail to download or verify are skipped and listed in
// Report.Failed. Entries keep the order of the configuration regardless of
// parallelism.
//
// # Available Options
//
//	WithResolver(r)          // Resolve hostname-only stamps
//	WithDefaultPorts(bool)   // Fill absent ports with the protocol default
//	WithSkipUnresolved(bool) // Drop entries without an address
//	WithParallel(n)          // Process up to n URLs at once
//	WithMetrics(recorder)    // Record per-source counters
//	WithAudit(logger)        // Append JSONL events
//	WithSignatureURL(url)    // Override the signature location
package app
