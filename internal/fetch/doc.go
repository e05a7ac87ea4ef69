// Package fetch retrieves a resource together with its detached minisign
// signature and only hands the resource back once the signature verified.
//
// # Collaborators
//
// A Fetcher is built from three capabilities:
//
//   - Retriever downloads a URL (HTTPRetriever)
//   - TempStore provisions files for the verifier (DiskStore)
//   - Verifier checks a resource file against a signature file and a
//     public key (CommandVerifier runs minisign, BuiltinVerifier verifies
//     in-process)
//
// # Failures
//
// Every failure, whether retrieval, signature download or verification,
// matches ErrNoDataFromSource:
//
//	payload, err := f.Fetch(ctx, url, key, "")
//	if errors.Is(err, fetch.ErrNoDataFromSource) {
//	    // skip this source
//	}
package fetch
