package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/firefly-engineering/stampwall/internal/logging"
)

// SignatureSuffix is appended to a resource URL to locate its signature.
const SignatureSuffix = ".minisig"

// ErrNoDataFromSource is returned when a source could not be retrieved or
// its signature did not verify.
var ErrNoDataFromSource = errors.New("no data from source")

// Payload is resource content whose signature verified.
type Payload []byte

// Retriever downloads the content of a URL.
type Retriever interface {
	Retrieve(ctx context.Context, url string) ([]byte, error)
}

// Verifier checks the file at resourcePath against the detached signature
// at signaturePath. It returns the verifier exit code, zero meaning the
// signature is valid. An error means the verifier could not run at all.
type Verifier interface {
	Verify(ctx context.Context, resourcePath, signaturePath, key string) (int, error)
}

// TempStore provisions files the verifier can read.
type TempStore interface {
	// Put writes data to a new unique file and returns its path.
	Put(name string, data []byte) (string, error)

	// Release removes a file returned by Put.
	Release(path string) error
}

// Fetcher downloads resources and verifies their signatures.
type Fetcher struct {
	retriever Retriever
	verifier  Verifier
	store     TempStore
}

// New creates a Fetcher from its collaborators.
func New(retriever Retriever, verifier Verifier, store TempStore) *Fetcher {
	return &Fetcher{
		retriever: retriever,
		verifier:  verifier,
		store:     store,
	}
}

// SignatureURL returns the URL of the detached signature for url.
// A non-empty override is returned as is.
func SignatureURL(url, override string) string {
	if override != "" {
		return override
	}
	return url + SignatureSuffix
}

// Fetch retrieves url and its signature and verifies them with key.
// sigURL overrides the default signature location when non-empty.
// The resource bytes are returned unchanged on success.
func (f *Fetcher) Fetch(ctx context.Context, url, key, sigURL string) (Payload, error) {
	sigURL = SignatureURL(url, sigURL)

	resource, err := f.retriever.Retrieve(ctx, url)
	if err != nil {
		return nil, noData("retrieve %s", url, err)
	}

	signature, err := f.retriever.Retrieve(ctx, sigURL)
	if err != nil {
		return nil, noData("retrieve signature %s", sigURL, err)
	}

	code, err := f.verify(ctx, resource, signature, key)
	if err != nil {
		return nil, noData("verify %s", url, err)
	}
	if code != 0 {
		return nil, noData("verify %s", url, fmt.Errorf("verifier exited with code %d", code))
	}

	logging.Debug("signature verified", "url", url, "bytes", len(resource))
	return Payload(resource), nil
}

// verify writes both documents to temporary files for the lifetime of the
// verifier call.
func (f *Fetcher) verify(ctx context.Context, resource, signature []byte, key string) (int, error) {
	resourcePath, err := f.store.Put("source", resource)
	if err != nil {
		return -1, fmt.Errorf("failed to store resource: %w", err)
	}
	defer f.release(resourcePath)

	signaturePath, err := f.store.Put("minisig", signature)
	if err != nil {
		return -1, fmt.Errorf("failed to store signature: %w", err)
	}
	defer f.release(signaturePath)

	return f.verifier.Verify(ctx, resourcePath, signaturePath, key)
}

func (f *Fetcher) release(path string) {
	if err := f.store.Release(path); err != nil {
		logging.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}

func noData(format, target string, cause error) error {
	return fmt.Errorf("%w: "+format+": %w", ErrNoDataFromSource, target, cause)
}
