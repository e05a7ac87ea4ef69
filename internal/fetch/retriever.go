package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// maxBodySize bounds a downloaded source list or signature.
const maxBodySize = 16 << 20

// HTTPRetriever downloads resources over HTTP(S).
type HTTPRetriever struct {
	client    *http.Client
	userAgent string
}

// HTTPOptions configures an HTTPRetriever.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string

	// Proxy is an http://, https:// or socks5:// URL. Empty means the
	// environment proxy settings apply.
	Proxy string
}

// NewHTTPRetriever creates an HTTPRetriever.
func NewHTTPRetriever(opts HTTPOptions) (*HTTPRetriever, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}

		switch proxyURL.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		default:
			dialer, err := netproxy.FromURL(proxyURL, netproxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("unable to use proxy %q: %w", opts.Proxy, err)
			}
			transport.Proxy = nil
			transport.DialContext = dialContext(dialer)
		}
	}

	return &HTTPRetriever{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent: opts.UserAgent,
	}, nil
}

func dialContext(d netproxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(netproxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// Retrieve downloads url. Any status other than 2xx is an error.
func (r *HTTPRetriever) Retrieve(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodySize)
	}

	return body, nil
}
