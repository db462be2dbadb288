package fetcher

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the number of redirects followed before giving up.
const maxRedirects = 10

// ErrInvalidProxyAddress is returned when a SOCKS5 proxy address is not in
// host:port form.
var ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

// ClientOption configures the HTTP client built by NewHTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	headers    map[string]string
	socksProxy string
}

// WithHeaders sets extra headers sent with every request, redirects included.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *clientOptions) {
		o.headers = headers
	}
}

// WithSOCKS5Proxy routes every connection through the SOCKS5 proxy at
// address ("host:port"). An empty address keeps the environment proxy
// settings (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
func WithSOCKS5Proxy(address string) ClientOption {
	return func(o *clientOptions) {
		o.socksProxy = address
	}
}

// NewHTTPClient returns the HTTP client used by a Fetcher.
//
// Design decisions:
//   - Redirect limit is 10 to prevent redirect loops while allowing normal redirects
//   - The client has no overall timeout; each Fetch bounds its own request with
//     a context deadline so the body read is covered too
//   - A cookie jar keeps session cookies the site sets while it is crawled
//   - Custom headers are injected by a RoundTripper so redirected requests
//     carry them as well
func NewHTTPClient(opts ...ClientOption) (*http.Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if o.socksProxy != "" {
		if !isValidProxyAddress(o.socksProxy) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, o.socksProxy)
		}
		// Tor and ssh -D style proxies do not require auth.
		dialer, err := proxy.SOCKS5("tcp", o.socksProxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		cd, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = cd.DialContext
	}

	var rt http.RoundTripper = transport
	if len(o.headers) > 0 {
		rt = &headerInjectingTransport{base: transport, headers: o.headers}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: rt,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// isValidProxyAddress checks that address is "host:port" with a port in
// 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers into every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clone := req.Clone(req.Context())

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
