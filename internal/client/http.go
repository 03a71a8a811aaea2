package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"

	"github.com/Zeuyel/MathImage/internal/constant"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// NewHTTPClient creates an HTTP client configured for the given endpoint,
// applying its proxy and timeout settings. Each operation owns its client,
// so concurrent invocations never share mutable state beyond the transport.
func NewHTTPClient(endpoint typ.Endpoint, fallbackTimeout time.Duration) *http.Client {
	timeout := fallbackTimeout
	if endpoint.Timeout > 0 {
		timeout = time.Duration(endpoint.Timeout) * time.Second
	}
	if timeout <= 0 {
		timeout = constant.DefaultRequestTimeout * time.Second
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transportForProxy(endpoint.ProxyURL),
	}
	return client
}

// transportForProxy builds a transport honoring an optional proxy URL.
// Unsupported or malformed proxy URLs fall back to the default transport.
func transportForProxy(proxyURL string) http.RoundTripper {
	if proxyURL == "" {
		return http.DefaultTransport
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		logrus.Errorf("Failed to parse proxy URL %s: %v, using default transport", proxyURL, err)
		return http.DefaultTransport
	}

	transport := &http.Transport{}

	switch parsedURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsedURL)
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, nil, proxy.Direct)
		if err != nil {
			logrus.Errorf("Failed to create SOCKS5 proxy dialer: %v, using default transport", err)
			return http.DefaultTransport
		}
		dialContext, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return http.DefaultTransport
		}
		transport.DialContext = dialContext.DialContext
	default:
		logrus.Errorf("Unsupported proxy scheme %s, supported schemes are http, https, socks5", parsedURL.Scheme)
		return http.DefaultTransport
	}

	return transport
}
