// Package httpclient builds the HTTP client used for model server calls.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// New creates an HTTP client tuned for streaming completions. The overall
// client timeout stays unset: a generation can legitimately run for
// minutes, so stream lifetime is bounded by the caller's context instead.
// Connection setup and response headers keep hard limits.
func New(tlsConfig *tls.Config, headerTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment,
		DialContext:            dialer.DialContext,
		TLSClientConfig:        tlsConfig,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  headerTimeout,
		ExpectContinueTimeout:  1 * time.Second,
		IdleConnTimeout:        60 * time.Second,
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    4,
		MaxResponseHeaderBytes: 1 << 20, // 1 MiB
	}

	return &http.Client{Transport: transport}
}
