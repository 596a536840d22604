package app

import (
	"net"
	"net/http"
	"time"
)

// newHTTPClient returns a client for a handful of keep-alive connections to
// the share host. The overall deadline is applied per request by fetch.Client.
func newHTTPClient(workers int) *http.Client {
	if workers < 1 {
		workers = 1
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          workers * 4,
		MaxIdleConnsPerHost:   workers,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Content-Encoding is decoded by fetch.Client, including brotli.
		DisableCompression: true,
	}
	return &http.Client{Transport: transport}
}
