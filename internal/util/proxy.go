// Package util holds small shared helpers for outbound HTTP: proxy
// selection, robots.txt gating, and per-host rate limiting.
package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the proxy selector for an HTTP transport. Explicit
// proxy URLs win over the environment; with none configured the standard
// environment variables apply. Hosts covered by noProxy bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if noProxyMatch(req.URL.Hostname(), noProxy) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// noProxyMatch reports whether host is covered by the comma-separated
// no-proxy list. An entry matches the host itself and its subdomains.
func noProxyMatch(host, noProxy string) bool {
	if noProxy == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.TrimPrefix(strings.TrimSpace(strings.ToLower(entry)), ".")
		if entry == "" {
			continue
		}
		if entry == "*" || host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
