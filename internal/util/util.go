package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// GetClientIPAddress returns the first X-Forwarded-For hop, falling back to
// the host part of the connection's remote address.
func GetClientIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return RemoteHost(r)
}

// RemoteHost strips the port from r.RemoteAddr.
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsValidURL reports whether input is an absolute http or https URL with a host.
func IsValidURL(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}

	u, err := url.Parse(input)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if u.Hostname() == "" {
		return false
	}

	return true
}
